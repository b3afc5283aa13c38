package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"karolbroda.com/lyricline/internal/cache"
	"karolbroda.com/lyricline/internal/lyrics"
)

var (
	// flags for cache list / clear
	cacheSortBy  string
	cacheConfirm bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "manage the lyrics cache",
	Long:  `manage cached lyric documents, including viewing statistics, listing entries, and clearing the cache.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show cache statistics",
	Long:  `display cache statistics including number of entries, total size, and cache location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		diskCache := cache.Default()

		count, sizeBytes, err := diskCache.Stats()
		if err != nil {
			return fmt.Errorf("failed to get cache stats: %w", err)
		}

		location := diskCache.Path()
		if location == "" {
			location = "(memory only)"
		}

		fmt.Println("cache statistics:")
		fmt.Printf("  location: %s\n", location)
		fmt.Printf("  entries:  %d\n", count)
		fmt.Printf("  size:     %s\n", formatBytes(sizeBytes))

		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "list all cached songs",
	Long:  `list all song ids in the cache with their line count and cache date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := cache.Default().ListAll()
		if err != nil {
			return fmt.Errorf("failed to list cache: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("cache is empty")
			return nil
		}

		sortCacheEntries(entries, cacheSortBy)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tLINES\tCACHED\tEXPIRES")

		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				entry.Key,
				lyrics.Parse(entry.Document).Len(),
				time.Unix(entry.CreatedAt, 0).Format("2006-01-02"),
				time.Unix(entry.ExpiresAt, 0).Format("2006-01-02"),
			)
		}

		w.Flush()

		fmt.Printf("\ntotal: %d songs\n", len(entries))

		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "show cached entry for a song id",
	Long:  `display detailed information about a cached lyric document.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		diskCache := cache.Default()
		entry, err := diskCache.Get(key)
		if err != nil {
			return notCachedError(diskCache, key, err)
		}

		index := lyrics.Parse(entry.Document)

		fmt.Printf("key:     %s\n", entry.Key)
		fmt.Printf("cached:  %s\n", time.Unix(entry.CreatedAt, 0).Format("2006-01-02 15:04:05"))
		fmt.Printf("expires: %s\n", time.Unix(entry.ExpiresAt, 0).Format("2006-01-02 15:04:05"))
		fmt.Printf("size:    %s\n", formatBytes(int64(len(entry.Document))))
		fmt.Printf("lines:   %d\n", index.Len())

		if lines := index.Lines(); len(lines) > 0 {
			fmt.Printf("first:   [%s] %s\n", lyrics.FormatDuration(lines[0].Seconds), lines[0].Text)
			last := lines[len(lines)-1]
			fmt.Printf("last:    [%s] %s\n", lyrics.FormatDuration(last.Seconds), last.Text)
		}

		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "clear all cached entries",
	Long:  `remove all cached lyric documents. use --confirm to skip confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cacheConfirm {
			fmt.Print("are you sure you want to clear all cache? (y/n): ")
			var response string
			fmt.Scanln(&response)
			if !lo.Contains([]string{"y", "yes"}, strings.ToLower(response)) {
				fmt.Println("cancelled")
				return nil
			}
		}

		if err := cache.Default().Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		fmt.Println("cache cleared successfully")
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "remove expired cache entries",
	Long:  `remove all expired cache entries to free up disk space.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pruned, err := cache.Default().Prune()
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}

		fmt.Printf("removed %d expired entries\n", pruned)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "remove a song from cache",
	Long:  `remove the cached lyric document of one song id.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		diskCache := cache.Default()

		// verify it exists first
		if _, err := diskCache.Get(key); err != nil {
			return notCachedError(diskCache, key, err)
		}

		if err := diskCache.Delete(key); err != nil {
			return fmt.Errorf("failed to delete from cache: %w", err)
		}

		fmt.Printf("deleted '%s' from cache\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)

	cacheListCmd.Flags().StringVar(&cacheSortBy, "sort", "date", "sort by: date, key, expires")
	cacheClearCmd.Flags().BoolVar(&cacheConfirm, "confirm", false, "skip confirmation prompt")
}

// helper functions

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func sortCacheEntries(entries []*cache.Entry, sortBy string) {
	switch sortBy {
	case "key":
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Key < entries[j].Key
		})
	case "expires":
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].ExpiresAt < entries[j].ExpiresAt
		})
	case "date":
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].CreatedAt > entries[j].CreatedAt
		})
	}
}

// notCachedError explains a failed lookup, suggesting cached keys that share
// a prefix with key.
func notCachedError(diskCache *cache.DiskCache, key string, err error) error {
	if errors.Is(err, cache.ErrCacheExpired) {
		return fmt.Errorf("cache entry for %s has expired, run 'lyricline cache prune'", key)
	}

	suggestions := findSimilarKeys(diskCache, key)
	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "song not found in cache\n\n")
		fmt.Fprintf(os.Stderr, "did you mean one of these?\n")
		for _, s := range suggestions {
			fmt.Fprintf(os.Stderr, "  %s\n", s)
		}
	}
	return fmt.Errorf("song %s not found in cache: %w", key, err)
}

func findSimilarKeys(diskCache *cache.DiskCache, key string) []string {
	entries, err := diskCache.ListAll()
	if err != nil || len(entries) == 0 || len(key) < 3 {
		return nil
	}

	keys := lo.FilterMap(entries, func(entry *cache.Entry, _ int) (string, bool) {
		return entry.Key, strings.HasPrefix(entry.Key, key[:3]) || strings.Contains(entry.Key, key)
	})
	sort.Strings(keys)

	if len(keys) > 5 {
		keys = keys[:5]
	}
	return keys
}

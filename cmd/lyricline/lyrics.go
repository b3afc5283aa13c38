package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"karolbroda.com/lyricline/internal/lyrics"
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "lyrics lookup",
	Long:  `fetch lyrics by song id, pre-fetch them to cache, or check which line applies at a position.`,
}

var lyricsShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "show timed lyrics for a song id",
	Long:  `fetch the lyric document for a song id (from cache when possible) and print its timed lines.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := fetchIndex(cmd, args[0], true)
		if err != nil {
			return err
		}

		if index.Len() == 0 {
			fmt.Println("no timed lyrics available")
			return nil
		}

		fmt.Printf("%d timed lines:\n\n", index.Len())
		for _, line := range index.Lines() {
			fmt.Printf("[%s] %s\n", lyrics.FormatDuration(line.Seconds), line.Text)
		}

		return nil
	},
}

var lyricsFetchCmd = &cobra.Command{
	Use:   "fetch <key>",
	Short: "pre-fetch and cache lyrics",
	Long:  `fetch the lyric document for a song id and save it to the local cache.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := fetchIndex(cmd, args[0], false)
		if err != nil {
			return err
		}

		if index.Len() == 0 {
			fmt.Printf("no lyrics available for %s, nothing cached\n", args[0])
			return nil
		}

		fmt.Printf("cached %s: %d timed lines\n", args[0], index.Len())
		return nil
	},
}

var lyricsAtCmd = &cobra.Command{
	Use:   "at <key> <position>",
	Short: "show the lyric line at a position",
	Long:  `print the line that applies at a playback position given as mm:ss.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		position, err := parsePosition(args[1])
		if err != nil {
			return err
		}

		index, err := fetchIndex(cmd, args[0], true)
		if err != nil {
			return err
		}

		text, ok := index.Resolve(position)
		if !ok {
			text = cfg.Fallback
		}
		fmt.Println(cfg.Prefix + text)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lyricsCmd)

	lyricsCmd.AddCommand(lyricsShowCmd)
	lyricsCmd.AddCommand(lyricsFetchCmd)
	lyricsCmd.AddCommand(lyricsAtCmd)
}

// helper functions

func fetchIndex(cmd *cobra.Command, key string, readCache bool) (*lyrics.Index, error) {
	cfg := loadConfig(cmd)
	if !readCache {
		cfg.NoCache = true
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	document, err := fetcher.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, lyrics.ErrNotFound) {
			return nil, fmt.Errorf("no lyrics found for %s", key)
		}
		return nil, fmt.Errorf("failed to fetch lyrics: %w", err)
	}

	return lyrics.Parse(document), nil
}

func parsePosition(s string) (uint32, error) {
	position, err := lyrics.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position: %w", err)
	}
	return position, nil
}

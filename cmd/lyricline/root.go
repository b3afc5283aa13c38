package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"karolbroda.com/lyricline/internal/config"
)

var (
	// global flags
	backend      string
	playerName   string
	pollInterval time.Duration
	fetchTimeout time.Duration
	retryAfter   time.Duration
	fallbackText string
	linePrefix   string
	neteaseURL   string
	noCache      bool
	logLevel     string
	logFile      string
)

var rootCmd = &cobra.Command{
	Use:   "lyricline",
	Short: "print the current lyric line of the playing song",
	Long: `lyricline follows the active desktop media player and prints the lyric line
matching the playback position, one line per poll.

when run without a subcommand, it prints lines to stdout.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLines(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&backend, "backend", "b", config.BackendPlayerctl, "player backend: playerctl or mpris")
	flags.StringVarP(&playerName, "player", "p", "", "follow only this player (e.g., spotify)")
	flags.DurationVar(&pollInterval, "interval", config.DefaultPollInterval, "delay between poll cycles")
	flags.DurationVar(&fetchTimeout, "fetch-timeout", config.DefaultFetchTimeout, "lyrics request timeout")
	flags.DurationVar(&retryAfter, "retry-after", 0, "retry a failed lyrics fetch after this long (0 disables)")
	flags.StringVar(&fallbackText, "fallback", config.DefaultFallback, "text shown when no lyric line applies")
	flags.StringVar(&linePrefix, "prefix", config.DefaultPrefix, "prefix for printed lines")
	flags.StringVar(&neteaseURL, "netease-url", "", "custom lyrics api url")
	flags.BoolVar(&noCache, "no-cache", false, "disable cache reads (always fetch fresh)")
	flags.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&logFile, "log-file", "", "also write json logs to this rotated file")
}

// loadConfig reads the environment, then applies flags the user set.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	flags := cmd.Flags()

	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("player") {
		cfg.Player = playerName
	}
	if flags.Changed("interval") {
		cfg.PollInterval = pollInterval
	}
	if flags.Changed("fetch-timeout") {
		cfg.FetchTimeout = fetchTimeout
	}
	if flags.Changed("retry-after") {
		cfg.RetryAfter = retryAfter
	}
	if flags.Changed("fallback") {
		cfg.Fallback = fallbackText
	}
	if flags.Changed("prefix") {
		cfg.Prefix = linePrefix
	}
	if neteaseURL != "" {
		cfg.NeteaseURL = neteaseURL
	}
	if flags.Changed("no-cache") {
		cfg.NoCache = noCache
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"karolbroda.com/lyricline/internal/lyrics"
	"karolbroda.com/lyricline/internal/trackid"
)

const (
	BackendPlayerctl = "playerctl"
	BackendMPRIS     = "mpris"

	DefaultPollInterval = 200 * time.Millisecond
	DefaultFetchTimeout = 5 * time.Second
	DefaultFallback     = "_ z Z Z ♥"
	DefaultPrefix       = "♫ "
	DefaultLogLevel     = "warn"
)

type Config struct {
	Backend         string
	Player          string
	PollInterval    time.Duration
	FetchTimeout    time.Duration
	RetryAfter      time.Duration
	Fallback        string
	Prefix          string
	NeteaseURL      string
	YesPlayMusicURL string
	NoCache         bool
	LogLevel        string
	LogFile         string
}

// Load reads LYRICLINE_* variables, after merging a .env file from the working
// directory when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Backend:         getEnvOrDefault("LYRICLINE_BACKEND", BackendPlayerctl),
		Player:          os.Getenv("LYRICLINE_PLAYER"),
		PollInterval:    getDurationOrDefault("LYRICLINE_POLL_INTERVAL", DefaultPollInterval),
		FetchTimeout:    getDurationOrDefault("LYRICLINE_FETCH_TIMEOUT", DefaultFetchTimeout),
		RetryAfter:      getDurationOrDefault("LYRICLINE_RETRY_AFTER", 0),
		Fallback:        getEnvOrDefault("LYRICLINE_FALLBACK", DefaultFallback),
		Prefix:          getEnvOrDefault("LYRICLINE_PREFIX", DefaultPrefix),
		NeteaseURL:      getEnvOrDefault("LYRICLINE_NETEASE_URL", lyrics.DefaultNeteaseURL),
		YesPlayMusicURL: getEnvOrDefault("LYRICLINE_YESPLAYMUSIC_URL", trackid.DefaultYesPlayMusicURL),
		NoCache:         getBool("LYRICLINE_NO_CACHE"),
		LogLevel:        getEnvOrDefault("LYRICLINE_LOG_LEVEL", DefaultLogLevel),
		LogFile:         os.Getenv("LYRICLINE_LOG_FILE"),
	}
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getDurationOrDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getBool(key string) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "yes" || value == "on" {
		return true
	}
	b, err := strconv.ParseBool(value)
	return err == nil && b
}

package config

import (
	"os"
	"testing"
	"time"

	"karolbroda.com/lyricline/internal/lyrics"
)

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		"LYRICLINE_BACKEND", "LYRICLINE_PLAYER", "LYRICLINE_POLL_INTERVAL", "LYRICLINE_FETCH_TIMEOUT",
		"LYRICLINE_RETRY_AFTER", "LYRICLINE_FALLBACK", "LYRICLINE_PREFIX", "LYRICLINE_NETEASE_URL",
		"LYRICLINE_YESPLAYMUSIC_URL", "LYRICLINE_NO_CACHE", "LYRICLINE_LOG_LEVEL", "LYRICLINE_LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Backend != BackendPlayerctl {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.PollInterval != 200*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.RetryAfter != 0 {
		t.Errorf("RetryAfter = %v, want disabled", cfg.RetryAfter)
	}
	if cfg.Fallback != DefaultFallback || cfg.Prefix != DefaultPrefix {
		t.Errorf("unexpected display defaults %q %q", cfg.Fallback, cfg.Prefix)
	}
	if cfg.NeteaseURL != lyrics.DefaultNeteaseURL {
		t.Errorf("NeteaseURL = %q", cfg.NeteaseURL)
	}
	if cfg.NoCache {
		t.Error("NoCache should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LYRICLINE_BACKEND", "mpris")
	t.Setenv("LYRICLINE_PLAYER", "musicfox")
	t.Setenv("LYRICLINE_POLL_INTERVAL", "500ms")
	t.Setenv("LYRICLINE_FETCH_TIMEOUT", "not a duration")
	t.Setenv("LYRICLINE_RETRY_AFTER", "30s")
	t.Setenv("LYRICLINE_NO_CACHE", "yes")

	cfg := Load()

	if cfg.Backend != BackendMPRIS || cfg.Player != "musicfox" {
		t.Errorf("unexpected player settings %q %q", cfg.Backend, cfg.Player)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("bad duration should fall back, got %v", cfg.FetchTimeout)
	}
	if cfg.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v", cfg.RetryAfter)
	}
	if !cfg.NoCache {
		t.Error("NoCache should be set")
	}
}

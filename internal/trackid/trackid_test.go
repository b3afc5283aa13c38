package trackid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestDefaultStrategies(t *testing.T) {
	registry := Default("", nil)

	tests := []struct {
		player   string
		rawID    string
		expected string
	}{
		{"musicfox", "/org/mpris/MediaPlayer2/'1234'", "1234"},
		{"ElectronNCM", "/org/mpris/MediaPlayer2/'5678'/x", "5678"},
		{"feeluown", "fuo://netease/songs/9012", ""},
		{"feeluown", "/com/feeluown/fuo/netease/songs/9012", "9012"},
		{"Qcm", "/a/'42'", "42"},
		{"NeteaseCloudMusicGtk4", "/com/gitee/gmg137/NeteaseCloudMusicGtk4/'777'", "777"},
		{"musicfox", "", ""},
		{"musicfox", "/too/short", ""},
		{"spotify", "spotify:track:abc", ""},
		{"", "/a/b/c/d/e", ""},
	}

	for _, tc := range tests {
		t.Run(tc.player+"_"+tc.rawID, func(t *testing.T) {
			got := registry.Key(context.Background(), tc.player, tc.rawID)
			if got != tc.expected {
				t.Errorf("Key(%q, %q) = %q, want %q", tc.player, tc.rawID, got, tc.expected)
			}
		})
	}
}

func TestRegistryIsAdditive(t *testing.T) {
	registry := NewRegistry()
	if _, ok := registry.Lookup("custom"); ok {
		t.Fatal("empty registry should not know custom")
	}

	registry.Register("custom", ExtractorFunc(func(_ context.Context, rawID string) string {
		return "key-" + rawID
	}))

	if got := registry.Key(context.Background(), "custom", "7"); got != "key-7" {
		t.Errorf("Key = %q, want key-7", got)
	}

	registry.Register("another", Segment(1, false))
	if names := registry.Names(); !reflect.DeepEqual(names, []string{"another", "custom"}) {
		t.Errorf("Names = %v", names)
	}
}

func TestSegmentNegativeIndex(t *testing.T) {
	if got := Segment(-1, false).Extract(context.Background(), "/a/b"); got != "" {
		t.Errorf("expected empty key, got %q", got)
	}
}

func TestYesPlayMusic(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"numeric id", http.StatusOK, `{"currentTrack":{"id":186016,"name":"x"}}`, "186016"},
		{"string id", http.StatusOK, `{"currentTrack":{"id":"186016"}}`, "186016"},
		{"missing track", http.StatusOK, `{"progress":12}`, ""},
		{"null id", http.StatusOK, `{"currentTrack":{"id":null}}`, ""},
		{"bad json", http.StatusOK, `nope`, ""},
		{"server error", http.StatusInternalServerError, `{}`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			registry := Default(server.URL+"/player", server.Client())
			got := registry.Key(context.Background(), "yesplaymusic", "/ignored")
			if got != tc.expected {
				t.Errorf("Key = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestYesPlayMusicUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if got := YesPlayMusic(url, nil).Extract(context.Background(), ""); got != "" {
		t.Errorf("expected empty key, got %q", got)
	}
}

package lyrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"karolbroda.com/lyricline/internal/cache"
)

func newNeteaseServer(t *testing.T, handler http.HandlerFunc) *NeteaseClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewNeteaseClient(server.URL+"/api/song/media", NewHTTPClient(2*time.Second))
	if err != nil {
		t.Fatalf("NewNeteaseClient failed: %v", err)
	}
	return client
}

func TestNeteaseFetch(t *testing.T) {
	client := newNeteaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/song/media" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if id := r.URL.Query().Get("id"); id != "186016" {
			t.Errorf("unexpected id %q", id)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"songStatus":3,"lyricVersion":5,"lyric":"[00:01.00]hi\n[00:02.00]there","code":200}`))
	})

	document, err := client.Fetch(context.Background(), "186016")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if document != "[00:01.00]hi\n[00:02.00]there" {
		t.Errorf("unexpected document %q", document)
	}
}

func TestNeteaseFetchNoLyrics(t *testing.T) {
	client := newNeteaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"nolyric":true,"code":200}`))
	})

	document, err := client.Fetch(context.Background(), "1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if document != "" {
		t.Errorf("expected empty document, got %q", document)
	}
}

func TestNeteaseFetchFailures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		notFound bool
	}{
		{
			name: "status 404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			notFound: true,
		},
		{
			name: "status 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
		{
			name: "api error code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":404,"msg":"not found"}`))
			},
			notFound: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newNeteaseServer(t, tc.handler)
			_, err := client.Fetch(context.Background(), "1")
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, ErrNotFound) != tc.notFound {
				t.Errorf("errors.Is(err, ErrNotFound) = %v, want %v (err: %v)", !tc.notFound, tc.notFound, err)
			}
		})
	}
}

func TestNeteaseFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newNeteaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, "1")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("expected IsTimeout to recognise %v", err)
	}
}

func TestNeteaseFetchEmptyKey(t *testing.T) {
	client, err := NewNeteaseClient(DefaultNeteaseURL, nil)
	if err != nil {
		t.Fatalf("NewNeteaseClient failed: %v", err)
	}
	if _, err := client.Fetch(context.Background(), ""); err == nil {
		t.Error("expected an error for an empty key")
	}
}

func TestCachedFetcher(t *testing.T) {
	calls := 0
	inner := FetcherFunc(func(ctx context.Context, key string) (string, error) {
		calls++
		switch key {
		case "hit":
			return "[0:01]cached", nil
		case "empty":
			return "", nil
		default:
			return "", errors.New("offline")
		}
	})

	store := cache.NewMemory()
	fetcher := NewCachedFetcher(inner, store, true)

	for i := 0; i < 3; i++ {
		document, err := fetcher.Fetch(context.Background(), "hit")
		if err != nil || document != "[0:01]cached" {
			t.Fatalf("Fetch = (%q, %v)", document, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}

	if _, err := fetcher.Fetch(context.Background(), "empty"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if _, err := store.Get("empty"); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("empty documents should not be cached, got %v", err)
	}

	if _, err := fetcher.Fetch(context.Background(), "down"); err == nil {
		t.Error("expected upstream error to propagate")
	}
}

func TestCachedFetcherNoRead(t *testing.T) {
	calls := 0
	inner := FetcherFunc(func(ctx context.Context, key string) (string, error) {
		calls++
		return "[0:01]fresh", nil
	})

	fetcher := NewCachedFetcher(inner, cache.NewMemory(), false)
	for i := 0; i < 2; i++ {
		if _, err := fetcher.Fetch(context.Background(), "k"); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("expected cache reads to be bypassed, got %d upstream calls", calls)
	}
}

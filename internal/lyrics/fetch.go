package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultNeteaseURL is the netease endpoint that returns a song's timed lyric
// document by id.
const DefaultNeteaseURL = "http://music.163.com/api/song/media"

var ErrNotFound = errors.New("lyrics not found")

// Fetcher retrieves the raw lyric document for a canonical lookup key. an
// empty document with a nil error means the track has no lyrics.
type Fetcher interface {
	Fetch(ctx context.Context, key string) (string, error)
}

type FetcherFunc func(ctx context.Context, key string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, key string) (string, error) {
	return f(ctx, key)
}

type neteaseResponse struct {
	Lyric string `json:"lyric"`
	Code  int    `json:"code"`
}

type NeteaseClient struct {
	baseURL *url.URL
	client  *http.Client
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: 2 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func NewNeteaseClient(baseURL string, client *http.Client) (*NeteaseClient, error) {
	if baseURL == "" {
		return nil, errors.New("netease url is empty")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid netease url %q: %w", baseURL, err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &NeteaseClient{baseURL: parsedURL, client: client}, nil
}

func (c *NeteaseClient) Fetch(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("empty lookup key")
	}

	requestURL := *c.baseURL
	query := requestURL.Query()
	query.Set("id", key)
	requestURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build http request: %w", err)
	}
	req.Header.Set("User-Agent", "lyricline/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: status 404 for id %s", ErrNotFound, key)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("netease returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload neteaseResponse
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode netease json: %w", err)
	}

	// code is omitted by some mirrors
	if payload.Code != 0 && payload.Code != http.StatusOK {
		return "", fmt.Errorf("%w: netease code %d for id %s", ErrNotFound, payload.Code, key)
	}

	return payload.Lyric, nil
}

func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "i/o timeout")
}

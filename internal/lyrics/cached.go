package lyrics

import (
	"context"

	"karolbroda.com/lyricline/internal/cache"
)

// CachedFetcher serves documents from the disk cache and stores every
// non-empty document the inner fetcher returns.
type CachedFetcher struct {
	inner     Fetcher
	store     *cache.DiskCache
	readCache bool
}

func NewCachedFetcher(inner Fetcher, store *cache.DiskCache, readCache bool) *CachedFetcher {
	return &CachedFetcher{inner: inner, store: store, readCache: readCache}
}

func (f *CachedFetcher) Fetch(ctx context.Context, key string) (string, error) {
	if f.readCache && f.store != nil {
		entry, err := f.store.Get(key)
		if err == nil && entry != nil {
			return entry.Document, nil
		}
	}

	document, err := f.inner.Fetch(ctx, key)
	if err != nil {
		return "", err
	}

	if document != "" && f.store != nil {
		_ = f.store.Set(key, document)
	}

	return document, nil
}

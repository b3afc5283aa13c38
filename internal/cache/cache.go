package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	cacheVersion    = 1
	defaultTTL      = 30 * 24 * time.Hour
	cacheDirName    = "lyricline"
	lyricsCacheName = "lyrics"
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrCacheExpired = errors.New("cache expired")
	ErrCacheCorrupt = errors.New("cache corrupt")
)

// Entry is one raw lyric document stored under its lookup key.
type Entry struct {
	Version   uint8
	Key       string
	Document  string
	CreatedAt int64
	ExpiresAt int64
}

type DiskCache struct {
	basePath string
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
	memCache map[string]*Entry
}

var (
	defaultCache     *DiskCache
	defaultCacheOnce sync.Once
)

// Default returns the process-wide cache under the user cache directory, or a
// memory-only cache when that directory cannot be created.
func Default() *DiskCache {
	defaultCacheOnce.Do(func() {
		dir, err := Directory()
		if err == nil {
			defaultCache, err = Open(dir)
		}
		if err != nil {
			defaultCache = NewMemory()
		}
	})
	return defaultCache
}

func Open(dir string) (*DiskCache, error) {
	lyricsPath := filepath.Join(dir, lyricsCacheName)
	err := os.MkdirAll(lyricsPath, 0755)
	if err != nil {
		return nil, err
	}

	return &DiskCache{
		basePath: lyricsPath,
		ttl:      defaultTTL,
		now:      time.Now,
		memCache: make(map[string]*Entry),
	}, nil
}

func NewMemory() *DiskCache {
	return &DiskCache{
		ttl:      defaultTTL,
		now:      time.Now,
		memCache: make(map[string]*Entry),
	}
}

// Directory is the cache root: $XDG_CACHE_HOME/lyricline or ~/.cache/lyricline.
func Directory() (string, error) {
	xdgCache := os.Getenv("XDG_CACHE_HOME")
	if xdgCache != "" {
		return filepath.Join(xdgCache, cacheDirName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".cache", cacheDirName), nil
}

func (c *DiskCache) Path() string {
	return c.basePath
}

func generateKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:12])
}

func (c *DiskCache) getFilePath(hashed string) string {
	if c.basePath == "" {
		return ""
	}
	return filepath.Join(c.basePath, hashed+".bin")
}

func (c *DiskCache) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, ErrCacheMiss
	}

	hashed := generateKey(key)
	now := c.now().Unix()

	c.mu.RLock()
	entry, exists := c.memCache[hashed]
	c.mu.RUnlock()

	if exists {
		if entry.ExpiresAt > now {
			return entry, nil
		}
		c.mu.Lock()
		delete(c.memCache, hashed)
		c.mu.Unlock()
	}

	if c.basePath == "" {
		if exists {
			return nil, ErrCacheExpired
		}
		return nil, ErrCacheMiss
	}

	filePath := c.getFilePath(hashed)
	entry, err := c.readFromDisk(filePath)
	if err != nil {
		return nil, err
	}

	if entry.ExpiresAt <= now {
		_ = os.Remove(filePath)
		return nil, ErrCacheExpired
	}

	c.mu.Lock()
	c.memCache[hashed] = entry
	c.mu.Unlock()

	return entry, nil
}

func (c *DiskCache) Set(key string, document string) error {
	if key == "" {
		return errors.New("invalid cache key")
	}

	hashed := generateKey(key)
	now := c.now()
	entry := &Entry{
		Version:   cacheVersion,
		Key:       key,
		Document:  document,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(c.ttl).Unix(),
	}

	c.mu.Lock()
	c.memCache[hashed] = entry
	c.mu.Unlock()

	if c.basePath == "" {
		return nil
	}

	return c.writeToDisk(c.getFilePath(hashed), entry)
}

func (c *DiskCache) readFromDisk(filePath string) (*Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	defer file.Close()

	var entry Entry
	err = gob.NewDecoder(file).Decode(&entry)
	if err != nil {
		return nil, ErrCacheCorrupt
	}

	// version mismatch means stale format
	if entry.Version != cacheVersion {
		_ = os.Remove(filePath)
		return nil, ErrCacheCorrupt
	}

	return &entry, nil
}

func (c *DiskCache) writeToDisk(filePath string, entry *Entry) error {
	// write to temp file first, then rename
	tmpPath := filePath + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(file).Encode(entry)
	if err == nil {
		err = file.Sync()
	}
	if err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	err = file.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, filePath)
}

func (c *DiskCache) Clear() error {
	c.mu.Lock()
	c.memCache = make(map[string]*Entry)
	c.mu.Unlock()

	if c.basePath == "" {
		return nil
	}

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".bin") {
			_ = os.Remove(filepath.Join(c.basePath, entry.Name()))
		}
	}

	return nil
}

// Prune removes expired and unreadable files and reports how many went.
func (c *DiskCache) Prune() (int, error) {
	if c.basePath == "" {
		return 0, nil
	}

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		return 0, err
	}

	pruned := 0
	now := c.now().Unix()

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), ".bin") {
			continue
		}

		filePath := filepath.Join(c.basePath, dirEntry.Name())
		entry, err := c.readFromDisk(filePath)
		if err != nil || entry.ExpiresAt <= now {
			_ = os.Remove(filePath)
			pruned++
		}
	}

	return pruned, nil
}

func (c *DiskCache) Stats() (count int, sizeBytes int64, err error) {
	if c.basePath == "" {
		c.mu.RLock()
		defer c.mu.RUnlock()
		for _, entry := range c.memCache {
			count++
			sizeBytes += int64(len(entry.Document))
		}
		return count, sizeBytes, nil
	}

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		return 0, 0, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".bin") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		count++
		sizeBytes += info.Size()
	}

	return count, sizeBytes, nil
}

func (c *DiskCache) ListAll() ([]*Entry, error) {
	if c.basePath == "" {
		c.mu.RLock()
		defer c.mu.RUnlock()
		result := make([]*Entry, 0, len(c.memCache))
		for _, entry := range c.memCache {
			result = append(result, entry)
		}
		return result, nil
	}

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var result []*Entry

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), ".bin") {
			continue
		}

		entry, err := c.readFromDisk(filepath.Join(c.basePath, dirEntry.Name()))
		if err != nil {
			continue
		}

		result = append(result, entry)
	}

	return result, nil
}

func (c *DiskCache) Delete(key string) error {
	if key == "" {
		return errors.New("invalid cache key")
	}

	hashed := generateKey(key)

	c.mu.Lock()
	delete(c.memCache, hashed)
	c.mu.Unlock()

	if c.basePath == "" {
		return nil
	}

	err := os.Remove(c.getFilePath(hashed))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

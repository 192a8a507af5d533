// Package cache stores rewritten files between runs. Entries are keyed by
// file path and rewrite options, and validated against the content hash of
// the source they were produced from.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

const (
	entryExt   = ".json"
	tempPrefix = "entry-"
)

// Cache is a directory of rewrite results, one JSON file per entry, sharded
// by the first two characters of the key.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is the on-disk form of a cached result.
type Entry struct {
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

func (e *Entry) expired(ttl time.Duration) bool {
	return ttl > 0 && time.Since(e.Timestamp) > ttl
}

// New opens the cache at dir, creating it. A ttlHours of zero keeps entries
// until their source changes. A disabled cache never stores or hits.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{dir: dir}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

func (c *Cache) Enabled() bool { return c.enabled }
func (c *Cache) Dir() string   { return c.dir }

// HashBytes returns the hex BLAKE3 digest of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key derives the entry key for a file rewritten under the options
// identified by fingerprint.
func Key(path, fingerprint string) string {
	d := xxhash.New()
	_, _ = d.WriteString(path)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(fingerprint)
	return fmt.Sprintf("%016x", d.Sum64())
}

func (c *Cache) keyPath(key string) string {
	shard := key
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(c.dir, shard, key+entryExt)
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Get returns the data stored under key if it was produced from a source
// with the given hash and has not expired. Expired entries are removed.
func (c *Cache) Get(key, hash string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}
	path := c.keyPath(key)
	e, err := readEntry(path)
	if err != nil || e.Hash != hash {
		return nil, false
	}
	if e.expired(c.ttl) {
		_ = os.Remove(path)
		return nil, false
	}
	return e.Data, true
}

// Set stores data under key. The entry is written to a temp file and
// renamed so concurrent readers never see a partial entry.
func (c *Cache) Set(key, hash string, data []byte) error {
	if !c.enabled {
		return nil
	}
	encoded, err := json.Marshal(Entry{Hash: hash, Timestamp: time.Now(), Data: data})
	if err != nil {
		return err
	}

	path := c.keyPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPrefix+"*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(encoded)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp.Name())
		return werr
	}
	return os.Rename(tmp.Name(), path)
}

// Invalidate removes one entry. A missing entry is not an error.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	if err := os.Remove(c.keyPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes the cache directory and everything in it.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// walkEntries calls fn for every entry file. A missing cache directory has
// no entries.
func (c *Cache) walkEntries(fn func(path string, info fs.FileInfo) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != entryExt || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Prune removes expired and unreadable entries and returns how many it
// removed.
func (c *Cache) Prune() (int, error) {
	if !c.enabled {
		return 0, nil
	}
	removed := 0
	err := c.walkEntries(func(path string, _ fs.FileInfo) error {
		e, err := readEntry(path)
		if err == nil && !e.expired(c.ttl) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// Stats summarizes the entries on disk.
type Stats struct {
	Entries   int           `json:"entries" toon:"entries"`
	TotalSize int64         `json:"total_size" toon:"total_size"`
	OldestAge time.Duration `json:"oldest_age" toon:"oldest_age"`
	NewestAge time.Duration `json:"newest_age" toon:"newest_age"`
}

// GetStats counts entries and their total size. Ages come from file
// modification times.
func (c *Cache) GetStats() (*Stats, error) {
	stats := &Stats{}
	if !c.enabled {
		return stats, nil
	}

	var oldest, newest time.Time
	err := c.walkEntries(func(_ string, info fs.FileInfo) error {
		stats.Entries++
		stats.TotalSize += info.Size()
		mod := info.ModTime()
		if oldest.IsZero() || mod.Before(oldest) {
			oldest = mod
		}
		if mod.After(newest) {
			newest = mod
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
		stats.NewestAge = time.Since(newest)
	}
	return stats, nil
}

package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newCache(t *testing.T, ttlHours int) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache"), ttlHours, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

// writeEntry stores a raw entry file under key.
func writeEntry(t *testing.T, c *Cache, key string, data []byte) {
	t.Helper()
	path := c.keyPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func expiredEntry(t *testing.T, age time.Duration) []byte {
	t.Helper()
	data, err := json.Marshal(Entry{Hash: "h", Timestamp: time.Now().Add(-age), Data: []byte("old")})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestNew(t *testing.T) {
	c := newCache(t, 24)
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}

	// Test disabled cache
	c, err := New("", 0, false)
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache", "dir")

	if _, err := New(cacheDir, 24, true); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("New() should create cache directory")
	}
}

func TestSetAndGet(t *testing.T) {
	c := newCache(t, 24)

	key := Key("src/App.jsx", "react|useState")
	hash := HashBytes([]byte("let count = 0;"))
	data := []byte(`{"code":"const [count, setcount] = useState(0);"}`)

	if err := c.Set(key, hash, data); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok := c.Get(key, hash)
	if !ok {
		t.Fatal("Get() should find the entry")
	}
	if string(got) != string(data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}

	// A different content hash is a miss.
	if _, ok := c.Get(key, HashBytes([]byte("let count = 1;"))); ok {
		t.Error("Get() should miss when the source hash differs")
	}

	// Entries are sharded by key prefix and no temp files are left behind.
	if _, err := os.Stat(filepath.Join(c.Dir(), key[:2], key+".json")); err != nil {
		t.Errorf("entry not at its shard path: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(c.Dir(), key[:2], "entry-*"))
	if len(matches) != 0 {
		t.Errorf("temporary files left: %v", matches)
	}
}

func TestGetNonExistent(t *testing.T) {
	c := newCache(t, 24)
	if _, ok := c.Get("missing", "hash"); ok {
		t.Error("Get() should miss for a missing key")
	}
}

func TestGetCorrupt(t *testing.T) {
	c := newCache(t, 24)
	writeEntry(t, c, "bad", []byte("{not json"))
	if _, ok := c.Get("bad", ""); ok {
		t.Error("Get() should miss for a corrupt entry")
	}
}

func TestInvalidate(t *testing.T) {
	c := newCache(t, 24)
	if err := c.Set("k", "h", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := c.Invalidate("k"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("entry should be gone after Invalidate()")
	}
	if err := c.Invalidate("k"); err != nil {
		t.Errorf("Invalidate() of a missing key should succeed, got %v", err)
	}
}

func TestClear(t *testing.T) {
	c := newCache(t, 24)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(k, "h", []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(c.Dir()); !os.IsNotExist(err) {
		t.Error("Clear() should remove the cache directory")
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() after Clear() error: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries = %d, want 0", stats.Entries)
	}
}

func TestDisabledCache(t *testing.T) {
	c, _ := New("", 0, false)

	if err := c.Set("k", "h", []byte("v")); err != nil {
		t.Errorf("Set() on disabled cache error: %v", err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("disabled cache should never hit")
	}
	if err := c.Invalidate("k"); err != nil {
		t.Errorf("Invalidate() on disabled cache error: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() on disabled cache error: %v", err)
	}
	stats, err := c.GetStats()
	if err != nil || stats.Entries != 0 {
		t.Errorf("GetStats() = %+v, %v", stats, err)
	}
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("hello"))
	b := HashBytes([]byte("hello"))
	c := HashBytes([]byte("world"))

	if a != b {
		t.Error("same input should produce the same hash")
	}
	if a == c {
		t.Error("different input should produce different hashes")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestKey(t *testing.T) {
	k := Key("src/App.jsx", "fp1")
	if len(k) != 16 {
		t.Errorf("Key() length = %d, want 16", len(k))
	}
	if k != Key("src/App.jsx", "fp1") {
		t.Error("Key() should be deterministic")
	}
	if k == Key("src/App.jsx", "fp2") {
		t.Error("Key() should depend on the fingerprint")
	}
	if k == Key("src/Other.jsx", "fp1") {
		t.Error("Key() should depend on the path")
	}
	// The separator keeps path and fingerprint from running together.
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Key() should separate path from fingerprint")
	}
}

func TestGetStats(t *testing.T) {
	c := newCache(t, 24)
	for _, k := range []string{"a", "b"} {
		if err := c.Set(k, "h", []byte("data")); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if stats.TotalSize <= 0 {
		t.Error("TotalSize should be positive")
	}
}

func TestTTLExpiration(t *testing.T) {
	c := newCache(t, 1)

	writeEntry(t, c, "old", expiredEntry(t, 2*time.Hour))

	if _, ok := c.Get("old", "h"); ok {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.keyPath("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := newCache(t, 0)

	writeEntry(t, c, "old", expiredEntry(t, 1000*time.Hour))

	if got, ok := c.Get("old", "h"); !ok || string(got) != "old" {
		t.Errorf("Get() = %q, %v; want hit", got, ok)
	}
}

func TestPrune(t *testing.T) {
	c := newCache(t, 1)
	if err := c.Set("fresh", "h", []byte("new")); err != nil {
		t.Fatal(err)
	}
	writeEntry(t, c, "stale", expiredEntry(t, 2*time.Hour))
	writeEntry(t, c, "broken", []byte("{"))

	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed %d, want 2", removed)
	}
	if _, ok := c.Get("fresh", "h"); !ok {
		t.Error("fresh entry should survive Prune()")
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1", stats.Entries)
	}
}

func TestPruneZeroTTLKeepsOldEntries(t *testing.T) {
	c := newCache(t, 0)
	writeEntry(t, c, "old", expiredEntry(t, 1000*time.Hour))

	removed, err := c.Prune()
	if err != nil || removed != 0 {
		t.Errorf("Prune() = %d, %v; want 0, nil", removed, err)
	}
}

package watch

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/panbanda/reactify/pkg/config"
)

func newTestWatcher(t *testing.T, dir string, cfg *config.Config, debounce time.Duration) *Watcher {
	t.Helper()
	w, err := NewWatcher(dir, cfg, debounce, WithOutput(io.Discard))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Stop() })
	return w
}

func TestNewWatcher(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()

	tests := []struct {
		name     string
		debounce time.Duration
		want     time.Duration
	}{
		{"default debounce", 0, DefaultDebounce},
		{"custom debounce", time.Second, time.Second},
		{"negative debounce defaults", -time.Second, DefaultDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatcher(t, tmpDir, cfg, tt.debounce)
			if w.fsWatcher == nil {
				t.Error("fsWatcher should not be nil")
			}
			if w.config != cfg {
				t.Error("config should match")
			}
			if w.path != tmpDir {
				t.Errorf("path = %v, want %v", w.path, tmpDir)
			}
			if w.pending == nil {
				t.Error("pending map should be initialized")
			}
			if w.debounce != tt.want {
				t.Errorf("debounce = %v, want %v", w.debounce, tt.want)
			}
		})
	}
}

func TestWatcher_handleEvent(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), time.Second)

	tests := []struct {
		name        string
		event       fsnotify.Event
		wantPending bool
	}{
		{"write event for jsx file", fsnotify.Event{Name: filepath.Join(tmpDir, "App.jsx"), Op: fsnotify.Write}, true},
		{"create event for tsx file", fsnotify.Event{Name: filepath.Join(tmpDir, "New.tsx"), Op: fsnotify.Create}, true},
		{"remove event ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "Gone.jsx"), Op: fsnotify.Remove}, false},
		{"chmod event ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "Mode.jsx"), Op: fsnotify.Chmod}, false},
		{"unsupported file type ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "readme.txt"), Op: fsnotify.Write}, false},
		{"go file ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "main.go"), Op: fsnotify.Write}, false},
		{"test file excluded", fsnotify.Event{Name: filepath.Join(tmpDir, "App.test.jsx"), Op: fsnotify.Write}, false},
		{"node_modules excluded", fsnotify.Event{Name: filepath.Join(tmpDir, "node_modules", "x", "index.js"), Op: fsnotify.Write}, false},
		{"declaration file excluded", fsnotify.Event{Name: filepath.Join(tmpDir, "types.d.ts"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.mu.Lock()
			w.pending = make(map[string]time.Time)
			w.mu.Unlock()

			w.handleEvent(tt.event)

			w.mu.Lock()
			_, found := w.pending[tt.event.Name]
			w.mu.Unlock()

			if found != tt.wantPending {
				t.Errorf("pending[%v] = %v, want %v", tt.event.Name, found, tt.wantPending)
			}
		})
	}
}

func TestWatcher_handleEvent_Include(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Include = []string{"components/**"}
	w := newTestWatcher(t, tmpDir, cfg, time.Second)

	w.handleEvent(fsnotify.Event{Name: filepath.Join(tmpDir, "components", "App.jsx"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(tmpDir, "scripts", "build.js"), Op: fsnotify.Write})

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) != 1 {
		t.Fatalf("pending = %v, want only the components file", w.pending)
	}
	if _, ok := w.pending[filepath.Join(tmpDir, "components", "App.jsx")]; !ok {
		t.Error("components/App.jsx should be pending")
	}
}

func TestWatcher_handleEvent_NewDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), time.Second)

	dir := filepath.Join(tmpDir, "widgets")
	if err := os.MkdirAll(filepath.Join(dir, "inner"), 0755); err != nil {
		t.Fatal(err)
	}
	w.handleEvent(fsnotify.Event{Name: dir, Op: fsnotify.Create})

	watched := map[string]bool{}
	for _, p := range w.WatchedFiles() {
		watched[p] = true
	}
	if !watched[dir] || !watched[filepath.Join(dir, "inner")] {
		t.Errorf("new directory tree should be watched, got %v", w.WatchedFiles())
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) != 0 {
		t.Error("directories should never be pending")
	}
}

func TestWatcher_processPending(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), 10*time.Millisecond)

	done := make(chan string, 1)
	w.SetCallback(func(path string) { done <- path })

	testFile := filepath.Join(tmpDir, "App.jsx")
	w.mu.Lock()
	w.pending[testFile] = time.Now().Add(-time.Second)
	w.mu.Unlock()

	w.processPending()

	select {
	case got := <-done:
		if got != testFile {
			t.Errorf("callback path = %v, want %v", got, testFile)
		}
	case <-time.After(time.Second):
		t.Fatal("callback was not called")
	}

	w.mu.Lock()
	_, stillPending := w.pending[testFile]
	w.mu.Unlock()
	if stillPending {
		t.Error("file should be removed from pending after processing")
	}
}

func TestWatcher_processPending_NotReady(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), time.Hour)

	var called atomic.Bool
	w.SetCallback(func(string) { called.Store(true) })

	testFile := filepath.Join(tmpDir, "App.jsx")
	w.mu.Lock()
	w.pending[testFile] = time.Now()
	w.mu.Unlock()

	w.processPending()
	time.Sleep(50 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not run before the debounce period")
	}
	w.mu.Lock()
	_, stillPending := w.pending[testFile]
	w.mu.Unlock()
	if !stillPending {
		t.Error("file should remain pending")
	}
}

func TestWatcher_processPending_NoCallback(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), 10*time.Millisecond)

	testFile := filepath.Join(tmpDir, "App.jsx")
	w.mu.Lock()
	w.pending[testFile] = time.Now().Add(-time.Second)
	w.mu.Unlock()

	w.processPending()

	w.mu.Lock()
	_, stillPending := w.pending[testFile]
	w.mu.Unlock()
	if stillPending {
		t.Error("file should be removed from pending even without callback")
	}
}

func TestWatcher_runCallbackOutput(t *testing.T) {
	tmpDir := t.TempDir()
	var buf bytes.Buffer
	w, err := NewWatcher(tmpDir, config.DefaultConfig(), time.Second, WithOutput(&buf))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SetCallback(func(string) {})
	w.runCallback(filepath.Join(tmpDir, "src", "App.jsx"))

	if !bytes.Contains(buf.Bytes(), []byte("File changed: "+filepath.Join("src", "App.jsx"))) {
		t.Errorf("output = %q, want the relative path", buf.String())
	}
}

func TestWatcher_Start_Context(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Error("Start() did not return after context cancellation")
	}
}

func TestWatcher_Start_FileChange(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), 50*time.Millisecond)

	var callbackCount int32
	var lastPath string
	var mu sync.Mutex
	w.SetCallback(func(path string) {
		atomic.AddInt32(&callbackCount, 1)
		mu.Lock()
		lastPath = path
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(tmpDir, "App.jsx")
	if err := os.WriteFile(testFile, []byte("function App() { let n = 0; }\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&callbackCount) == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}

	if atomic.LoadInt32(&callbackCount) == 0 {
		t.Fatal("callback should be called when file is created")
	}
	mu.Lock()
	gotPath := lastPath
	mu.Unlock()
	if gotPath != testFile {
		t.Errorf("callback path = %v, want %v", gotPath, testFile)
	}
}

func TestWatcher_Start_ExcludedDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "node_modules", "pkg"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "src"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	var sawSrc bool
	for _, path := range w.WatchedFiles() {
		if filepath.Base(path) == "node_modules" || filepath.Base(path) == "pkg" {
			t.Errorf("%s should not be watched", path)
		}
		if filepath.Base(path) == "src" {
			sawSrc = true
		}
	}
	if !sawSrc {
		t.Error("src should be watched")
	}
}

func TestWatcher_Debounce(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), 200*time.Millisecond)

	var callbackCount int32
	w.SetCallback(func(path string) {
		atomic.AddInt32(&callbackCount, 1)
	})

	testFile := filepath.Join(tmpDir, "App.jsx")
	for range 5 {
		w.handleEvent(fsnotify.Event{Name: testFile, Op: fsnotify.Write})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)
	w.processPending()
	time.Sleep(50 * time.Millisecond)

	if count := atomic.LoadInt32(&callbackCount); count != 1 {
		t.Errorf("callback count = %d, want 1 (debounced)", count)
	}
}

func TestWatcher_CallbacksAreSerialized(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), 10*time.Millisecond)

	var running, maxRunning int32
	var wg sync.WaitGroup
	wg.Add(3)
	w.SetCallback(func(string) {
		defer wg.Done()
		n := atomic.AddInt32(&running, 1)
		for {
			m := atomic.LoadInt32(&maxRunning)
			if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)
	})

	w.mu.Lock()
	for _, name := range []string{"A.jsx", "B.jsx", "C.jsx"} {
		w.pending[filepath.Join(tmpDir, name)] = time.Now().Add(-time.Second)
	}
	w.mu.Unlock()
	w.processPending()
	wg.Wait()

	if maxRunning != 1 {
		t.Errorf("max concurrent callbacks = %d, want 1", maxRunning)
	}
}

func TestWatcher_ConcurrentHandleEvent(t *testing.T) {
	tmpDir := t.TempDir()
	w := newTestWatcher(t, tmpDir, config.DefaultConfig(), time.Hour)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				w.handleEvent(fsnotify.Event{Name: filepath.Join(tmpDir, "App.jsx"), Op: fsnotify.Write})
			}
		}()
	}
	wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) != 1 {
		t.Errorf("pending = %d entries, want 1", len(w.pending))
	}
}

package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

// recorder collects every path reported by the watcher.
type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) record(changed []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, changed)
}

func (r *recorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if slices.Contains(b, path) {
			return true
		}
	}
	return false
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T, dir string) *recorder {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Watch(ctx, dir, 50*time.Millisecond, logger, rec.record); err != nil {
			t.Errorf("watch: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
	return rec
}

func TestWatcher_NewFileReported(t *testing.T) {
	dir := t.TempDir()
	rec := startWatcher(t, dir)

	_ = os.WriteFile(filepath.Join(dir, "new.md"), []byte("# New"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.seen("new.md")
	}, "new.md not reported")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	rec := startWatcher(t, dir)

	_ = os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o644)
	time.Sleep(300 * time.Millisecond)
	if n := rec.count(); n != 0 {
		t.Fatalf("expected no batches, got %d", n)
	}
}

func TestWatcher_BurstIsOneBatch(t *testing.T) {
	dir := t.TempDir()
	rec := startWatcher(t, dir)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(dir, "busy.md"), []byte{byte('a' + i)}, 0o644)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.seen("busy.md")
	}, "busy.md not reported")
	time.Sleep(200 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Fatalf("expected a single batch, got %d", n)
	}
}

func TestWatcher_NewDirWatched(t *testing.T) {
	dir := t.TempDir()
	rec := startWatcher(t, dir)

	sub := filepath.Join(dir, "subdir")
	_ = os.MkdirAll(sub, 0o755)
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(sub, "deep.md"), []byte("# Deep"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.seen("subdir/deep.md")
	}, "file in new subdir not reported")
}

func TestWatcher_RemoveReported(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "del.md"), []byte("# Delete Me"), 0o644)
	rec := startWatcher(t, dir)

	_ = os.Remove(filepath.Join(dir, "del.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.seen("del.md")
	}, "removal not reported")
}

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// --- Mock implementations ---

type mockRebuilder struct {
	mu    sync.Mutex
	calls int
	done  chan struct{}
}

func newMockRebuilder() *mockRebuilder {
	return &mockRebuilder{done: make(chan struct{}, 16)}
}

func (m *mockRebuilder) Rebuild(_ context.Context) (*domain.BuildReport, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	m.done <- struct{}{}
	return &domain.BuildReport{Outcome: domain.BuildOutcomeBuilt}, nil
}

func (m *mockRebuilder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Test helpers ---

func startWatcher(t *testing.T, dir string, r Rebuilder, cfg Config) context.CancelFunc {
	t.Helper()
	w, err := New([]string{dir}, r, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return cancel
}

func waitForRebuild(t *testing.T, r *mockRebuilder) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for rebuild")
	}
}

func TestNew_Validation(t *testing.T) {
	t.Run("requires rebuilder", func(t *testing.T) {
		_, err := New([]string{t.TempDir()}, nil, Config{})
		require.Error(t, err)
	})

	t.Run("requires an existing directory", func(t *testing.T) {
		_, err := New([]string{"/non/existent/path"}, newMockRebuilder(), Config{})
		require.Error(t, err)
	})

	t.Run("skips missing paths", func(t *testing.T) {
		dir := t.TempDir()
		w, err := New([]string{filepath.Join(dir, "missing"), dir}, newMockRebuilder(), Config{})
		require.NoError(t, err)
		assert.Equal(t, DefaultDebounce, w.cfg.Debounce)
		require.NoError(t, w.Close())
		require.NoError(t, w.Close())
	})
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	r := newMockRebuilder()

	var mu sync.Mutex
	var reports []*domain.BuildReport
	startWatcher(t, dir, r, Config{
		Debounce: 50 * time.Millisecond,
		OnRebuild: func(report *domain.BuildReport, err error) {
			mu.Lock()
			defer mu.Unlock()
			assert.NoError(t, err)
			reports = append(reports, report)
		},
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"providers":[]}`), 0o644))
	waitForRebuild(t, r)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reports, 1)
	assert.Equal(t, domain.BuildOutcomeBuilt, reports[0].Outcome)
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	r := newMockRebuilder()
	startWatcher(t, dir, r, Config{Debounce: 200 * time.Millisecond})

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "Greenline.txt")
		require.NoError(t, os.WriteFile(name, []byte("AC coaches"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}
	waitForRebuild(t, r)

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, r.callCount())
}

func TestWatcher_IgnoresDatabaseFiles(t *testing.T) {
	dir := t.TempDir()
	r := newMockRebuilder()
	startWatcher(t, dir, r, Config{Debounce: 20 * time.Millisecond})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookings.db"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swap"), []byte("x"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, r.callCount())
}

func TestWatcher_Relevant(t *testing.T) {
	w := &Watcher{cfg: Config{Ignore: ignoreDefault}}

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"create", "/data/provider_texts/Hanif.txt", fsnotify.Create, true},
		{"write", "/data/data.json", fsnotify.Write, true},
		{"remove", "/data/data.json", fsnotify.Remove, true},
		{"rename", "/data/data.json", fsnotify.Rename, true},
		{"chmod only", "/data/data.json", fsnotify.Chmod, false},
		{"write with chmod", "/data/data.json", fsnotify.Write | fsnotify.Chmod, true},
		{"hidden file", "/data/.data.json.swp", fsnotify.Write, false},
		{"sqlite wal", "/data/bookings.db-wal", fsnotify.Write, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(fsnotify.Event{Name: tt.path, Op: tt.op}))
		})
	}
}

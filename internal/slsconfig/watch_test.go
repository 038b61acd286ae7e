package slsconfig

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdded(t *testing.T) {
	assert.Equal(t, []int64{730, 440}, Added([]int64{620}, []int64{620, 730, 440, 730}))
	assert.Empty(t, Added([]int64{620, 730}, []int64{730}))
	assert.Equal(t, []int64{620}, Added(nil, []int64{620}))
}

func TestWatcher_ReportsAddedApps(t *testing.T) {
	store, _ := newTestStore(t, "# managed by hand\nAdditionalApps:\n  - 620\n")
	w := NewWatcher(store, WithDebounce(50*time.Millisecond), WithLogger(slog.New(slog.DiscardHandler)))
	w.ready = make(chan struct{})

	var (
		mu  sync.Mutex
		got [][]int64
	)
	fn := func(_ context.Context, added []int64) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, added)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, fn) }()

	select {
	case <-w.ready:
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}

	updated := "# managed by hand\nAdditionalApps:\n  - 620\n  - 730\n  - 440\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(updated), 0o600))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]int64{{730, 440}}, got)
}

func TestWatcher_InvalidEditKeepsBaseline(t *testing.T) {
	store, _ := newTestStore(t, "AdditionalApps:\n  - 620\n")
	w := NewWatcher(store)
	w.known = []int64{620}

	require.NoError(t, os.WriteFile(store.Path(), []byte("AdditionalApps: [730\n"), 0o600))
	_, err := w.poll()
	require.Error(t, err)
	assert.Equal(t, []int64{620}, w.known)

	require.NoError(t, os.WriteFile(store.Path(), []byte("AdditionalApps:\n  - 620\n  - 730\n"), 0o600))
	added, err := w.poll()
	require.NoError(t, err)
	assert.Equal(t, []int64{730}, added)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	store := NewStore("/nonexistent/slsah-test/config.yaml")
	err := NewWatcher(store).Run(context.Background(), nil)
	assert.Error(t, err)
}

package watcher_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediarr/mediarr/internal/config"
	"github.com/mediarr/mediarr/internal/watcher"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher(t *testing.T, root string, debounceMS int) (<-chan config.DatasourceConfig, context.CancelFunc) {
	t.Helper()
	triggers := make(chan config.DatasourceConfig, 8)
	w, err := watcher.New(
		[]config.DatasourceConfig{{Name: "movies", Root: root}},
		config.WatcherConfig{Enabled: true, DebounceMS: debounceMS},
		func(ds config.DatasourceConfig) { triggers <- ds },
		testLogger(),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give the watch registration a moment before mutating the tree.
	time.Sleep(100 * time.Millisecond)
	return triggers, cancel
}

func TestWatcher_TriggersOnNewVideo(t *testing.T) {
	root := t.TempDir()
	triggers, _ := startWatcher(t, root, 50)

	require.NoError(t, os.WriteFile(filepath.Join(root, "Movie.mkv"), []byte("v"), 0o644))

	select {
	case ds := <-triggers:
		assert.Equal(t, root, ds.Root)
	case <-time.After(3 * time.Second):
		t.Fatal("no trigger after video creation")
	}
}

func TestWatcher_DebounceCoalescesBursts(t *testing.T) {
	root := t.TempDir()
	triggers, _ := startWatcher(t, root, 300)

	for i := 0; i < 5; i++ {
		name := filepath.Join(root, "Part"+string(rune('A'+i))+".mkv")
		require.NoError(t, os.WriteFile(name, []byte("v"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-triggers:
	case <-time.After(3 * time.Second):
		t.Fatal("no trigger after burst")
	}
	select {
	case <-triggers:
		t.Fatal("burst produced more than one trigger")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	root := t.TempDir()
	triggers, _ := startWatcher(t, root, 50)

	require.NoError(t, os.WriteFile(filepath.Join(root, "download.part"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-triggers:
		t.Fatal("irrelevant files must not trigger a rescan")
	case <-time.After(500 * time.Millisecond):
	}
}

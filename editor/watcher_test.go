package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotWatcher_ReportsContentChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o644))

	w, err := NewSnapshotWatcher([]string{path}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		require.NoError(t, w.Close())
		<-done
	}()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - name: a\n    kind: type\n"), 0o644))

	select {
	case got := <-w.Changes():
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestSnapshotWatcher_MissingDirectory(t *testing.T) {
	_, err := NewSnapshotWatcher([]string{filepath.Join(t.TempDir(), "missing", "rules.yaml")}, nil)
	assert.Error(t, err)
}

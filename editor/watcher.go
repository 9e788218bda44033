package editor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// eventChannelBuffer is the size of the watcher's change channel.
const eventChannelBuffer = 64

// SnapshotWatcher reports content changes of snapshot files. Directories
// are watched rather than files so that editors replacing a file by rename
// are still seen.
type SnapshotWatcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	files   map[string]bool

	hashMu sync.Mutex
	hashes map[string]string

	changes chan string
}

// NewSnapshotWatcher creates a watcher for the given files. The initial
// content of each file is hashed so that only later edits are reported.
func NewSnapshotWatcher(paths []string, logger *slog.Logger) (*SnapshotWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &SnapshotWatcher{
		watcher: fsw,
		logger:  logger,
		files:   make(map[string]bool),
		hashes:  make(map[string]string),
		changes: make(chan string, eventChannelBuffer),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
		if data, err := os.ReadFile(abs); err == nil {
			w.hashes[abs] = contentHash(data)
		}
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug("Watching directory", "path", dir)
	}
	return w, nil
}

// Changes returns the channel of changed file paths. It is closed when the
// watcher stops.
func (w *SnapshotWatcher) Changes() <-chan string {
	return w.changes
}

// Run processes filesystem events until ctx is done or the watcher is closed.
func (w *SnapshotWatcher) Run(ctx context.Context) {
	defer close(w.changes)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *SnapshotWatcher) Close() error {
	return w.watcher.Close()
}

func (w *SnapshotWatcher) handleFSEvent(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !w.files[path] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Debug("Snapshot not readable", "path", path, "error", err)
		return
	}
	hash := contentHash(data)

	w.hashMu.Lock()
	unchanged := w.hashes[path] == hash
	w.hashes[path] = hash
	w.hashMu.Unlock()
	if unchanged {
		return
	}

	w.logger.Debug("Snapshot change detected", "path", path, "op", event.Op.String())
	select {
	case w.changes <- path:
	case <-ctx.Done():
	}
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

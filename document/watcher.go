package document

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounce is the quiet period before pending changes are reported.
	DefaultDebounce = 500 * time.Millisecond

	changeChannelBuffer = 100
)

// Change reports that a watched file was written or removed.
type Change struct {
	Path    string
	Removed bool
}

// Watcher reports content changes of a fixed set of files. It watches the
// parent directories, so editors that save by rename are handled, and it
// drops events whose content hash did not change.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.Mutex
	hashes map[string]string

	changes chan Change
	dropped atomic.Int64
}

// NewWatcher creates a watcher for files, which must be absolute paths.
// The current content of each file is hashed so that the first report is a
// real change.
func NewWatcher(files []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string, len(files)),
		changes:  make(chan Change, changeChannelBuffer),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		w.files[f] = true
		dirs[filepath.Dir(f)] = true
		if content, err := os.ReadFile(f); err == nil {
			w.hashes[f] = ContentHash(content)
		}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
		logger.Debug("Watching directory", "path", dir)
	}
	return w, nil
}

// Changes returns the channel of file changes. It is closed when the
// watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Run processes file system events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.files[event.Name] {
				continue
			}
			w.pendingMu.Lock()
			w.pending[event.Name] |= event.Op
			w.pendingMu.Unlock()
			w.logger.Debug("Document change detected", "path", event.Name, "op", event.Op.String())

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// Close stops the underlying file system watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Dropped returns the number of changes dropped because nobody was reading.
func (w *Watcher) Dropped() int64 {
	return w.dropped.Load()
}

func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path := range batch {
		if ctx.Err() != nil {
			return
		}

		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				w.hashMu.Lock()
				delete(w.hashes, path)
				w.hashMu.Unlock()
				w.send(Change{Path: path, Removed: true})
				continue
			}
			w.logger.Warn("Failed to read changed file", "path", path, "error", err)
			continue
		}

		hash := ContentHash(content)
		w.hashMu.Lock()
		unchanged := w.hashes[path] == hash
		w.hashes[path] = hash
		w.hashMu.Unlock()
		if unchanged {
			continue
		}
		w.send(Change{Path: path})
	}
}

func (w *Watcher) send(c Change) {
	select {
	case w.changes <- c:
	default:
		n := w.dropped.Add(1)
		w.logger.Warn("Change channel full, dropping change", "path", c.Path, "total_dropped", n)
	}
}

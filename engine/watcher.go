package engine

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// defaultReloadDebounce coalesces the burst of write events an editor emits for one save.
const defaultReloadDebounce = 250 * time.Millisecond

// meshWatcher reports changes to one mesh file. It watches the parent directory so that
// editors which save by renaming a temporary file over the original are still observed.
type meshWatcher struct {
	logger   *zap.Logger
	fsnotify *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func()

	mu    sync.Mutex
	timer *time.Timer

	done     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}
}

// newMeshWatcher starts watching path and calls onChange from a background goroutine once
// the file has been quiet for debounce after a create, write or rename.
//
// Parameters:
//   - path: the mesh file to watch
//   - debounce: quiet period before onChange fires
//   - logger: receives watch errors
//   - onChange: called once per debounced burst of changes
//
// Returns:
//   - *meshWatcher: the running watcher
//   - error: an error if the watch cannot be established
func newMeshWatcher(path string, debounce time.Duration, logger *zap.Logger, onChange func()) (*meshWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &meshWatcher{
		logger:   logger,
		fsnotify: fsWatch,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.start()
	return w, nil
}

func (w *meshWatcher) start() {
	defer close(w.stopped)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			w.logger.Warn("mesh watch error", zap.String("path", w.path), zap.Error(err))

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *meshWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *meshWatcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}
	w.onChange()
}

// Close stops the watcher and any pending notification. Safe to call more than once.
func (w *meshWatcher) Close() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		<-w.stopped
	})
}

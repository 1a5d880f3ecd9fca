package watch

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lumenrt/polaris/log"
)

// Editors often emit several events for a single save. Events for the same
// file that arrive within this window trigger a single rebuild.
const DefaultSettleDelay = 100 * time.Millisecond

var ErrClosed = errors.New("watch: watcher already closed")

// The RebuildFunc is invoked with the path of a changed source file.
type RebuildFunc func(path string) error

// Watcher monitors scene source files and invokes a rebuild callback when
// they change.
type Watcher struct {
	logger  log.Logger
	rebuild RebuildFunc

	// Time to wait for further events before rebuilding.
	SettleDelay time.Duration

	mutex    sync.Mutex
	fsnotify *fsnotify.Watcher
	watched  map[string]struct{}
	watchDir map[string]struct{}
	isClosed bool
}

// Create a new watcher.
func New(rebuild RebuildFunc) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		logger:      log.New("watcher"),
		rebuild:     rebuild,
		SettleDelay: DefaultSettleDelay,
		fsnotify:    fsWatch,
		watched:     make(map[string]struct{}),
		watchDir:    make(map[string]struct{}),
	}, nil
}

// Start watching a scene source file. The file's parent directory is
// watched so that editors replacing the file on save are handled.
func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return ErrClosed
	}

	dir := filepath.Dir(absPath)
	if _, exists := w.watchDir[dir]; !exists {
		if err = w.fsnotify.Add(dir); err != nil {
			return err
		}
		w.watchDir[dir] = struct{}{}
	}

	w.watched[absPath] = struct{}{}
	w.logger.Infof(`watching "%s"`, absPath)
	return nil
}

// Check whether a path is being watched.
func (w *Watcher) isWatched(path string) bool {
	if !strings.HasSuffix(path, ".obj") {
		return false
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	_, exists := w.watched[path]
	return exists
}

// Process file events until ctx is cancelled. Rebuild errors are logged and
// do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	pending := make(map[string]struct{})
	settle := time.NewTimer(w.SettleDelay)
	if !settle.Stop() {
		<-settle.C
	}

	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return ErrClosed
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			path, err := filepath.Abs(e.Name)
			if err != nil || !w.isWatched(path) {
				continue
			}

			w.logger.Debugf(`detected change to "%s" (%s)`, path, e.Op)
			pending[path] = struct{}{}
			settle.Reset(w.SettleDelay)
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return ErrClosed
			}
			w.logger.Errorf("watch error: %s", err.Error())
		case <-settle.C:
			for path := range pending {
				delete(pending, path)
				w.logger.Noticef(`rebuilding "%s"`, path)
				if err := w.rebuild(path); err != nil {
					w.logger.Errorf(`failed to rebuild "%s": %s`, path, err.Error())
				}
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) close() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return
	}
	w.isClosed = true
	w.fsnotify.Close()
}

package files

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports external modifications to the file currently open in
// the editor. The parent directory is watched rather than the file
// itself, because most tools replace files on save and a direct watch
// would be lost with the old inode.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan string

	mu   sync.Mutex
	path string
	dir  string
}

// NewWatcher starts the watch loop. Close must be called to stop it.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:    fsw,
		events: make(chan string, 16),
	}
	go w.run()
	return w, nil
}

// Watch switches the watched file. An empty path stops watching.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" {
		_ = w.fsw.Remove(w.dir)
		w.dir = ""
	}
	w.path = ""
	if path == "" {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.path = abs
	w.dir = dir
	return nil
}

// Events yields the watched path each time it changes on disk.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops the watcher and its loop.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				close(w.events)
				return
			}
			if !w.matches(ev) {
				continue
			}
			select {
			case w.events <- ev.Name:
			default:
				// A pending notification already covers this change.
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				close(w.events)
				return
			}
		}
	}
}

func (w *Watcher) matches(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path != "" && ev.Name == w.path
}

package web

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
)

// Watcher fires a callback when the source file changes on disk.
//
// It watches the parent directory rather than the file: editors save
// atomically by writing a temp file and renaming it over the original,
// and an inode watch would be lost on the first such save.
type Watcher struct {
	watcher   *fsnotify.Watcher
	path      string
	onChanged func()

	mu   sync.Mutex
	last time.Time

	debounce  time.Duration
	closeOnce sync.Once
}

// NewWatcher watches path's directory and calls onChanged, debounced,
// whenever the file is rewritten.
func NewWatcher(path string, onChanged func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		watcher:   fsw,
		path:      abs,
		onChanged: onChanged,
		debounce:  500 * time.Millisecond,
	}, nil
}

// relevant reports whether the event is a rewrite of the watched file.
// Create and Rename cover atomic saves; Chmod alone is noise.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Run processes file system events until the context is canceled or the
// watcher closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}

			w.mu.Lock()
			if time.Since(w.last) < w.debounce {
				w.mu.Unlock()
				continue
			}
			w.last = time.Now()
			w.mu.Unlock()

			glog.V(1).Infof("source changed on disk: %s", ev.Name)
			if w.onChanged != nil {
				w.onChanged()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			glog.Errorf("watching %s: %v", w.path, err)
		}
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

// Package file provides a ripple.Watcher backed by a file on disk.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/ripple"
)

// Watcher emits a file's contents on start and whenever it changes.
//
// The parent directory is watched rather than the file itself so that
// editors and deploy tools that replace the file by rename keep triggering
// updates.
type Watcher struct {
	path string
}

// New creates a Watcher for path.
func New(path string) *Watcher {
	return &Watcher{path: path}
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Watch reads the file, emits its contents, then emits again after every
// write, create or rename that lands on the path. Read errors after the
// initial load are skipped until the next event.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}

	initial, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", w.path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch directory of %s: %w", w.path, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer fw.Close()

		if !send(ctx, out, initial) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				data, err := os.ReadFile(abs)
				if err != nil {
					continue
				}
				if !send(ctx, out, data) {
					return
				}

			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

func send(ctx context.Context, out chan<- []byte, data []byte) bool {
	select {
	case out <- data:
		return true
	case <-ctx.Done():
		return false
	}
}

var _ ripple.Watcher = (*Watcher)(nil)

package watcher

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory tree for changes to files with one extension.
type Watcher struct {
	root     string
	ext      string
	onChange func(path string)
	debounce time.Duration
}

// New creates a watcher over the tree rooted at root. onChange receives the
// absolute path of each changed file with the given extension.
func New(root, ext string, onChange func(path string)) *Watcher {
	return &Watcher{
		root:     root,
		ext:      ext,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch starts watching the tree for changes.
// It blocks until the context is cancelled or an error occurs.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch every directory in the tree. New subdirectories are added as
	// create events for them arrive.
	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Watching %s for %s changes", w.root, w.ext)

	debounceTimers := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create != 0 {
				// a new directory tree joins the watch set
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					filepath.WalkDir(event.Name, func(path string, d fs.DirEntry, err error) error {
						if err == nil && d.IsDir() {
							watcher.Add(path)
						}
						return nil
					})
				}
			}

			if !strings.HasSuffix(event.Name, w.ext) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				path := event.Name
				if timer, exists := debounceTimers[path]; exists {
					timer.Stop()
				}
				debounceTimers[path] = time.AfterFunc(w.debounce, func() {
					log.Printf("File changed: %s", path)
					w.onChange(path)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			for _, timer := range debounceTimers {
				timer.Stop()
			}
			return nil
		}
	}
}

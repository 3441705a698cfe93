package prefabs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before it is reported. Editors
// often truncate and then write, so reporting the first event would reload
// a half-written file.
const settle = 100 * time.Millisecond

// Watcher reports tuning and script files that changed on disk, once per
// burst of writes.
type Watcher struct {
	fs     *fsnotify.Watcher
	Events chan string
	Errors chan error

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:     fs,
		Events: make(chan string, 16),
		Errors: make(chan error, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and closes Events and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	quiet := make(map[string]time.Time)
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if len(quiet) == 0 {
				timer.Reset(settle)
			}
			quiet[ev.Name] = time.Now().Add(settle)

		case <-timer.C:
			now := time.Now()
			var ready []string
			next := time.Duration(-1)
			for path, at := range quiet {
				if wait := at.Sub(now); wait > 0 {
					if next < 0 || wait < next {
						next = wait
					}
					continue
				}
				ready = append(ready, path)
			}
			slices.Sort(ready)
			for _, path := range ready {
				delete(quiet, path)
				select {
				case w.Events <- path:
				case <-w.stop:
					return
				}
			}
			if next >= 0 {
				timer.Reset(next)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}

		case <-w.stop:
			return
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return isSpecFile(ev.Name) || isScriptFile(ev.Name)
}

func isSpecFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func isScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}

package catalog

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/runbook/internal/log"
)

// Watcher observes a user workflow directory and invokes a callback after
// changes settle. Editors typically emit several events per save, so events
// are debounced before the callback fires.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	done     chan struct{}
}

// Watch starts watching dir and calls onChange (on the watcher goroutine)
// once per settled burst of filesystem events. Close the returned Watcher to
// stop. Returns an error if the directory cannot be watched.
func Watch(dir string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	log.Debug(log.CatCatalog, "watching user workflow directory", "dir", dir, "debounce", debounce.String())
	return w, nil
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatCatalog, "workflow watcher error", "error", err.Error())
		}
	}
}

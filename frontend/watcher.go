package frontend

import (
	"os"
	"sync"
	"time"
)

// Watcher polls a fixed set of files and calls OnChange for every file
// whose modification time advanced, and once for every file on the first
// poll. Removed files are reported through OnRemove.
type Watcher struct {
	OnChange func(path string)
	OnRemove func(path string)

	paths        []string
	pollInterval time.Duration
	modTimes     map[string]time.Time
	stopCh       chan struct{}
	stopOnce     sync.Once
}

func NewWatcher(paths ...string) *Watcher {
	return &Watcher{
		paths:        paths,
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
		stopCh:       make(chan struct{}),
	}
}

// SetInterval changes the polling interval. Non-positive durations are
// ignored.
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.pollInterval = d
}

func (w *Watcher) Interval() time.Duration {
	return w.pollInterval
}

func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Poll()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll checks every watched file once. It is not safe to call Poll while
// the watcher is running.
func (w *Watcher) Poll() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			if _, known := w.modTimes[path]; known {
				delete(w.modTimes, path)
				log.Infof("%s removed", path)
				if w.OnRemove != nil {
					w.OnRemove(path)
				}
			}
			continue
		}

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if w.OnChange != nil {
				w.OnChange(path)
			}
		}
	}
}

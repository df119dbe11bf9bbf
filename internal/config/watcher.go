package config

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the config file for changes and reloads it. The poll loop
// registers a handler and swaps in new click thresholds between ticks.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	mu       sync.RWMutex
	cfg      File
	handlers []func(File)
	done     chan struct{}
}

// NewWatcher loads the config at path and starts tracking the file.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cfg, err := Load(path)
	if err != nil {
		w.Close()
		return nil, err
	}

	cw := &Watcher{
		path:    path,
		watcher: w,
		cfg:     cfg,
		done:    make(chan struct{}),
	}

	if err := w.Add(path); err != nil {
		// The file may not exist yet; run with defaults and no reloads.
		log.Printf("config: cannot watch %s: %v", path, err)
	}

	return cw, nil
}

// Start starts watching for config file changes.
func (w *Watcher) Start() {
	go w.watch()
}

// Stop stops the config watcher.
func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}

// OnReload registers a handler to be called when the config is reloaded.
func (w *Watcher) OnReload(handler func(File)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Get returns the current config.
func (w *Watcher) Get() File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Reload on write or create (some editors do atomic saves via rename)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watch error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("config: reload failed, keeping previous: %v", err)
		return
	}

	w.mu.Lock()
	w.cfg = cfg
	handlers := make([]func(File), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	log.Printf("config: reloaded %s", w.path)
	for _, h := range handlers {
		h(cfg)
	}
}

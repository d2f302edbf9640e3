package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	handler  func(*Config)
	log      zerolog.Logger
	debounce time.Duration
	done     chan struct{}
}

// NewWatcher watches the directory holding path, so editors that replace the
// file on save are still seen.
func NewWatcher(path string, handler func(*Config), log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config dir: %w", err)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		watcher:  fsw,
		handler:  handler,
		log:      log,
		debounce: 50 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// Start blocks until Stop is called.
func (w *Watcher) Start() {
	var reload <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				reload = time.After(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watch error")
		case <-reload:
			reload = nil
			c, err := ReadConfigFile(w.path)
			if err != nil {
				w.log.Warn().Err(err).Str("path", w.path).Msg("config reload failed")
				continue
			}
			c.ApplyEnv()
			w.log.Info().Str("path", w.path).Msg("config reloaded")
			w.handler(c)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) StartAsync() {
	go w.Start()
}

func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}

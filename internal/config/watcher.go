package config

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration whenever the config file changes on
// disk, so presentation settings (mute, animations) apply without a restart.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(*Config)
	done     chan struct{}
}

// Watch starts watching the default config file. onChange is called with the
// freshly loaded (and validated) configuration after every write.
func Watch(onChange func(*Config)) (*Watcher, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return WatchPath(path, onChange)
}

// WatchPath starts watching an explicit config file path.
func WatchPath(path string, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace files on save and
	// a file watch dies with the old inode.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		//nolint:errcheck // Ignore error on cleanup
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		path:     path,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadFrom(w.path)
			if err != nil {
				log.Printf("[Config] Reload failed: %v", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				log.Printf("[Config] Ignoring invalid config: %v", err)
				continue
			}
			w.onChange(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Config] Watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

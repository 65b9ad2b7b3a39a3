package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// reloadDelay coalesces the burst of events editors emit for one save
const reloadDelay = 100 * time.Millisecond

// Watch reloads the configuration whenever the file changes on disk and runs
// the change callback. It blocks until ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors replace files by rename, which drops a file watch.
	dir := filepath.Dir(m.configPath)
	if err := w.Add(dir); err != nil {
		return err
	}
	name := filepath.Clean(m.configPath)
	log.Printf("Config: Watching %s for changes", name)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := m.Load(); err != nil {
				log.Warnf("Config: reload failed, keeping previous values: %v", err)
				continue
			}
			log.Printf("Config: Reloaded %s", name)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Config: watcher error: %v", err)
		}
	}
}

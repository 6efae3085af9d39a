package jsonfile

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the in-memory document when the backing file is
// edited outside the process. The directory is watched rather than the
// file itself because saves replace the file by rename.
type Watcher struct {
	store    *Store
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	debounce time.Duration
}

// NewWatcher creates a watcher for the store's backing file.
func NewWatcher(store *Store, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	dir := filepath.Dir(store.Path())
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		store:    store,
		logger:   logger,
		watcher:  fsWatcher,
		stopCh:   make(chan struct{}),
		debounce: 200 * time.Millisecond,
	}
	go w.watchLoop()

	logger.Info("Watching scrapbook file for external changes",
		zap.String("path", store.Path()),
	)
	return w, nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	var timer *time.Timer
	target := filepath.Base(w.store.Path())

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce: editors fire several events per save.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Scrapbook file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	// Events triggered by our own saves carry nothing new.
	if w.store.savedWithin(time.Second) {
		return
	}
	if err := w.store.Reload(); err != nil {
		w.logger.Warn("Failed to reload scrapbook after external change",
			zap.Error(err),
		)
	}
}

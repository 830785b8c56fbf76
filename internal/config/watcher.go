package config

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RuleWatcher watches a declarative YAML file (the health rule set or the
// schema registry source) and invokes reload whenever the file settles
// after a write, debounced to avoid reloading on a half-written file.
type RuleWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	pending  time.Time
	reload   func() error
	logger   *zap.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRuleWatcher constructs a watcher for path. reload is invoked (from the
// watcher's own goroutine) each time the file's content settles after a
// write event.
func NewRuleWatcher(path string, reload func() error, logger *zap.Logger) (*RuleWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleWatcher{
		watcher:  w,
		path:     path,
		debounce: 300 * time.Millisecond,
		reload:   reload,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine. Start returns immediately.
func (w *RuleWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.path); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and blocks until its goroutine has exited.
func (w *RuleWatcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *RuleWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("rule watcher error", zap.Error(err), zap.String("path", w.path))
		case <-ticker.C:
			w.maybeReload()
		}
	}
}

func (w *RuleWatcher) maybeReload() {
	w.mu.Lock()
	due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
	if due {
		w.pending = time.Time{}
	}
	w.mu.Unlock()

	if !due {
		return
	}

	if err := w.reload(); err != nil {
		w.logger.Warn("rule reload failed", zap.Error(err), zap.String("path", w.path))
	} else {
		w.logger.Info("rule set reloaded", zap.String("path", w.path))
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package faq

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to
// settle before reporting a change.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a local default FAQ file.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	log      *zap.Logger

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	// errLog keeps a failing filesystem from flooding the log.
	errLog rate.Sometimes

	done chan struct{}
}

// NewWatcher watches path. onChange runs on the watcher goroutine once a
// burst of writes has settled.
func NewWatcher(path string, debounce time.Duration, onChange func(), log *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: editors often replace files by rename.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		log:      log.Named("watcher"),
		fsw:      fsw,
		errLog:   rate.Sometimes{First: 3, Interval: time.Minute},
		done:     make(chan struct{}),
	}, nil
}

// Run processes events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				w.stopTimer()
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.stopTimer()
				return
			}
			w.errLog.Do(func() {
				w.log.Warn("watch error", zap.String("path", w.path), zap.Error(err))
			})
		}
	}
}

// Close stops watching. Run returns once the event channels drain.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.stopTimer()
	return err
}

// Done is closed when Run returns.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.log.Info("default FAQ file changed", zap.String("path", w.path))
		w.onChange()
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

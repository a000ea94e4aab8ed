// Package watch debounces filesystem events on a node directory and
// triggers a sync callback. It is an external collaborator, not part of
// the core engine (SPEC_FULL.md section 1B): no query or index code
// depends on this package, and it never reads or writes index artifacts
// itself — it only calls the trigger function supplied by the caller.
package watch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the window used to coalesce bursts of events from a
// single save (editors often emit several events per write).
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches one directory non-recursively and calls Trigger, at
// most once per debounce window, whenever its contents change.
type Watcher struct {
	dir      string
	debounce time.Duration
	trigger  func()
	logger   *slog.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	done    chan struct{}
}

// New creates a Watcher over dir. trigger is called from the watcher's
// own goroutine, so callers that share state with other goroutines must
// synchronize inside trigger themselves.
func New(dir string, debounce time.Duration, trigger func(), logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		trigger:  trigger,
		logger:   logger,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Run processes events until Stop is called. It blocks; callers should
// run it in its own goroutine.
func (w *Watcher) Run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.logger.Debug("watch: event", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			w.scheduleTrigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch: error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) scheduleTrigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.trigger)
}

// Stop releases the underlying fsnotify watcher and cancels any pending
// debounced trigger. Safe to call more than once (later calls return nil);
// Run's goroutine exits afterward.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

package host

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Watcher polls a Provider in the background and keeps the latest bounds.
// Readers on the UI thread compare Generation to notice changes.
type Watcher struct {
	Provider Provider
	Logger   *slog.Logger

	interval time.Duration
	latest   atomic.Pointer[image.Rectangle]
	gen      atomic.Uint64
	failing  atomic.Bool

	mu      sync.Mutex
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher returns a stopped watcher. Intervals below 50ms are raised to 50ms.
func NewWatcher(p Provider, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{Provider: p, Logger: logger, interval: max(interval, 50*time.Millisecond)}
}

// Start begins polling. It polls once synchronously so Latest is populated on return.
func (w *Watcher) Start() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.done = make(chan struct{})
	w.Poll()
	w.wg.Add(1)
	go w.loop(w.done)
}

// Stop halts polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.done)
	w.mu.Unlock()
	w.wg.Wait()
}

// Running reports whether the poll loop is active.
func (w *Watcher) Running() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Latest returns the last bounds seen, if any.
func (w *Watcher) Latest() (image.Rectangle, bool) {
	if w == nil {
		return image.Rectangle{}, false
	}
	r := w.latest.Load()
	if r == nil {
		return image.Rectangle{}, false
	}
	return *r, true
}

// Generation increases every time the bounds change.
func (w *Watcher) Generation() uint64 {
	if w == nil {
		return 0
	}
	return w.gen.Load()
}

func (w *Watcher) loop(done <-chan struct{}) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Poll()
		case <-done:
			return
		}
	}
}

// Poll queries the provider once and records a change. Errors keep the previous bounds.
func (w *Watcher) Poll() {
	if w == nil || w.Provider == nil {
		return
	}
	r, err := w.Provider.Bounds()
	if err != nil {
		// log only the first failure of a run
		if !w.failing.Swap(true) && w.Logger != nil {
			w.Logger.Warn("host bounds unavailable", "error", err)
		}
		return
	}
	if w.failing.Swap(false) && w.Logger != nil {
		w.Logger.Info("host bounds recovered", "bounds", r)
	}
	if prev := w.latest.Load(); prev != nil && prev.Eq(r) {
		return
	}
	w.latest.Store(&r)
	w.gen.Add(1)
	if w.Logger != nil {
		w.Logger.Debug("host bounds changed", "bounds", r)
	}
}

package playbook

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Watcher polls a playbook file and hands every successfully parsed revision
// to the registered callbacks. A revision that fails to parse is logged and
// the previous playbook stays in effect.
type Watcher struct {
	mu sync.RWMutex

	path          string
	interval      time.Duration
	debounceDelay time.Duration

	running  bool
	stopChan chan struct{}
	changes  chan struct{}

	callbacks []func(*Playbook)
	logger    *zap.Logger

	lastModTime time.Time
	lastSize    int64
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithPollInterval sets how often the file is stat'ed.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDebounceDelay sets how long the file must stay unchanged before reloading.
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounceDelay = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for the playbook at path. The file must exist.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:          path,
		interval:      time.Second,
		debounceDelay: 200 * time.Millisecond,
		stopChan:      make(chan struct{}),
		changes:       make(chan struct{}, 1),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(zap.String("component", "playbook_watcher"), zap.String("path", path))

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat playbook %s: %w", path, err)
	}
	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()
	return w, nil
}

// OnReload registers a callback receiving each newly loaded playbook.
func (w *Watcher) OnReload(callback func(*Playbook)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins polling until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	go w.pollLoop(ctx)
	go w.reloadLoop(ctx)

	w.logger.Info("playbook watcher started",
		zap.Duration("interval", w.interval),
		zap.Duration("debounce_delay", w.debounceDelay))
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stopChan)
	w.running = false
	w.logger.Info("playbook watcher stopped")
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			if w.changed() {
				select {
				case w.changes <- struct{}{}:
				default:
				}
			}
		}
	}
}

// changed compares the file against the last seen mtime and size.
// A missing file is not a change: editors often replace files by rename.
func (w *Watcher) changed() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if info.ModTime().Equal(w.lastModTime) && info.Size() == w.lastSize {
		return false
	}
	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()
	return true
}

// reloadLoop waits for the file to settle, then parses and dispatches it.
func (w *Watcher) reloadLoop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.changes:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounceDelay)
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	pb, err := Load(w.path)
	if err != nil {
		w.logger.Warn("playbook reload rejected, keeping previous revision", zap.Error(err))
		return
	}

	w.mu.RLock()
	callbacks := make([]func(*Playbook), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	w.logger.Info("playbook reloaded",
		zap.String("playbook", pb.Name),
		zap.Int("workers", len(pb.Workers)))
	for _, cb := range callbacks {
		cb(pb)
	}
}

// Package watcher delivers debounced change notifications for the small set
// of files vl reloads while running: the user lessons file and config.yaml.
// fsnotify watches the parent directories where it works; network
// filesystems and VL_FORCE_POLLING fall back to stat polling.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the stat interval used in polling mode.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Event identifies which watched file changed.
type Event struct {
	Path string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported. Editors
// save through truncate-write-rename bursts; one notification per burst is
// what reload callers want.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval for polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithForcePoll skips fsnotify and polls unconditionally.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// fileState is the last observed stat of one watched file.
type fileState struct {
	mtime     time.Time
	size      int64
	exists    bool
	debouncer *Debouncer
}

// Watcher reports changes to a fixed set of files. Files that do not exist
// yet may be watched; their first appearance counts as a change.
type Watcher struct {
	paths []string // absolute, registration order
	state map[string]*fileState

	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool

	fsw     *fsnotify.Watcher
	polling bool
	fsType  FilesystemType

	events chan Event
	errs   chan error

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex
}

// New creates a watcher over the given files. Duplicate paths collapse to
// one entry.
func New(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}

	w := &Watcher{
		state:        map[string]*fileState{},
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		events:       make(chan Event, 4),
		errs:         make(chan error, 4),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if _, dup := w.state[abs]; dup {
			continue
		}
		w.paths = append(w.paths, abs)
		w.state[abs] = &fileState{debouncer: NewDebouncer(w.debounce)}
	}
	return w, nil
}

// Start snapshots the current file states and begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.fsType = detectFilesystemTypeFunc(w.paths[0])
	w.polling = w.forcePoll ||
		envBool("VL_FORCE_POLLING") || envBool("VL_FORCE_POLL") ||
		isRemoteFilesystem(w.fsType)

	for _, p := range w.paths {
		st := w.state[p]
		if info, err := os.Stat(p); err == nil {
			st.mtime, st.size, st.exists = info.ModTime(), info.Size(), true
		}
	}

	if !w.polling {
		w.polling = !w.startFsnotify()
	}
	if w.polling {
		go w.runPolling()
	}

	w.started = true
	return nil
}

// startFsnotify watches the parent directories of every path, so saves done
// as rename-over (the common editor behavior) are still seen. Reports
// whether fsnotify could be set up.
func (w *Watcher) startFsnotify() bool {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return false
	}
	dirs := map[string]bool{}
	for _, p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return false
		}
	}
	w.fsw = fsw
	go w.runFsnotify(fsw)
	return true
}

// Stop ends watching. The event channel is left open: closing it would race
// with in-flight debounced sends, and the only consumer is torn down with
// the process anyway.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	for _, st := range w.state {
		st.debouncer.Cancel()
	}
	w.started = false
}

// Events returns the channel on which changes are delivered.
func (w *Watcher) Events() <-chan Event { return w.events }

// Errors returns the channel on which watch failures are delivered.
// Delivery is best effort; unread errors are dropped.
func (w *Watcher) Errors() <-chan error { return w.errs }

// IsPolling reports whether the watcher is in polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Paths returns the absolute watched paths.
func (w *Watcher) Paths() []string { return w.paths }

// FilesystemType returns the classification of the filesystem holding the
// first watched path, the basis of the polling decision.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the configured polling interval.
func (w *Watcher) PollInterval() time.Duration { return w.pollInterval }

func (w *Watcher) runFsnotify(fsw *fsnotify.Watcher) {
	for {
		select {
		case <-w.ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			// Directory watch: only events for registered files matter.
			st, watched := w.state[ev.Name]
			if !watched {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.reportError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.queue(ev.Name, st)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) runPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			for _, p := range w.paths {
				w.pollOne(p, w.state[p])
			}
		}
	}
}

func (w *Watcher) pollOne(path string, st *fileState) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.mu.Lock()
			had := st.exists
			st.exists = false
			w.mu.Unlock()
			if had {
				w.reportError(ErrFileRemoved)
			}
		} else {
			w.reportError(err)
		}
		return
	}

	w.mu.Lock()
	changed := !st.exists || info.ModTime().After(st.mtime) || info.Size() != st.size
	st.mtime, st.size, st.exists = info.ModTime(), info.Size(), true
	w.mu.Unlock()

	if changed {
		w.queue(path, st)
	}
}

func (w *Watcher) queue(path string, st *fileState) {
	st.debouncer.Trigger(func() { w.emit(path) })
}

func (w *Watcher) emit(path string) {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		// A debounce timer can fire just after Stop; drop the event rather
		// than wake a consumer that is shutting down.
		return
	}
	select {
	case w.events <- Event{Path: path}:
	default:
	}
}

func (w *Watcher) reportError(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/lexcov/internal/analyzer"
	"github.com/blackwell-systems/lexcov/internal/store"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

// DefaultDebounce is how long the watcher waits after the last change event
// before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Update is the outcome of one reload.
type Update struct {
	Path     string
	WordList *wordlist.WordList
	Matrix   *analyzer.Matrix
	Info     *store.WordListInfo // set only when a store is attached
	Err      error
}

// Handler receives every reload, including failed ones. Calls are serialised.
type Handler func(Update)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithWorkers sets the parallelism of the coverage computation.
func WithWorkers(n int) Option {
	return func(w *Watcher) { w.workers = n }
}

// WithStore re-imports the file under name after every successful reload.
func WithStore(st *store.Store, name string) Option {
	return func(w *Watcher) {
		w.store = st
		w.name = name
	}
}

// Watcher reloads a word-list file and recomputes its coverage on change.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	workers  int
	store    *store.Store
	name     string
	logger   *slog.Logger

	fsw      *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Watcher for path. Nothing is read until Start.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		handler:  handler,
		debounce: DefaultDebounce,
		workers:  1,
		logger:   slog.Default().WithGroup("watch"),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.store != nil && w.name == "" {
		return nil, errors.New("store name cannot be empty")
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start subscribes to the file's directory, delivers an initial Update
// synchronously and then reloads in the background until Stop.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.fsw = fsw
	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.handler(w.Reload(w.ctx))

	w.wg.Add(1)
	go w.run()

	w.logger.Debug("watching", "path", w.path, "debounce", w.debounce)
	return nil
}

// run drains fsnotify events, debouncing those that touch the watched file.
func (w *Watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					w.logger.Debug("file moved away", "path", w.path, "op", ev.Op.String())
				}
				continue
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			w.handler(w.Reload(w.ctx))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-w.stopCh:
			return
		}
	}
}

// Reload reads the file, computes its matrix and, with a store attached,
// re-imports it. It does not call the handler.
func (w *Watcher) Reload(ctx context.Context) Update {
	u := Update{Path: w.path}

	wl, err := wordlist.ReadFile(w.path)
	if err != nil {
		u.Err = err
		return u
	}
	u.WordList = wl

	m, err := analyzer.ComputeMatrixParallel(ctx, wl, w.workers)
	if err != nil {
		u.Err = fmt.Errorf("failed to compute coverage for %s: %w", w.path, err)
		return u
	}
	u.Matrix = m

	if w.store != nil {
		info, err := w.store.SaveWordList(w.name, w.path, wl)
		if err != nil {
			u.Err = fmt.Errorf("failed to re-import %s: %w", w.name, err)
			return u
		}
		u.Info = info
	}

	w.logger.Debug("reloaded", "path", w.path, "languages", m.Size(), "concepts", m.ConceptCount())
	return u
}

// Stop halts the watcher and waits for an in-flight reload to finish. It is
// safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.cancel != nil {
			w.cancel()
		}
		w.wg.Wait()
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	return err
}

// Exists reports whether the watched file is currently present.
func (w *Watcher) Exists() bool {
	_, err := os.Stat(w.path)
	return err == nil
}

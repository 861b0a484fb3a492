// Package watch reports changes of files in a directory tree.
//
// Events are debounced per file: a burst of writes to one file (an editor
// saving through a temporary file, a formatter rewriting it) results in
// a single callback once the file has been quiet for the debounce period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// defaultIgnores lists path patterns that are never watched: VCS metadata,
// dependencies, editor swap files and OS metadata.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// Ignored reports whether rel, a path relative to the root of a tree,
// matches one of the default ignore patterns. Set dir if rel names
// a directory.
func Ignored(rel string, dir bool) bool {
	return match(defaultIgnores, rel, dir)
}

func match(patterns []string, rel string, dir bool) bool {
	rel = filepath.ToSlash(rel)
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
		if dir {
			if ok, err := doublestar.Match(pat, rel+"/"); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// An Event describes a change of a single file.
type Event struct {
	Path string

	// Created is set if the file appeared for the first time: it did not
	// exist when watching began and no event was reported for it before.
	Created bool
}

// Config holds the parameters of a Watcher.
type Config struct {
	// Dir is the root of the watched tree.
	Dir string

	// Ignore holds doublestar patterns of paths, relative to Dir, that
	// are not watched in addition to the default ones.
	Ignore []string

	// Debounce defaults to 100ms.
	Debounce time.Duration

	// OnChange is called for every debounced event. Calls for different
	// files may run concurrently.
	OnChange func(ctx context.Context, ev Event)

	Logger *log.Logger
}

// A Watcher watches a directory tree.
type Watcher struct {
	cfg Config
	fsw *fsnotify.Watcher
	log *log.Logger

	ignores []string

	mu      sync.Mutex
	pending map[string]*pending
	known   map[string]bool // files reported or present at start
}

type pending struct {
	timer   *time.Timer
	created bool
}

// New creates a Watcher and registers all directories under cfg.Dir.
func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	cfg.Dir = dir

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		cfg:     cfg,
		fsw:     fsw,
		log:     cfg.Logger,
		ignores: append(slices.Clip(defaultIgnores), cfg.Ignore...),
		pending: make(map[string]*pending),
		known:   make(map[string]bool),
	}
	if w.log == nil {
		w.log = log.Default()
	}
	if err := w.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod || w.ignored(ev.Name, false) {
		return
	}
	created := ev.Has(fsnotify.Create)
	if created {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.log.Warn("cannot watch directory", "dir", ev.Name, "err", err)
			}
			return
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.pending[ev.Name]; ok {
		p.created = p.created || created
		p.timer.Reset(w.cfg.Debounce)
		return
	}
	p := &pending{created: created}
	p.timer = time.AfterFunc(w.cfg.Debounce, func() { w.fire(ctx, ev.Name) })
	w.pending[ev.Name] = p
}

func (w *Watcher) fire(ctx context.Context, path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	delete(w.pending, path)
	created := ok && p.created && !w.known[path]
	if ok {
		w.known[path] = true
	}
	w.mu.Unlock()
	if !ok || ctx.Err() != nil || w.cfg.OnChange == nil {
		return
	}
	w.cfg.OnChange(ctx, Event{Path: path, Created: created})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	if err := w.fsw.Close(); err != nil {
		w.log.Warn("closing watcher", "err", err)
	}
}

// addTree watches dir and all its subdirectories that are not ignored.
// The files found are known from then on.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("skipping", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			if !w.ignored(path, false) {
				w.mu.Lock()
				w.known[path] = true
				w.mu.Unlock()
			}
			return nil
		}
		if path != w.cfg.Dir && w.ignored(path, true) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		return nil
	})
}

// ignored reports whether path matches one of the ignore patterns.
func (w *Watcher) ignored(path string, dir bool) bool {
	rel, err := filepath.Rel(w.cfg.Dir, path)
	if err != nil {
		return false
	}
	return match(w.ignores, rel, dir)
}

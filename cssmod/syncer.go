package cssmod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"mibk.dev/cssfmt/format"
	"mibk.dev/cssfmt/naive"
	"mibk.dev/cssfmt/watch"
)

// componentName matches the base names of components
// for which missing modules may be generated.
var componentName = regexp.MustCompile(`^[A-Z]\S*$`)

// A Syncer syncs components with their CSS modules and formats
// the modules using Spec and Options.
type Syncer struct {
	Spec    []naive.Category
	Options naive.Options

	// Gen enables generating missing modules and adding
	// the styles import to components.
	Gen bool

	// Base is the directory that file names in log messages
	// are relative to.
	Base string

	Logger *log.Logger
}

// IsComponent reports whether path names a component source file.
func IsComponent(path string) bool {
	switch filepath.Ext(path) {
	case ".jsx", ".tsx":
		return true
	}
	return false
}

// ModulePath returns the path of the CSS module of a component.
func ModulePath(component string) string {
	return strings.TrimSuffix(component, filepath.Ext(component)) + ".module.css"
}

// SyncFile syncs the component stored in path with its CSS module.
// Components without a module are skipped unless s.Gen is set.
func (s *Syncer) SyncFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	src := string(b)
	used := ExtractClasses(src)

	modPath := ModulePath(path)
	if _, err := os.Stat(modPath); errors.Is(err, fs.ErrNotExist) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if !s.Gen || len(used) == 0 || !componentName.MatchString(name) {
			return nil
		}
		if err := os.WriteFile(modPath, []byte(naive.AutoGenMarker+"\n"), 0o644); err != nil {
			return err
		}
		s.logger().Info("Generated", "file", s.rel(modPath))
	} else if err != nil {
		return err
	}

	css, err := os.ReadFile(modPath)
	if err != nil {
		return err
	}

	if s.Gen && len(used) > 0 {
		if next := InjectImport(src, filepath.Base(modPath)); next != src {
			if err := os.WriteFile(path, []byte(next), 0o644); err != nil {
				return err
			}
			s.logger().Info("Added import", "file", s.rel(path))
		}
	}

	root := naive.Parse(string(css))
	Reconcile(root, used)
	return s.update(modPath, css, []byte(naive.Format(root, s.Spec, s.Options)), "Updated")
}

// FormatFile formats the CSS file stored in path.
func (s *Syncer) FormatFile(path string) error {
	css, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.update(path, css, format.Source(css, s.Spec, s.Options), "Formatted")
}

func (s *Syncer) update(path string, old, out []byte, msg string) error {
	if bytes.Equal(old, out) {
		return nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	s.logger().Info(msg, "file", s.rel(path))
	return nil
}

// Scan syncs all components found under dir. Components that share
// a module are synced one after another; the rest run in parallel.
// Failures of individual files are logged and do not stop the scan.
func (s *Syncer) Scan(ctx context.Context, dir string) error {
	modules := make(map[string][]string)
	var order []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && watch.Ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsComponent(path) || watch.Ignored(rel, false) {
			return nil
		}
		m := ModulePath(path)
		if _, ok := modules[m]; !ok {
			order = append(order, m)
		}
		modules[m] = append(modules[m], path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, m := range order {
		g.Go(func() error {
			for _, path := range modules[m] {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := s.SyncFile(path); err != nil {
					s.logger().Warn("Sync failed", "file", s.rel(path), "err", err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Syncer) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

func (s *Syncer) rel(path string) string {
	if s.Base == "" {
		return path
	}
	if rel, err := filepath.Rel(s.Base, path); err == nil {
		return rel
	}
	return path
}

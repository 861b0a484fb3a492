package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mibk.dev/cssfmt/naive"
	"mibk.dev/cssfmt/sortspec"
)

var defaultOptions = naive.Standard

func init() {
	opts := strings.Split(os.Getenv("CSSFMT"), ",")
	for _, opt := range opts {
		switch opt = strings.TrimSpace(opt); opt {
		default:
			logger.Warn("Unknown option", "option", opt)
		case "":
		case "headers":
			defaultOptions |= naive.CategoryHeaders
		}
	}
}

// builtinSpec is the value of a bare --sort flag.
const builtinSpec = "builtin"

// loadSpec returns the categories selected by the --sort flag.
// A custom spec that cannot be loaded is reported and replaced
// by the built-in one.
func loadSpec(flag string) []naive.Category {
	switch flag {
	case "":
		return nil
	case builtinSpec:
		spec := sortspec.Default()
		logger.Debug("Loaded built-in sort spec", "categories", len(spec))
		return spec
	}
	spec, err := sortspec.Load(flag)
	if err != nil {
		logger.Warn("Custom sort spec failed, falling back to the built-in one", "err", err)
		return sortspec.Default()
	}
	logger.Info("Loaded sort spec", "file", flag, "categories", len(spec))
	return spec
}

// findProjectRoot returns the nearest directory, starting at dir,
// that holds a package.json. If there is none, it returns dir.
func findProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for d := dir; ; {
		_, err := os.Stat(filepath.Join(d, "package.json"))
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(d)
		if parent == d {
			// Root.
			return dir, nil
		}
		d = parent
	}
}

// targetDir resolves the source directory name against the project
// that contains cwd. If cwd itself is named dir, it is the target.
func targetDir(cwd, dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	if filepath.Base(cwd) == dir {
		return cwd, nil
	}
	root, err := findProjectRoot(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, dir), nil
}

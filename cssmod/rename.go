package cssmod

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OrphansError is returned by AdoptOrphan when a directory holds more
// than one orphaned module.
type OrphansError struct {
	Dir     string
	Modules []string
}

func (e *OrphansError) Error() string {
	return fmt.Sprintf("%s: multiple orphaned modules: %s", e.Dir, strings.Join(e.Modules, ", "))
}

// AdoptOrphan gives a new component the CSS module that was left behind
// in the same directory, typically after the component was renamed.
// A module is orphaned if no component of the same name exists.
// If there is exactly one orphan and the component has no module yet,
// the orphan is renamed and its new path returned. With no orphans,
// AdoptOrphan returns an empty path.
func AdoptOrphan(component string) (string, error) {
	target := ModulePath(component)
	if exists(target) {
		return "", nil
	}

	dir := filepath.Dir(component)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var orphans []string
	for _, e := range entries {
		base, ok := strings.CutSuffix(e.Name(), ".module.css")
		if !ok || e.IsDir() {
			continue
		}
		if exists(filepath.Join(dir, base+".tsx")) || exists(filepath.Join(dir, base+".jsx")) {
			continue
		}
		orphans = append(orphans, e.Name())
	}

	switch len(orphans) {
	case 0:
		return "", nil
	case 1:
		if err := os.Rename(filepath.Join(dir, orphans[0]), target); err != nil {
			return "", err
		}
		return target, nil
	default:
		return "", &OrphansError{Dir: dir, Modules: orphans}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

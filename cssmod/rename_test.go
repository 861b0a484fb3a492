package cssmod_test

import (
	"errors"
	"path/filepath"
	"testing"

	"mibk.dev/cssfmt/cssmod"
)

func TestAdoptOrphan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Old.module.css"), ".a {}\n")
	writeFile(t, filepath.Join(dir, "Kept.module.css"), ".b {}\n")
	writeFile(t, filepath.Join(dir, "Kept.tsx"), "")
	component := filepath.Join(dir, "New.tsx")
	writeFile(t, component, "")

	got, err := cssmod.AdoptOrphan(component)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "New.module.css")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if s := readFile(t, want); s != ".a {}\n" {
		t.Errorf("renamed module = %q", s)
	}

	// New now has a module.
	if got, err := cssmod.AdoptOrphan(component); got != "" || err != nil {
		t.Errorf("second call: got %q, %v", got, err)
	}
}

func TestAdoptOrphanAmbiguous(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "X.module.css"), "")
	writeFile(t, filepath.Join(dir, "Y.module.css"), "")
	component := filepath.Join(dir, "New.jsx")
	writeFile(t, component, "")

	_, err := cssmod.AdoptOrphan(component)
	var oe *cssmod.OrphansError
	if !errors.As(err, &oe) {
		t.Fatalf("got err %v, want *OrphansError", err)
	}
	if len(oe.Modules) != 2 {
		t.Errorf("orphans = %v", oe.Modules)
	}
}

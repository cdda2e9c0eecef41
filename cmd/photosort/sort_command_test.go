package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photosort/internal/testsupport"
)

func TestSortDryRunPrintsPlanWithoutMoving(t *testing.T) {
	env := setupCLITestEnv(t)

	source := filepath.Join(env.baseDir, "incoming", "IMG_0001.jpg")
	capture := time.Date(2004, time.May, 7, 20, 16, 31, 0, time.Local)
	testsupport.WriteFileModTime(t, source, []byte("image-bytes"), capture)

	out, _, err := runCLI(t, []string{"sort", "--dry-run", source}, env.configPath)
	if err != nil {
		t.Fatalf("sort --dry-run: %v", err)
	}
	requireContains(t, out, "2004-05-07_20.16.31_IMG_0001.jpg")

	if _, err := os.Stat(source); err != nil {
		t.Fatalf("dry run should not move files: %v", err)
	}
}

func TestSortMovesFileIntoLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	source := filepath.Join(env.baseDir, "incoming", "IMG_0002.jpg")
	capture := time.Date(2018, time.February, 2, 11, 30, 0, 0, time.Local)
	testsupport.WriteFileModTime(t, source, []byte("image-bytes"), capture)

	out, _, err := runCLI(t, []string{"sort", source}, env.configPath)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	requireContains(t, out, "Moved")

	want := filepath.Join(env.cfg.Paths.LibraryDir, "2018", "2018-02", "2018-02-02_11.30.00_IMG_0002.jpg")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected %s: %v", want, err)
	}
	if _, err := os.Stat(source); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source should be gone, stat err = %v", err)
	}
}

func TestSortFailsPreflightWhenLibraryMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.cfg.Paths.LibraryDir); err != nil {
		t.Fatalf("remove library dir: %v", err)
	}

	source := filepath.Join(env.baseDir, "incoming", "IMG_0003.jpg")
	testsupport.WriteFile(t, source, []byte("image-bytes"))

	if _, _, err := runCLI(t, []string{"sort", source}, env.configPath); err == nil {
		t.Fatal("expected preflight failure for missing library directory")
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("file should be untouched after preflight failure: %v", err)
	}
}

package preflight_test

import (
	"context"
	"path/filepath"
	"testing"

	"photosort/internal/preflight"
	"photosort/internal/testsupport"
)

func TestRunAllPassesWithValidConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := preflight.RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected preflight results")
	}
	for _, result := range results {
		if result.Name == "FFprobe" {
			continue
		}
		if !result.Passed {
			t.Fatalf("check %q failed: %s", result.Name, result.Detail)
		}
	}
}

func TestRunAllFlagsMissingLibrary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.LibraryDir = filepath.Join(t.TempDir(), "does-not-exist")

	results := preflight.RunAll(context.Background(), cfg)
	if preflight.Passed(results) {
		t.Fatal("expected preflight to fail for missing library directory")
	}
}

func TestPassedIgnoresOptionalFailures(t *testing.T) {
	results := []preflight.Result{
		{Name: "Library directory", Passed: true},
		{Name: "FFprobe", Passed: false, Optional: true},
	}
	if !preflight.Passed(results) {
		t.Fatal("optional failures should not fail preflight")
	}
}

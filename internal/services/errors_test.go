package services_test

import (
	"errors"
	"strings"
	"testing"

	"photosort/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "sorter", "probe", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"sorter", "probe", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "sorter", "move", "rename failed", errors.New("io"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker for nil input, got %v", err)
	}
}

func TestIsFatalForFile(t *testing.T) {
	if services.IsFatalForFile(nil) {
		t.Fatal("nil error should not be fatal")
	}
	notFound := services.Wrap(services.ErrNotFound, "sorter", "stat", "missing", nil)
	if services.IsFatalForFile(notFound) {
		t.Fatalf("not-found should be a skip, got fatal: %v", notFound)
	}
	toolErr := services.Wrap(services.ErrExternalTool, "timestamp", "ffprobe", "exit 1", nil)
	if !services.IsFatalForFile(toolErr) {
		t.Fatalf("external tool errors should be fatal for the file: %v", toolErr)
	}
}

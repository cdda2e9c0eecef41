package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photosort/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLibrary := filepath.Join(tempHome, "photos", "library")
	if cfg.Paths.LibraryDir != wantLibrary {
		t.Fatalf("unexpected library dir: got %q want %q", cfg.Paths.LibraryDir, wantLibrary)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "photosort", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Sorter.Dedup {
		t.Fatal("expected dedup disabled by default")
	}
	if cfg.Sorter.SidecarExtension != ".AAE" {
		t.Fatalf("unexpected sidecar extension: %q", cfg.Sorter.SidecarExtension)
	}
	if len(cfg.Sorter.SkipMarkers) != 1 || cfg.Sorter.SkipMarkers[0] != "@eaDir" {
		t.Fatalf("unexpected skip markers: %v", cfg.Sorter.SkipMarkers)
	}
	if cfg.Manifest.Enabled {
		t.Fatal("expected manifest disabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.ManifestPath() != filepath.Join(wantLogs, "manifest.db") {
		t.Fatalf("unexpected manifest path: %q", cfg.ManifestPath())
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
library_dir = "` + filepath.Join(dir, "lib") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[sorter]
sidecar_extension = "aae"
skip_dates = ["2012-02-28", " "]
dedup = true

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Sorter.SidecarExtension != ".aae" {
		t.Fatalf("expected dot-prefixed sidecar extension, got %q", cfg.Sorter.SidecarExtension)
	}
	if len(cfg.Sorter.SkipDates) != 1 || cfg.Sorter.SkipDates[0] != "2012-02-28" {
		t.Fatalf("unexpected skip dates: %v", cfg.Sorter.SkipDates)
	}
	if !cfg.Sorter.Dedup {
		t.Fatal("expected dedup enabled")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsBadSkipDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[sorter]
skip_dates = ["02/28/2012"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for malformed skip date")
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"yaml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestEnsureDirectoriesSkipsLibrary(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("log dir should exist: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LibraryDir); !os.IsNotExist(err) {
		t.Fatalf("library dir must not be created, stat err=%v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "library_dir") {
		t.Fatal("sample config missing library_dir")
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"photosort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The library and log directories are created so preflight checks pass.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Manifest.Path = filepath.Join(base, "logs", "manifest.db")

	for _, dir := range []string{cfgVal.Paths.LibraryDir, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDedup enables content-hash duplicate detection on the test config.
func WithDedup() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sorter.Dedup = true
	}
}

// WithManifest enables the move journal on the test config.
func WithManifest() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Manifest.Enabled = true
	}
}

// WithSkipDates sets capture dates whose files are left in place.
func WithSkipDates(dates ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sorter.SkipDates = dates
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LibraryDir)
}

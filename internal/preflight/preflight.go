package preflight

import (
	"context"

	"photosort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Library directory (must already exist; sorting never creates it)
	results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))

	// Log directory
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	// ffprobe is only needed when the batch contains videos, so its absence
	// is reported but does not fail the run.
	results = append(results, CheckBinary(ctx, "FFprobe", cfg.FFprobeBinary(), true))

	return results
}

// Passed reports whether every non-optional check succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed && !result.Optional {
			return false
		}
	}
	return true
}

// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no photosort-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties including its tag map
//   - Format: container-level metadata and tags
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns a parsed Result
//
// The CreationTime helper surfaces the container's recorded capture time,
// which is the only tag the sorter consumes.
package ffprobe

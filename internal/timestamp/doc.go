// Package timestamp derives a capture time for media files.
//
// Sources are tried in strict priority order: container creation_time tags
// for videos (via ffprobe), EXIF date tags for images, then the file's
// modification time. Videos never fall back past the container tag; a probe
// failure or absent tag is fatal for that file, and timestamps at or before
// 2001-01-01 are rejected as camera-default garbage.
package timestamp

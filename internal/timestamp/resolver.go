package timestamp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"photosort/internal/logging"
	"photosort/internal/media/exiftag"
	"photosort/internal/media/ffprobe"
	"photosort/internal/services"
)

var (
	// ErrMissingTimestamp indicates no capture tag was present. Recoverable:
	// the resolver falls through to the next source.
	ErrMissingTimestamp = errors.New("capture tag missing")
	// ErrBadTimestamp indicates a capture tag was present but malformed.
	// Recoverable like ErrMissingTimestamp.
	ErrBadTimestamp = errors.New("capture tag malformed")
	// ErrTooOld indicates a video creation_time at or before the floor date.
	// Cameras that lose their clock write epoch-ish defaults; such files
	// cannot be dated by this resolver.
	ErrTooOld = errors.New("capture time predates floor")
)

// floorDate guards against known-bad default container timestamps.
const floorDate = "2001-01-01"

// videoExtensions are delegated to container probing and never fall back to
// EXIF or mtime.
var videoExtensions = map[string]struct{}{
	".mov": {},
	".mp4": {},
}

// IsVideoExtension reports whether the (dot-prefixed, any-case) extension is
// resolved via container tags.
func IsVideoExtension(ext string) bool {
	_, ok := videoExtensions[strings.ToLower(ext)]
	return ok
}

type probeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

type exifValueFunc func(path string) (string, error)

type sourceFunc func(ctx context.Context, path string) (time.Time, error)

// Resolver derives a best-effort capture time for a media file from a
// prioritized chain of sources: container tags for videos, EXIF tags for
// images, and file modification time as the last resort.
type Resolver struct {
	binary    string
	logger    *slog.Logger
	probe     probeFunc
	exifValue exifValueFunc
}

// NewResolver constructs a resolver using the real ffprobe binary and EXIF reader.
func NewResolver(ffprobeBinary string, logger *slog.Logger) *Resolver {
	return NewResolverWithDependencies(ffprobeBinary, logger, ffprobe.Inspect, exiftag.CaptureTimestamp)
}

// NewResolverWithDependencies allows injecting collaborators (used in tests).
func NewResolverWithDependencies(ffprobeBinary string, logger *slog.Logger, probe probeFunc, exifValue exifValueFunc) *Resolver {
	return &Resolver{
		binary:    ffprobeBinary,
		logger:    logging.NewComponentLogger(logger, "timestamp"),
		probe:     probe,
		exifValue: exifValue,
	}
}

// Resolve walks the source chain for path and returns the first timestamp a
// source produces. Recoverable failures (missing or malformed tags) advance to
// the next source; everything else surfaces to the caller.
func (r *Resolver) Resolve(ctx context.Context, path string) (time.Time, error) {
	for _, source := range r.sourcesFor(filepath.Ext(path)) {
		resolved, err := source(ctx, path)
		if err == nil {
			return resolved, nil
		}
		if recoverable(err) {
			r.logger.Debug("timestamp source skipped", logging.String("path", path), logging.Error(err))
			continue
		}
		return time.Time{}, err
	}
	return time.Time{}, services.Wrap(services.ErrValidation, "timestamp", "resolve", fmt.Sprintf("no source produced a timestamp for %s", path), nil)
}

func (r *Resolver) sourcesFor(ext string) []sourceFunc {
	if IsVideoExtension(ext) {
		return []sourceFunc{r.containerTag}
	}
	return []sourceFunc{r.exifTag, r.modTime}
}

func recoverable(err error) bool {
	return errors.Is(err, ErrMissingTimestamp) || errors.Is(err, ErrBadTimestamp)
}

func (r *Resolver) containerTag(ctx context.Context, path string) (time.Time, error) {
	result, err := r.probe(ctx, r.binary, path)
	if err != nil {
		return time.Time{}, services.Wrap(services.ErrExternalTool, "timestamp", "probe video", "ffprobe failed", err)
	}
	if result.VideoStreamCount() == 0 {
		return time.Time{}, services.Wrap(services.ErrExternalTool, "timestamp", "probe video", fmt.Sprintf("no video stream in %s", path), nil)
	}
	raw, ok := result.CreationTime()
	if !ok {
		return time.Time{}, services.Wrap(services.ErrExternalTool, "timestamp", "probe video", fmt.Sprintf("no creation_time tag in %s", path), nil)
	}
	parsed, err := parseContainerTime(raw)
	if err != nil {
		return time.Time{}, services.Wrap(services.ErrExternalTool, "timestamp", "probe video", fmt.Sprintf("unparseable creation_time %q", raw), err)
	}
	local := parsed.Local()
	if local.Format("2006-01-02") <= floorDate {
		return time.Time{}, fmt.Errorf("%w: %s from %s", ErrTooOld, local.Format("2006-01-02"), path)
	}
	return local, nil
}

func (r *Resolver) exifTag(_ context.Context, path string) (time.Time, error) {
	raw, err := r.exifValue(path)
	if err != nil {
		if errors.Is(err, exiftag.ErrNoDateTag) {
			return time.Time{}, ErrMissingTimestamp
		}
		return time.Time{}, fmt.Errorf("read exif: %w", err)
	}
	return parseExifTimestamp(raw)
}

func (r *Resolver) modTime(_ context.Context, path string) (time.Time, error) {
	// mtime, not ctime: inode change time moves on chmod/chown and is almost
	// always later than the actual capture.
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime().Local(), nil
}

var exifSeparators = regexp.MustCompile(`[: ]`)

// parseExifTimestamp parses the EXIF "2006:01:02 15:04:05" form. Exactly six
// integer components are required; anything else is ErrBadTimestamp.
func parseExifTimestamp(value string) (time.Time, error) {
	fields := exifSeparators.Split(strings.TrimSpace(value), -1)
	if len(fields) != 6 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
	}
	numbers := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
		}
		numbers[i] = n
	}
	year, month, day := numbers[0], numbers[1], numbers[2]
	hour, minute, second := numbers[3], numbers[4], numbers[5]
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
	}
	parsed := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
	// time.Date normalizes impossible dates (Feb 31 becomes Mar 2); such
	// values are malformed, not a later capture.
	if parsed.Year() != year || parsed.Month() != time.Month(month) || parsed.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
	}
	return parsed, nil
}

// containerTimeLayouts covers the creation_time spellings seen in the wild.
var containerTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseContainerTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range containerTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

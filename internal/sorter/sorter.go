package sorter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"photosort/internal/config"
	"photosort/internal/fileutil"
	"photosort/internal/hashcache"
	"photosort/internal/logging"
	"photosort/internal/manifest"
	"photosort/internal/naming"
	"photosort/internal/services"
	"photosort/internal/timestamp"
)

// recognizedExtensions lists the media types the sorter will relocate.
// Everything else is left in place.
var recognizedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".dng":  {},
	".crw":  {},
	".pef":  {},
	".tif":  {},
	".heic": {},
	".mov":  {},
	".mp4":  {},
}

// Action describes what happened to a single file.
type Action string

const (
	// ActionMoved means the file was relocated into the library.
	ActionMoved Action = "moved"
	// ActionPlanned means the destination was computed but nothing was
	// touched (dry run).
	ActionPlanned Action = "planned"
	// ActionSkipped means the file was deliberately left in place.
	ActionSkipped Action = "skipped"
)

// Result reports the outcome for a single file.
type Result struct {
	Source      string
	Destination string
	CaptureTime time.Time
	Action      Action
	Reason      string
}

// Stats aggregates the outcomes of a run.
type Stats struct {
	Moved   int
	Planned int
	Skipped int
	Failed  int
	Results []Result
}

// Options tune a Sorter beyond its configuration.
type Options struct {
	DryRun   bool
	RunID    string
	Manifest *manifest.Store
}

// Sorter relocates media files into the dated library layout.
type Sorter struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolver *timestamp.Resolver
	cache    *hashcache.Cache
	store    *manifest.Store
	runID    string
	dryRun   bool
}

// New constructs a Sorter backed by the real ffprobe binary and EXIF reader.
func New(cfg *config.Config, logger *slog.Logger, opts Options) *Sorter {
	return NewWithResolver(cfg, logger, timestamp.NewResolver(cfg.FFprobeBinary(), logger), opts)
}

// NewWithResolver allows injecting the timestamp resolver (used in tests).
func NewWithResolver(cfg *config.Config, logger *slog.Logger, resolver *timestamp.Resolver, opts Options) *Sorter {
	if logger == nil {
		logger = logging.NewNop()
	}
	component := logging.NewComponentLogger(logger, "sorter")
	if opts.RunID != "" {
		component = component.With(logging.String(logging.FieldRunID, opts.RunID))
	}
	return &Sorter{
		cfg:      cfg,
		logger:   component,
		resolver: resolver,
		cache:    hashcache.New(logger),
		store:    opts.Manifest,
		runID:    opts.RunID,
		dryRun:   opts.DryRun,
	}
}

// MoveFile relocates a single file into the library. Files that are missing,
// unrecognized, duplicates, or dated on a configured skip date are left in
// place with a skip Result rather than an error.
func (s *Sorter) MoveFile(ctx context.Context, path string) (Result, error) {
	result := Result{Source: path}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("invalid path", logging.String("path", path))
			result.Action = ActionSkipped
			result.Reason = "does not exist"
			return result, nil
		}
		return result, services.Wrap(services.ErrTransient, "sorter", "stat", fmt.Sprintf("stat %s", path), err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := recognizedExtensions[ext]; !ok {
		s.logger.Debug("unrecognized extension", logging.String("path", path))
		result.Action = ActionSkipped
		result.Reason = "unrecognized extension"
		return result, nil
	}

	captureTime, err := s.resolver.Resolve(ctx, path)
	if err != nil {
		if errors.Is(err, timestamp.ErrTooOld) {
			s.logger.Warn("capture time predates floor, leaving in place",
				logging.String("path", path), logging.Error(err))
			result.Action = ActionSkipped
			result.Reason = "capture time predates floor"
			return result, nil
		}
		return result, err
	}
	result.CaptureTime = captureTime

	destination := naming.DestPath(s.cfg.Paths.LibraryDir, path, captureTime)
	result.Destination = destination

	for _, date := range s.cfg.Sorter.SkipDates {
		if strings.Contains(destination, date) {
			s.logger.Info("skipping excluded capture date",
				logging.String("path", path), logging.String("date", date))
			result.Action = ActionSkipped
			result.Reason = fmt.Sprintf("capture date %s excluded", date)
			return result, nil
		}
	}

	targetFolder := filepath.Dir(destination)

	if s.cfg.Sorter.Dedup {
		duplicate, err := s.cache.HasFile(targetFolder, path)
		if err != nil {
			return result, services.Wrap(services.ErrTransient, "sorter", "dedup", fmt.Sprintf("hash %s", path), err)
		}
		if duplicate {
			s.logger.Info("duplicate content, leaving in place",
				logging.String("path", path), logging.String("folder", targetFolder))
			result.Action = ActionSkipped
			result.Reason = "duplicate"
			return result, nil
		}
	}

	if s.dryRun {
		result.Action = ActionPlanned
		return result, nil
	}

	if err := os.MkdirAll(targetFolder, 0o755); err != nil {
		return result, services.Wrap(services.ErrTransient, "sorter", "mkdir", fmt.Sprintf("create %s", targetFolder), err)
	}

	destination, err = naming.ResolveCollision(destination)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, "sorter", "collision", fmt.Sprintf("resolve collision for %s", result.Destination), err)
	}
	result.Destination = destination

	if err := fileutil.MoveFile(path, destination); err != nil {
		marker := services.ErrTransient
		if errors.Is(err, fs.ErrNotExist) {
			// Source vanished between the stat gate and the move.
			marker = services.ErrNotFound
		}
		return result, services.Wrap(marker, "sorter", "move", fmt.Sprintf("move %s", path), err)
	}
	s.logger.Info("moved", logging.String("source", path), logging.String("destination", destination))

	s.moveSidecar(path, destination)

	if s.store != nil {
		entry := manifest.Entry{
			RunID:       s.runID,
			Source:      path,
			Destination: destination,
			CaptureTime: captureTime,
		}
		if s.cfg.Sorter.Dedup {
			if contentHash, hashErr := hashcache.FileHash(destination); hashErr == nil {
				entry.ContentHash = contentHash
			}
		}
		if err := s.store.Record(ctx, entry); err != nil {
			s.logger.Warn("manifest record failed", logging.String("path", path), logging.Error(err))
		}
	}

	result.Action = ActionMoved
	return result, nil
}

// moveSidecar relocates the edit-metadata companion, when present, so it stays
// next to its parent under the destination name.
func (s *Sorter) moveSidecar(path, destination string) {
	sidecarExt := s.cfg.Sorter.SidecarExtension
	if sidecarExt == "" {
		return
	}
	sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + sidecarExt
	if _, err := os.Stat(sidecar); err != nil {
		return
	}
	target := destination + sidecarExt
	if err := fileutil.MoveFile(sidecar, target); err != nil {
		s.logger.Warn("sidecar move failed",
			logging.String("sidecar", sidecar), logging.Error(err))
		return
	}
	s.logger.Info("moved sidecar", logging.String("source", sidecar), logging.String("destination", target))
}

// Run processes each argument, walking directories in enumeration order.
// Per-file failures are logged and counted; the batch keeps going.
func (s *Sorter) Run(ctx context.Context, paths []string) Stats {
	var stats Stats
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			s.logger.Error("cannot stat argument", logging.String("path", path), logging.Error(err))
			stats.Failed++
			continue
		}
		if info.IsDir() {
			s.runDirectory(ctx, path, &stats)
			continue
		}
		s.runOne(ctx, path, &stats)
	}
	return stats
}

func (s *Sorter) runDirectory(ctx context.Context, root string, stats *Stats) {
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Error("walk error", logging.String("path", path), logging.Error(err))
			stats.Failed++
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if s.skipMarker(entry.Name()) {
				s.logger.Debug("skipping marked directory", logging.String("path", path))
				return fs.SkipDir
			}
			return nil
		}
		if s.skipMarker(entry.Name()) {
			return nil
		}
		s.runOne(ctx, path, stats)
		return nil
	})
	if walkErr != nil {
		s.logger.Error("walk failed", logging.String("path", root), logging.Error(walkErr))
		stats.Failed++
	}
}

func (s *Sorter) runOne(ctx context.Context, path string, stats *Stats) {
	result, err := s.MoveFile(ctx, path)
	if err != nil {
		if !services.IsFatalForFile(err) {
			s.logger.Warn("file skipped", logging.String("path", path), logging.Error(err))
			stats.Skipped++
			return
		}
		s.logger.Error("file failed", logging.String("path", path), logging.Error(err))
		stats.Failed++
		return
	}
	stats.Results = append(stats.Results, result)
	switch result.Action {
	case ActionMoved:
		stats.Moved++
	case ActionPlanned:
		stats.Planned++
	case ActionSkipped:
		stats.Skipped++
	}
}

func (s *Sorter) skipMarker(name string) bool {
	for _, marker := range s.cfg.Sorter.SkipMarkers {
		if marker != "" && strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

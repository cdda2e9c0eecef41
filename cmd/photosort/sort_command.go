package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"photosort/internal/logging"
	"photosort/internal/manifest"
	"photosort/internal/preflight"
	"photosort/internal/sorter"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var dedup bool

	cmd := &cobra.Command{
		Use:   "sort <path>...",
		Short: "Move photos and videos into the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if dedup {
				cfg.Sorter.Dedup = true
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			if !preflight.Passed(results) {
				fmt.Fprintln(cmd.OutOrStdout(), renderPreflight(results))
				return fmt.Errorf("preflight checks failed")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			logger = logger.With(logging.String(logging.FieldRunID, runID))

			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "photosort.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another photosort run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			var store *manifest.Store
			if cfg.Manifest.Enabled && !dryRun {
				store, err = manifest.Open(cfg.ManifestPath())
				if err != nil {
					return fmt.Errorf("open manifest: %w", err)
				}
				defer store.Close()
			}

			s := sorter.New(cfg, logger, sorter.Options{
				DryRun:   dryRun,
				RunID:    runID,
				Manifest: store,
			})
			stats := s.Run(cmd.Context(), args)

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, renderPlan(stats))
			}
			fmt.Fprintln(out, renderSummary(stats, dryRun))

			if stats.Failed > 0 {
				return fmt.Errorf("%d file(s) failed", stats.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute destinations without moving anything")
	cmd.Flags().BoolVar(&dedup, "dedup", false, "Skip files whose content already exists in the destination folder")
	return cmd
}

func renderPlan(stats sorter.Stats) string {
	rows := make([][]string, 0, len(stats.Results))
	for _, result := range stats.Results {
		if result.Action != sorter.ActionPlanned {
			continue
		}
		rows = append(rows, []string{result.Source, result.Destination})
	}
	return renderTable([]string{"Source", "Destination"}, rows, nil)
}

func renderSummary(stats sorter.Stats, dryRun bool) string {
	moved := strconv.Itoa(stats.Moved)
	if dryRun {
		moved = strconv.Itoa(stats.Planned)
	}
	rows := [][]string{
		{movedLabel(dryRun), moved},
		{"Skipped", strconv.Itoa(stats.Skipped)},
		{"Failed", strconv.Itoa(stats.Failed)},
	}
	return renderTable([]string{"Outcome", "Files"}, rows, []columnAlignment{alignLeft, alignRight})
}

func movedLabel(dryRun bool) string {
	if dryRun {
		return "Planned"
	}
	return "Moved"
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"photosort/internal/manifest"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "List recently recorded moves",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := manifest.Open(cfg.ManifestPath())
			if err != nil {
				return fmt.Errorf("open manifest: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.MovedAt.Local().Format(time.DateTime),
					entry.RunID,
					entry.Source,
					entry.Destination,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Moved At", "Run", "Source", "Destination"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vcut/internal/history"
	"vcut/internal/services"
	"vcut/internal/staging"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	var dryRun bool
	var historyOlderThan time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove scratch directories left behind by interrupted cuts",
		Long: `Remove cut scratch directories under [paths] work_dir.

Only directories named by a run identifier are considered; anything else in
the work directory is left alone. Use --dry-run to list candidates.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan < 0 || historyOlderThan < 0 {
				return fmt.Errorf("%w: durations must not be negative", services.ErrInvalidInput)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			workDir := cfg.Paths.WorkDir

			dirs, err := staging.ListDirectories(workDir)
			if err != nil {
				return fmt.Errorf("list work directories: %w", err)
			}

			now := time.Now()
			rows := make([][]string, 0, len(dirs))
			var staleSize int64
			for _, dir := range dirs {
				age := now.Sub(dir.ModTime)
				if age < olderThan {
					continue
				}
				staleSize += dir.Size
				rows = append(rows, []string{dir.Name, humanize.Time(dir.ModTime), humanize.Bytes(uint64(dir.Size))})
			}

			if len(rows) == 0 {
				fmt.Fprintf(out, "No stale directories in %s\n", workDir)
			} else if dryRun {
				fmt.Fprintln(out, renderTable(
					"Would remove",
					[]string{"Run", "Modified", "Size"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight},
				))
				fmt.Fprintf(out, "Total: %d directories, %s\n", len(rows), humanize.Bytes(uint64(staleSize)))
			} else {
				result := staging.CleanStale(cmd.Context(), workDir, olderThan, logger)
				fmt.Fprintf(out, "Removed %d %s\n", len(result.Removed), pluralize(int64(len(result.Removed)), "directory", "directories"))
				for _, e := range result.Errors {
					fmt.Fprintf(out, "  failed: %s: %v\n", e.Path, e.Error)
				}
				if len(result.Errors) > 0 {
					return fmt.Errorf("%d directories could not be removed", len(result.Errors))
				}
			}

			if !cmd.Flags().Changed("history-older-than") {
				return nil
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History is disabled; nothing to prune")
				return nil
			}
			if dryRun {
				fmt.Fprintf(out, "Would prune history runs started before %s\n", now.Add(-historyOlderThan).Format(time.RFC3339))
				return nil
			}
			store, err := history.Open(cfg.Paths.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()
			pruned, err := store.Prune(cmd.Context(), now.Add(-historyOlderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Pruned %d history %s\n", pruned, pluralize(pruned, "run", "runs"))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Only remove directories at least this old")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be removed without deleting")
	cmd.Flags().DurationVar(&historyOlderThan, "history-older-than", 0, "Also prune history runs older than this")
	return cmd
}

func pluralize(n int64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

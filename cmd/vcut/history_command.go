package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vcut/internal/history"
	"vcut/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		Long:  "Show recent runs recorded when [history] enabled = true.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("%w: --limit must be positive", services.ErrInvalidInput)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History is disabled; set [history] enabled = true to record runs")
				return nil
			}

			store, err := history.Open(cfg.Paths.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					humanize.Time(r.StartedAt),
					r.Operation,
					string(r.Status),
					r.Output,
					strconv.Itoa(r.Invocations),
					r.Elapsed().Round(100 * time.Millisecond).String(),
					r.Error,
				})
			}
			fmt.Fprintln(out, renderTable(
				"",
				[]string{"Started", "Operation", "Status", "Output", "Runs", "Elapsed", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"vcut/internal/deps"
	"vcut/internal/editor"
	"vcut/internal/ffmpeg"
	"vcut/internal/media/ffprobe"
	"vcut/internal/services"
	"vcut/internal/timerange"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "plan SOURCE RANGE...",
		Short: "Show the keep ranges and ffmpeg commands a cut would run",
		Long: "Invert RANGE cutoffs into keep ranges and print the ffmpeg invocations\n" +
			"without running them. With --probe, ffprobe resolves 'inf' to the source duration.",
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cutoffs, err := parseRangeArgs(args[1:])
			if err != nil {
				return err
			}

			e, err := editor.New(cfg)
			if err != nil {
				return err
			}
			plan, err := e.PlanCut(args[0], cutoffs)
			if err != nil {
				return err
			}

			var sourceDuration time.Duration
			if probe {
				binary, err := deps.Require("ffprobe", cfg.FFmpeg.FFprobeBinary)
				if err != nil {
					return err
				}
				result, err := ffprobe.Inspect(cmd.Context(), binary, args[0])
				if err != nil {
					return services.Wrap(services.ErrExternalTool, editor.OpCut, "probe", "inspect source", err)
				}
				sourceDuration = result.Duration()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n", plan.Source)
			fmt.Fprintf(out, "Output: %s\n\n", plan.Output)

			rows, total, complete := keepRows(plan.Keep, sourceDuration)
			fmt.Fprintln(out, renderTable(
				"Keep ranges",
				[]string{"#", "Start", "End", "Length"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
			))
			if complete {
				fmt.Fprintf(out, "Kept: %s\n", timerange.At(total))
			}

			fmt.Fprintln(out, "\nCommands:")
			for i, step := range plan.Steps {
				line := ffmpeg.CommandString(cfg.FFmpeg.Binary, ffmpeg.Command(cfg.FFmpeg.Overwrite, step.Args))
				fmt.Fprintf(out, "%d. [%s] %s\n", i+1, step.Stage, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "Resolve 'inf' with the source duration from ffprobe")
	return cmd
}

// keepRows renders keep ranges. An 'inf' end is resolved against
// sourceDuration when it is known; complete is false when any length is unknown.
func keepRows(keep []timerange.Range, sourceDuration time.Duration) ([][]string, time.Duration, bool) {
	rows := make([][]string, 0, len(keep))
	var total time.Duration
	complete := true
	for i, r := range keep {
		end := r.End
		if end.IsInf() && sourceDuration > 0 {
			end = timerange.At(sourceDuration)
		}
		endLabel := r.End.String()
		if end != r.End {
			endLabel = fmt.Sprintf("%s (%s)", timerange.Inf, end)
		}
		length := "to end"
		if !end.IsInf() {
			d := max(end.Offset()-r.Start.Offset(), 0)
			total += d
			length = timerange.At(d).String()
		} else {
			complete = false
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), r.Start.String(), endLabel, length})
	}
	return rows, total, complete
}

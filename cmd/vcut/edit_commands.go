package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vcut/internal/editor"
	"vcut/internal/effects"
	"vcut/internal/services"
	"vcut/internal/timerange"
)

func newEffectCommand(ctx *commandContext) *cobra.Command {
	var params []string
	var opts editor.EffectOptions

	cmd := &cobra.Command{
		Use:   "effect SOURCE OPERATION",
		Short: "Apply a single video filter (see 'vcut ops')",
		Long: "Apply one catalog operation to SOURCE and write <name>_<operation><ext> next to it.\n" +
			"Custom operations take parameters, e.g. --param width=1280 --param height=720.",
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := effects.ParseParams(params)
			if err != nil {
				return err
			}
			opts.Params = parsed
			return runEdit(ctx, cmd, func(e *editor.Editor) (editor.Result, error) {
				return e.ApplyEffect(cmd.Context(), args[0], args[1], opts)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Operation parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "Encoder preset (default from [effect] preset)")
	cmd.Flags().StringVar(&opts.AudioCodec, "audio-codec", "", "Audio codec (default from [effect] audio_codec)")
	return cmd
}

func newCutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cut SOURCE RANGE...",
		Short: "Remove time ranges from a video",
		Long: "Remove each RANGE from SOURCE and write <name>_output<ext> next to it.\n" +
			"Ranges are START-END or START,END in chronological order; END may be 'inf'.\n" +
			"Example: vcut cut talk.mp4 00:01:50.00-00:02:05.00 00:10:00-inf",
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoffs, err := parseRangeArgs(args[1:])
			if err != nil {
				return err
			}
			return runEdit(ctx, cmd, func(e *editor.Editor) (editor.Result, error) {
				return e.Cut(cmd.Context(), args[0], cutoffs)
			})
		},
	}
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract SOURCE START [END]",
		Short: "Extract a sub-clip",
		Long:  "Copy START..END of SOURCE into <name>_sub<ext>. END defaults to 'inf' (end of video).",
		Args:  usageArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			end := timerange.Inf
			if len(args) == 3 {
				end = args[2]
			}
			clip, err := timerange.NewRange(args[1], end)
			if err != nil {
				return fmt.Errorf("%w: %w", services.ErrInvalidInput, err)
			}
			return runEdit(ctx, cmd, func(e *editor.Editor) (editor.Result, error) {
				return e.ExtractSubclip(cmd.Context(), args[0], clip)
			})
		},
	}
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var reencode bool
	var videoCodec, preset, audioCodec, audioBitrate, videoBitrate string
	var fps int

	cmd := &cobra.Command{
		Use:   "merge OUTPUT [INPUT...]",
		Short: "Concatenate videos in order",
		Long: "Concatenate INPUT files into OUTPUT with the concat demuxer.\n" +
			"Streams are copied unless --reencode is set or [merge] concat_only is false.",
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := editor.MergeOptionsFromConfig(cfg)
			flags := cmd.Flags()
			if flags.Changed("reencode") {
				opts.ConcatOnly = !reencode
			}
			if flags.Changed("video-codec") {
				opts.VideoCodec = videoCodec
			}
			if flags.Changed("preset") {
				opts.Preset = preset
			}
			if flags.Changed("audio-codec") {
				opts.AudioCodec = audioCodec
			}
			if flags.Changed("audio-bitrate") {
				opts.AudioBitrate = audioBitrate
			}
			if flags.Changed("fps") {
				opts.FPS = fps
			}
			if flags.Changed("video-bitrate") {
				opts.VideoBitrate = videoBitrate
			}
			return runEdit(ctx, cmd, func(e *editor.Editor) (editor.Result, error) {
				return e.Merge(cmd.Context(), args[1:], args[0], opts)
			})
		},
	}
	cmd.Flags().BoolVar(&reencode, "reencode", false, "Re-encode instead of copying streams")
	cmd.Flags().StringVar(&videoCodec, "video-codec", "", "Video codec when re-encoding")
	cmd.Flags().StringVar(&preset, "preset", "", "Encoder preset when re-encoding")
	cmd.Flags().StringVar(&audioCodec, "audio-codec", "", "Audio codec when re-encoding")
	cmd.Flags().StringVar(&audioBitrate, "audio-bitrate", "", "Audio bitrate when re-encoding")
	cmd.Flags().IntVar(&fps, "fps", 0, "Output frame rate when re-encoding")
	cmd.Flags().StringVar(&videoBitrate, "video-bitrate", "", "Video bitrate when re-encoding")
	return cmd
}

func runEdit(ctx *commandContext, cmd *cobra.Command, op func(*editor.Editor) (editor.Result, error)) error {
	e, closeFn, err := ctx.newEditor(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := op(e)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

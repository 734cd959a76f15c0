package ffmpeg

import (
	"strconv"

	"vcut/internal/timerange"
)

// MergeOptions selects between stream copy and a full re-encode when merging.
type MergeOptions struct {
	ConcatOnly   bool
	VideoCodec   string
	Preset       string
	AudioCodec   string
	AudioBitrate string
	FPS          int
	VideoBitrate string
}

// GlobalArgs returns the flags shared by every invocation. ffmpeg either
// overwrites (-y) or refuses existing outputs (-n) instead of prompting.
func GlobalArgs(overwrite bool) []string {
	args := []string{"-hide_banner", "-nostdin"}
	if overwrite {
		return append(args, "-y")
	}
	return append(args, "-n")
}

// Command prefixes body with the global flags.
func Command(overwrite bool, body []string) []string {
	return append(GlobalArgs(overwrite), body...)
}

// SegmentArgs extracts one keep range. An open-ended range omits -to.
func SegmentArgs(src string, keep timerange.Range, videoCodec, audioCodec, out string) []string {
	args := []string{"-i", src}
	args = appendTrim(args, keep)
	args = append(args, "-c:v", videoCodec)
	if audioCodec != "" {
		args = append(args, "-c:a", audioCodec)
	}
	return append(args, out)
}

// ConcatArgs stitches the segments listed in manifest.
func ConcatArgs(manifest, videoCodec, audioCodec, out string) []string {
	if audioCodec == "" {
		audioCodec = "copy"
	}
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-c:v", videoCodec,
		"-c:a", audioCodec,
		out,
	}
}

// EffectArgs applies a single video filter.
func EffectArgs(src, filter, audioCodec, videoCodec, preset, out string) []string {
	return []string{
		"-i", src,
		"-vf", filter,
		"-c:a", audioCodec,
		"-c:v", videoCodec,
		"-preset", preset,
		out,
	}
}

// SubclipArgs extracts one range into a standalone clip.
func SubclipArgs(src string, clip timerange.Range, videoCodec, audioCodec, out string) []string {
	if audioCodec == "" {
		audioCodec = "copy"
	}
	args := []string{"-i", src}
	args = appendTrim(args, clip)
	return append(args, "-c:v", videoCodec, "-c:a", audioCodec, out)
}

// MergeArgs concatenates independent files listed in manifest.
func MergeArgs(manifest string, opts MergeOptions, out string) []string {
	args := []string{"-f", "concat", "-safe", "0", "-i", manifest}
	if opts.ConcatOnly {
		return append(args, "-c", "copy", out)
	}
	return append(args,
		"-c:v", opts.VideoCodec,
		"-preset", opts.Preset,
		"-c:a", opts.AudioCodec,
		"-b:a", opts.AudioBitrate,
		"-movflags", "+faststart",
		"-r", strconv.Itoa(opts.FPS),
		"-b:v", opts.VideoBitrate,
		out,
	)
}

func appendTrim(args []string, r timerange.Range) []string {
	args = append(args, "-ss", r.Start.String())
	if !r.End.IsInf() {
		args = append(args, "-to", r.End.String())
	}
	return args
}

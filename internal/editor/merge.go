package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vcut/internal/config"
	"vcut/internal/ffmpeg"
	"vcut/internal/logging"
	"vcut/internal/services"
)

// MergeOptionsFromConfig returns the configured merge settings.
func MergeOptionsFromConfig(cfg *config.Config) ffmpeg.MergeOptions {
	return ffmpeg.MergeOptions{
		ConcatOnly:   cfg.Merge.ConcatOnly,
		VideoCodec:   cfg.MergeVideoCodec(),
		Preset:       cfg.Merge.Preset,
		AudioCodec:   cfg.Merge.AudioCodec,
		AudioBitrate: cfg.Merge.AudioBitrate,
		FPS:          cfg.Merge.FPS,
		VideoBitrate: cfg.Merge.VideoBitrate,
	}
}

// Merge concatenates files into output in the given order. An empty list is a
// no-op. Every input must exist before ffmpeg runs. The concat manifest lives
// in a temporary file that is removed afterwards; failing to remove it is
// logged and never fails the merge.
func (e *Editor) Merge(ctx context.Context, files []string, output string, opts ffmpeg.MergeOptions) (Result, error) {
	r := e.begin(ctx, OpMerge, strings.Join(files, ", "))

	if len(files) == 0 {
		r.skipped = true
		r.logger.Info("no video files provided; nothing to merge",
			logging.String(logging.FieldEventType, "merge_skipped"),
		)
		return e.finish(r, nil)
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return e.finish(r, services.Wrap(services.ErrInvalidInput, OpMerge, "validate", "output path required", nil))
	}
	if !opts.ConcatOnly && opts.FPS <= 0 {
		return e.finish(r, services.Wrap(services.ErrInvalidInput, OpMerge, "validate", "fps must be positive when re-encoding", nil))
	}
	if err := e.requireFFmpeg(r); err != nil {
		return e.finish(r, err)
	}

	outAbs, _ := filepath.Abs(output)
	var missing []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, file)
			continue
		}
		if abs, _ := filepath.Abs(file); abs == outAbs {
			return e.finish(r, services.Wrap(services.ErrInvalidInput, OpMerge, "validate", "output "+output+" is also an input", nil))
		}
	}
	if len(missing) > 0 {
		return e.finish(r, services.Wrap(services.ErrInvalidInput, OpMerge, "validate",
			fmt.Sprintf("input files do not exist: %s", strings.Join(missing, ", ")), nil))
	}

	r.output = output
	release, err := e.lockOutput(r, output)
	if err != nil {
		return e.finish(r, err)
	}
	defer release()

	manifest, err := e.createManifest(files)
	if err != nil {
		return e.finish(r, err)
	}
	defer e.removeManifest(r, manifest)

	r.logger.Info("merge started",
		logging.String(logging.FieldEventType, "merge_start"),
		logging.Int("inputs", len(files)),
		logging.Bool("concat_only", opts.ConcatOnly),
		logging.String("output_file", output),
	)
	if err := e.invoke(r, StageMerge, 1, 1, ffmpeg.MergeArgs(manifest, opts, output), output); err != nil {
		return e.finish(r, err)
	}
	if err := e.verify(r, output); err != nil {
		return e.finish(r, err)
	}
	return e.finish(r, nil)
}

func (e *Editor) createManifest(files []string) (string, error) {
	dir := e.cfg.Paths.WorkDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "merge-*.txt")
	if err != nil {
		return "", fmt.Errorf("create merge manifest: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	if err := ffmpeg.WriteManifest(path, files); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func (e *Editor) removeManifest(r *run, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.WarnWithContext(r.logger, "failed to remove merge manifest", "manifest_cleanup_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the file manually"),
			logging.String(logging.FieldImpact, "stray manifest left in the work directory"),
		)
	}
}

package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vcut/internal/ffmpeg"
	"vcut/internal/logging"
	"vcut/internal/services"
	"vcut/internal/timerange"
)

// planRunDirPlaceholder stands in for the run directory in dry-run plans.
const planRunDirPlaceholder = "<run-id>"

// Step is one planned ffmpeg invocation (arguments exclude global flags).
type Step struct {
	Stage  string
	Args   []string
	Output string
}

// Plan is the dry-run view of a cut.
type Plan struct {
	Source   string
	Output   string
	Keep     []timerange.Range
	Manifest string
	Segments []string
	Steps    []Step
}

// PlanCut computes the keep list and ffmpeg steps for a cut without touching
// the filesystem or requiring ffmpeg.
func (e *Editor) PlanCut(source string, cutoffs []timerange.Range) (Plan, error) {
	return e.planCut(source, cutoffs, filepath.Join(e.cfg.Paths.WorkDir, planRunDirPlaceholder))
}

func (e *Editor) planCut(source string, cutoffs []timerange.Range, runDir string) (Plan, error) {
	if strings.TrimSpace(source) == "" {
		return Plan{}, services.Wrap(services.ErrInvalidInput, OpCut, "input", "source path required", nil)
	}
	if err := timerange.Validate(cutoffs); err != nil {
		return Plan{}, services.Wrap(services.ErrInvalidInput, OpCut, "validate", "cutoff ranges", err)
	}
	keep := timerange.Invert(cutoffs)
	if len(keep) == 0 {
		return Plan{}, services.Wrap(services.ErrInvalidInput, OpCut, "invert", "cutoffs remove the whole video; nothing left to keep", nil)
	}

	ext := filepath.Ext(source)
	videoCodec := e.cfg.CutVideoCodec()
	plan := Plan{
		Source:   source,
		Output:   DerivedOutput(source, "output"),
		Keep:     keep,
		Manifest: filepath.Join(runDir, "concat.txt"),
		Segments: make([]string, 0, len(keep)),
		Steps:    make([]Step, 0, len(keep)+1),
	}
	for i, r := range keep {
		segment := filepath.Join(runDir, SegmentName(i, ext))
		plan.Segments = append(plan.Segments, segment)
		plan.Steps = append(plan.Steps, Step{
			Stage:  StageSegment,
			Args:   ffmpeg.SegmentArgs(source, r, videoCodec, e.cfg.Cut.SegmentAudioCodec, segment),
			Output: segment,
		})
	}
	plan.Steps = append(plan.Steps, Step{
		Stage:  StageStitch,
		Args:   ffmpeg.ConcatArgs(plan.Manifest, videoCodec, e.cfg.Cut.AudioCodec, plan.Output),
		Output: plan.Output,
	})
	return plan, nil
}

// Cut removes cutoffs from source and writes <stem>_output<ext> next to it.
// Each keep range is extracted into a scratch directory under the work
// directory and the segments are stitched with the concat demuxer. The
// scratch directory is removed on success and failure; a partial output left
// by a failed stitch is not.
func (e *Editor) Cut(ctx context.Context, source string, cutoffs []timerange.Range) (Result, error) {
	r := e.begin(ctx, OpCut, source)

	if err := timerange.Validate(cutoffs); err != nil {
		return e.finish(r, services.Wrap(services.ErrInvalidInput, OpCut, "validate", "cutoff ranges", err))
	}
	if err := e.requireFFmpeg(r); err != nil {
		return e.finish(r, err)
	}
	if err := checkSource(OpCut, source); err != nil {
		return e.finish(r, err)
	}

	runDir := filepath.Join(e.cfg.Paths.WorkDir, r.id)
	plan, err := e.planCut(source, cutoffs, runDir)
	if err != nil {
		return e.finish(r, err)
	}
	r.keep = plan.Keep
	r.output = plan.Output

	release, err := e.lockOutput(r, plan.Output)
	if err != nil {
		return e.finish(r, err)
	}
	defer release()

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return e.finish(r, fmt.Errorf("create run directory: %w", err))
	}
	defer e.removeRunDir(r, runDir)

	r.logger.Info("cut started",
		logging.String(logging.FieldEventType, "cut_start"),
		logging.String("source_file", source),
		logging.Int("keep_ranges", len(plan.Keep)),
		logging.String("keep", formatRanges(plan.Keep)),
		logging.String("output_file", plan.Output),
	)

	total := len(plan.Steps)
	for i, step := range plan.Steps {
		if step.Stage == StageStitch {
			if err := ffmpeg.WriteManifest(plan.Manifest, plan.Segments); err != nil {
				return e.finish(r, err)
			}
		}
		if err := e.invoke(r, step.Stage, i+1, total, step.Args, step.Output); err != nil {
			return e.finish(r, err)
		}
	}

	if err := e.verify(r, plan.Output); err != nil {
		return e.finish(r, err)
	}
	return e.finish(r, nil)
}

func (e *Editor) removeRunDir(r *run, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		logging.WarnWithContext(r.logger, "failed to remove run directory", "run_dir_cleanup_failed",
			logging.String("path", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'vcut cleanup' or remove it manually"),
			logging.String(logging.FieldImpact, "segment files left in the work directory"),
		)
	}
}

func formatRanges(ranges []timerange.Range) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " ")
}

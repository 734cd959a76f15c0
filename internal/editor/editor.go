package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vcut/internal/config"
	"vcut/internal/deps"
	"vcut/internal/ffmpeg"
	"vcut/internal/history"
	"vcut/internal/logging"
	"vcut/internal/media/ffprobe"
	"vcut/internal/services"
	"vcut/internal/timerange"
)

// Operation names used in logs, progress, and the history ledger.
const (
	OpCut     = "cut"
	OpEffect  = "effect"
	OpSubclip = "extract"
	OpMerge   = "merge"
)

// Stage names reported through progress callbacks.
const (
	StageSegment = "segment"
	StageStitch  = "stitch"
	StageFilter  = "filter"
	StageExtract = "extract"
	StageMerge   = "merge"
)

var errProbeUnavailable = errors.New("ffprobe unavailable")

// Progress describes one finished ffmpeg invocation within an operation.
type Progress struct {
	Operation string
	Stage     string
	Index     int
	Total     int
	Output    string
}

// ProgressFunc receives progress updates. It runs on the calling goroutine.
type ProgressFunc func(Progress)

// Recorder stores finished runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// ProbeFunc inspects a finished output.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Result summarizes a finished operation.
type Result struct {
	RunID       string
	Operation   string
	Source      string
	Output      string
	Keep        []timerange.Range
	Invocations int
	Elapsed     time.Duration
	// Skipped is set when there was nothing to do (an empty merge list).
	Skipped bool
	// Probe holds the verification result when output verification ran.
	Probe *ffprobe.Result
}

// Option configures the editor.
type Option func(*Editor)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec ffmpeg.Executor) Option {
	return func(e *Editor) {
		if exec != nil {
			e.exec = exec
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Editor) {
		e.progress = fn
	}
}

// WithRecorder records every finished run.
func WithRecorder(recorder Recorder) Option {
	return func(e *Editor) {
		e.recorder = recorder
	}
}

// WithProbe replaces the ffprobe-backed output inspection.
func WithProbe(probe ProbeFunc) Option {
	return func(e *Editor) {
		if probe != nil {
			e.probe = probe
		}
	}
}

// Editor runs editing operations against a fixed configuration.
type Editor struct {
	cfg      *config.Config
	exec     ffmpeg.Executor
	logger   *slog.Logger
	progress ProgressFunc
	recorder Recorder
	probe    ProbeFunc
}

// New constructs an Editor.
func New(cfg *config.Config, opts ...Option) (*Editor, error) {
	if cfg == nil {
		return nil, errors.New("editor requires config")
	}
	e := &Editor{
		cfg:   cfg,
		exec:  ffmpeg.NewCommandExecutor(nil),
		probe: defaultProbe,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "editor")
	return e, nil
}

// run carries per-invocation state through an operation.
type run struct {
	ctx         context.Context
	logger      *slog.Logger
	id          string
	operation   string
	source      string
	output      string
	binary      string
	started     time.Time
	invocations int
	keep        []timerange.Range
	probe       *ffprobe.Result
	skipped     bool
}

func (e *Editor) begin(ctx context.Context, operation, source string) *run {
	if ctx == nil {
		ctx = context.Background()
	}
	id := uuid.NewString()
	ctx = services.WithRunID(ctx, id)
	ctx = services.WithOperation(ctx, operation)
	return &run{
		ctx:       ctx,
		logger:    logging.WithContext(ctx, e.logger),
		id:        id,
		operation: operation,
		source:    source,
		started:   time.Now(),
	}
}

// finish logs and records the outcome and converts run state into a Result.
func (e *Editor) finish(r *run, err error) (Result, error) {
	result := Result{
		RunID:       r.id,
		Operation:   r.operation,
		Source:      r.source,
		Output:      r.output,
		Keep:        r.keep,
		Invocations: r.invocations,
		Elapsed:     time.Since(r.started),
		Skipped:     r.skipped,
		Probe:       r.probe,
	}

	status := history.StatusSucceeded
	errMsg := ""
	if err != nil {
		status = history.StatusFailed
		errMsg = err.Error()
		logging.ErrorWithContext(r.logger, "operation failed", "operation_failed",
			logging.Error(err),
			logging.String("output_file", r.output),
			logging.Int("ffmpeg_runs", r.invocations),
			logging.String(logging.FieldErrorHint, errorHint(err)),
		)
	} else {
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "operation_complete"),
			logging.String("output_file", r.output),
			logging.Int("ffmpeg_runs", r.invocations),
			logging.Duration("elapsed", result.Elapsed.Round(time.Millisecond)),
		}
		if r.probe != nil {
			attrs = append(attrs, logging.Duration("output_duration", r.probe.Duration().Round(time.Millisecond)))
		}
		r.logger.Info("operation complete", logging.Args(attrs...)...)
	}

	// Runs rejected before an output was chosen are not worth a ledger row.
	if e.recorder != nil && r.output != "" && !r.skipped {
		record := history.Run{
			ID:          r.id,
			Operation:   r.operation,
			Source:      r.source,
			Output:      r.output,
			Status:      status,
			Error:       errMsg,
			Invocations: r.invocations,
			StartedAt:   r.started,
			FinishedAt:  r.started.Add(result.Elapsed),
		}
		if recErr := e.recorder.Record(context.WithoutCancel(r.ctx), record); recErr != nil {
			logging.WarnWithContext(r.logger, "failed to record run history", "history_record_failed",
				logging.Error(recErr),
				logging.String(logging.FieldErrorHint, "check [history] history_path permissions"),
				logging.String(logging.FieldImpact, "run missing from vcut history"),
			)
		}
	}
	return result, err
}

// requireFFmpeg resolves the encoder binary. It runs before any file I/O.
func (e *Editor) requireFFmpeg(r *run) error {
	binary, err := deps.Require("ffmpeg", e.cfg.FFmpeg.Binary)
	if err != nil {
		return err
	}
	r.binary = binary
	return nil
}

// invoke runs one ffmpeg step and reports it.
func (e *Editor) invoke(r *run, stage string, index, total int, body []string, output string) error {
	ctx := services.WithStage(r.ctx, stage)
	logger := logging.WithContext(ctx, e.logger)
	args := ffmpeg.Command(e.cfg.FFmpeg.Overwrite, body)
	logger.Debug("running ffmpeg",
		logging.String("command", ffmpeg.CommandString(r.binary, args)),
		logging.Int("step", index),
		logging.Int("steps", total),
	)

	started := time.Now()
	if err := e.exec.Run(ctx, r.binary, args); err != nil {
		attrs := []logging.Attr{
			logging.Error(err),
			logging.String("command", ffmpeg.CommandString(r.binary, args)),
			logging.String(logging.FieldErrorHint, "rerun with --verbose to see full ffmpeg output"),
		}
		var exitErr *ffmpeg.ExitError
		if errors.As(err, &exitErr) {
			attrs = append(attrs, logging.Int("exit_code", exitErr.ExitCode), logging.String("stderr_tail", exitErr.Stderr))
		}
		logging.ErrorWithContext(logger, "ffmpeg failed", "ffmpeg_failed", attrs...)
		return services.Wrap(services.ErrExternalTool, r.operation, stage, fmt.Sprintf("step %d/%d", index, total), err)
	}
	r.invocations++

	logger.Info("ffmpeg step complete",
		logging.String(logging.FieldEventType, "ffmpeg_step_complete"),
		logging.Int("step", index),
		logging.Int("steps", total),
		logging.String("output_file", output),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	if e.progress != nil {
		e.progress(Progress{Operation: r.operation, Stage: stage, Index: index, Total: total, Output: output})
	}
	return nil
}

// lockOutput takes an exclusive advisory lock on <output>.lock. The returned
// release function unlocks and removes the lock file.
func (e *Editor) lockOutput(r *run, output string) (func(), error) {
	lockPath := output + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrOutputBusy, r.operation, "lock", "acquire output lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrOutputBusy, r.operation, "lock",
			fmt.Sprintf("another vcut run is writing %s", output), nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Debug("release output lock failed", logging.Error(err))
		}
		_ = os.Remove(lockPath)
	}, nil
}

// verify probes the finished output when enabled. A missing ffprobe skips the
// check; a probe that runs and finds nothing playable fails the operation.
func (e *Editor) verify(r *run, output string) error {
	if !e.cfg.FFmpeg.VerifyOutput {
		return nil
	}
	result, err := e.probe(r.ctx, e.cfg.FFmpeg.FFprobeBinary, output)
	if errors.Is(err, errProbeUnavailable) {
		r.logger.Debug("output verification skipped", logging.String("reason", "ffprobe not found"))
		return nil
	}
	if err != nil {
		return services.Wrap(services.ErrValidation, r.operation, "verify", "probe output", err)
	}
	if err := result.Check(); err != nil {
		return services.Wrap(services.ErrValidation, r.operation, "verify", output, err)
	}
	r.probe = &result
	return nil
}

func defaultProbe(ctx context.Context, binary, path string) (ffprobe.Result, error) {
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return ffprobe.Result{}, errProbeUnavailable
	}
	return ffprobe.Inspect(ctx, resolved, path)
}

// checkSource confirms path names a readable regular file.
func checkSource(operation, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrInvalidInput, operation, "input", "source not accessible", err)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrInvalidInput, operation, "input", path+" is not a regular file", nil)
	}
	return nil
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, services.ErrToolMissing):
		return "install ffmpeg or set [ffmpeg] binary in the config"
	case errors.Is(err, services.ErrUnsupportedOperation):
		return "run 'vcut ops' to list supported operations"
	case errors.Is(err, services.ErrInvalidInput):
		return "check the command arguments"
	case errors.Is(err, services.ErrOutputBusy):
		return "wait for the other vcut run to finish"
	case errors.Is(err, services.ErrValidation):
		return "inspect the output file; ffmpeg reported success but the result looks empty"
	default:
		return "rerun with --verbose to see full ffmpeg output"
	}
}

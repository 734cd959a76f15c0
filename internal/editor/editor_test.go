package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"vcut/internal/config"
	"vcut/internal/ffmpeg"
	"vcut/internal/history"
	"vcut/internal/media/ffprobe"
	"vcut/internal/services"
	"vcut/internal/testsupport"
	"vcut/internal/timerange"
)

type fakeExecutor struct {
	calls     [][]string
	failAt    int
	manifests []string
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) error {
	cloned := append([]string(nil), args...)
	f.calls = append(f.calls, cloned)
	if idx := slices.Index(args, "concat"); idx >= 0 && idx+4 < len(args) {
		if data, err := os.ReadFile(args[idx+4]); err == nil {
			f.manifests = append(f.manifests, string(data))
		}
	}
	if f.failAt == len(f.calls) {
		return &ffmpeg.ExitError{Binary: binary, Args: cloned, ExitCode: 1, Stderr: "Conversion failed!"}
	}
	return os.WriteFile(args[len(args)-1], []byte("video"), 0o644)
}

type fakeRecorder struct {
	runs []history.Run
}

func (f *fakeRecorder) Record(_ context.Context, run history.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

type fixture struct {
	cfg     *config.Config
	exec    *fakeExecutor
	source  string
	workDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg())
	source := testsupport.WriteSource(t, filepath.Join(testsupport.BaseDir(cfg), "videos"), "in.mp4")
	return &fixture{cfg: cfg, exec: &fakeExecutor{}, source: source, workDir: cfg.Paths.WorkDir}
}

func (f *fixture) editor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	opts = append([]Option{WithExecutor(f.exec)}, opts...)
	e, err := New(f.cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mustRanges(t *testing.T, values ...string) []timerange.Range {
	t.Helper()
	ranges, err := timerange.ParseRanges(values)
	if err != nil {
		t.Fatalf("ParseRanges: %v", err)
	}
	return ranges
}

func assertWorkDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty work dir, found %d entries", len(entries))
	}
}

func TestCutExtractsSegmentsAndStitches(t *testing.T) {
	f := newFixture(t)
	var updates []Progress
	e := f.editor(t, WithProgress(func(p Progress) { updates = append(updates, p) }))

	result, err := e.Cut(context.Background(), f.source, mustRanges(t, "00:01:50.00,00:02:05.00"))
	if err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}

	wantOutput := strings.TrimSuffix(f.source, ".mp4") + "_output.mp4"
	if result.Output != wantOutput {
		t.Fatalf("expected output %s, got %s", wantOutput, result.Output)
	}
	if _, err := os.Stat(wantOutput); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if result.Invocations != 3 || len(f.exec.calls) != 3 {
		t.Fatalf("expected 3 ffmpeg runs, got %d (%d calls)", result.Invocations, len(f.exec.calls))
	}
	if got := formatRanges(result.Keep); got != "00:00:00.00-00:01:50.00 00:02:05.00-inf" {
		t.Fatalf("unexpected keep ranges %q", got)
	}

	first := strings.Join(f.exec.calls[0], " ")
	if !strings.Contains(first, "-i "+f.source+" -ss 00:00:00.00 -to 00:01:50.00 -c:v h264_nvenc") {
		t.Fatalf("unexpected first segment args: %s", first)
	}
	if !strings.HasPrefix(first, "-hide_banner -nostdin -n ") {
		t.Fatalf("expected global flags, got %s", first)
	}
	second := f.exec.calls[1]
	if slices.Contains(second, "-to") {
		t.Fatalf("open-ended segment must omit -to: %v", second)
	}
	if !strings.HasSuffix(second[len(second)-1], "segment_1.mp4") {
		t.Fatalf("unexpected segment name %s", second[len(second)-1])
	}
	stitch := strings.Join(f.exec.calls[2], " ")
	if !strings.Contains(stitch, "-f concat -safe 0 -i ") || !strings.HasSuffix(stitch, "-c:v h264_nvenc -c:a copy "+wantOutput) {
		t.Fatalf("unexpected stitch args: %s", stitch)
	}

	if len(f.exec.manifests) != 1 {
		t.Fatalf("expected manifest to be captured once, got %d", len(f.exec.manifests))
	}
	lines := strings.Split(strings.TrimSpace(f.exec.manifests[0]), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "segment_0.mp4'") || !strings.HasSuffix(lines[1], "segment_1.mp4'") {
		t.Fatalf("unexpected manifest %q", f.exec.manifests[0])
	}

	stages := make([]string, 0, len(updates))
	for _, u := range updates {
		stages = append(stages, u.Stage)
		if u.Total != 3 {
			t.Fatalf("expected total 3, got %d", u.Total)
		}
	}
	if !reflect.DeepEqual(stages, []string{StageSegment, StageSegment, StageStitch}) {
		t.Fatalf("unexpected progress stages %v", stages)
	}
	if updates[2].Index != 3 {
		t.Fatalf("expected final index 3, got %d", updates[2].Index)
	}

	assertWorkDirEmpty(t, f.workDir)
	if _, err := os.Stat(wantOutput + ".lock"); !os.IsNotExist(err) {
		t.Fatal("expected output lock file to be removed")
	}
}

func TestCutLeadingCutoffSkipsFirstKeepRange(t *testing.T) {
	f := newFixture(t)
	e := f.editor(t)

	result, err := e.Cut(context.Background(), f.source, mustRanges(t, "0,10", "20,inf"))
	if err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}
	if got := formatRanges(result.Keep); got != "00:00:10.00-00:00:20.00" {
		t.Fatalf("unexpected keep ranges %q", got)
	}
	if len(f.exec.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(f.exec.calls))
	}
}

func TestCutRemovesRunDirOnFailure(t *testing.T) {
	f := newFixture(t)
	f.exec.failAt = 2
	recorder := &fakeRecorder{}
	e := f.editor(t, WithRecorder(recorder))

	_, err := e.Cut(context.Background(), f.source, mustRanges(t, "00:01:50.00,00:02:05.00"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	var exitErr *ffmpeg.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != 1 {
		t.Fatalf("expected ffmpeg exit error, got %v", err)
	}
	if len(f.exec.calls) != 2 {
		t.Fatalf("expected no calls after failure, got %d", len(f.exec.calls))
	}
	assertWorkDirEmpty(t, f.workDir)

	if len(recorder.runs) != 1 || recorder.runs[0].Status != history.StatusFailed {
		t.Fatalf("expected failed run recorded, got %#v", recorder.runs)
	}
	if recorder.runs[0].Invocations != 1 {
		t.Fatalf("expected 1 successful invocation recorded, got %d", recorder.runs[0].Invocations)
	}
}

func TestCutReportsMissingToolBeforeFileIO(t *testing.T) {
	f := newFixture(t)
	f.cfg.FFmpeg.Binary = filepath.Join(t.TempDir(), "no-ffmpeg")
	e := f.editor(t)

	_, err := e.Cut(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"), mustRanges(t, "10,20"))
	if !errors.Is(err, services.ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	if len(f.exec.calls) != 0 {
		t.Fatalf("expected no executor calls, got %d", len(f.exec.calls))
	}
	if _, statErr := os.Stat(f.workDir); !os.IsNotExist(statErr) {
		t.Fatal("work directory should not be created when ffmpeg is missing")
	}
}

func TestCutRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		cutoffs []string
		source  string
	}{
		{name: "unsorted", cutoffs: []string{"30,40", "10,20"}},
		{name: "overlapping", cutoffs: []string{"10,30", "20,40"}},
		{name: "zero length", cutoffs: []string{"10,20", "30,30"}},
		{name: "whole video", cutoffs: []string{"0,inf"}},
		{name: "empty list", cutoffs: nil},
		{name: "missing source", cutoffs: []string{"10,20"}, source: "missing.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			source := f.source
			if tt.source != "" {
				source = filepath.Join(t.TempDir(), tt.source)
			}
			_, err := f.editor(t).Cut(context.Background(), source, mustRanges(t, tt.cutoffs...))
			if !errors.Is(err, services.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(f.exec.calls) != 0 {
				t.Fatalf("expected no executor calls, got %d", len(f.exec.calls))
			}
		})
	}
}

func TestCutFailsWhenOutputLocked(t *testing.T) {
	f := newFixture(t)
	output := DerivedOutput(f.source, "output")
	held := flock.New(output + ".lock")
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("pre-lock output: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err := f.editor(t).Cut(context.Background(), f.source, mustRanges(t, "10,20"))
	if !errors.Is(err, services.ErrOutputBusy) {
		t.Fatalf("expected ErrOutputBusy, got %v", err)
	}
	if len(f.exec.calls) != 0 {
		t.Fatalf("expected no executor calls, got %d", len(f.exec.calls))
	}
}

func TestPlanCutNeedsNoTool(t *testing.T) {
	f := newFixture(t)
	f.cfg.FFmpeg.Binary = "definitely-not-installed"
	plan, err := f.editor(t).PlanCut("/videos/talk.mkv", mustRanges(t, "1:00,1:30"))
	if err != nil {
		t.Fatalf("PlanCut: %v", err)
	}
	if plan.Output != "/videos/talk_output.mkv" {
		t.Fatalf("unexpected output %s", plan.Output)
	}
	if len(plan.Steps) != 3 || plan.Steps[2].Stage != StageStitch {
		t.Fatalf("unexpected steps %#v", plan.Steps)
	}
	if !strings.HasSuffix(plan.Segments[0], "segment_0.mkv") {
		t.Fatalf("segments should keep the source extension: %v", plan.Segments)
	}
}

func TestApplyEffect(t *testing.T) {
	f := newFixture(t)
	result, err := f.editor(t).ApplyEffect(context.Background(), f.source, "hflip", EffectOptions{})
	if err != nil {
		t.Fatalf("ApplyEffect: %v", err)
	}
	wantOutput := strings.TrimSuffix(f.source, ".mp4") + "_hflip.mp4"
	if result.Output != wantOutput {
		t.Fatalf("unexpected output %s", result.Output)
	}
	want := ffmpeg.Command(false, []string{"-i", f.source, "-vf", "hflip", "-c:a", "aac", "-c:v", "h264_nvenc", "-preset", "fast", wantOutput})
	if !reflect.DeepEqual(f.exec.calls[0], want) {
		t.Fatalf("got %v\nwant %v", f.exec.calls[0], want)
	}
}

func TestApplyEffectCustomParamsAndOverrides(t *testing.T) {
	f := newFixture(t)
	f.cfg.FFmpeg.Overwrite = true
	_, err := f.editor(t).ApplyEffect(context.Background(), f.source, "scalecustom", EffectOptions{
		Preset:     "slow",
		AudioCodec: "copy",
		Params:     map[string]string{"width": "1280", "height": "720"},
	})
	if err != nil {
		t.Fatalf("ApplyEffect: %v", err)
	}
	args := strings.Join(f.exec.calls[0], " ")
	if !strings.Contains(args, "-y ") || !strings.Contains(args, "-vf scale=1280:720 -c:a copy") || !strings.Contains(args, "-preset slow") {
		t.Fatalf("unexpected args %s", args)
	}
}

func TestApplyEffectRejectsUnsupportedBeforeToolCheck(t *testing.T) {
	f := newFixture(t)
	f.cfg.FFmpeg.Binary = filepath.Join(t.TempDir(), "no-ffmpeg")

	_, err := f.editor(t).ApplyEffect(context.Background(), f.source, "sepia", EffectOptions{})
	if !errors.Is(err, services.ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
	if len(f.exec.calls) != 0 {
		t.Fatalf("expected no executor calls, got %d", len(f.exec.calls))
	}

	_, err = f.editor(t).ApplyEffect(context.Background(), f.source, "cropcustom", EffectOptions{})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing params, got %v", err)
	}
}

func TestExtractSubclip(t *testing.T) {
	f := newFixture(t)
	clip, err := timerange.ParseRange("00:00:30.00-inf")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	result, err := f.editor(t).ExtractSubclip(context.Background(), f.source, clip)
	if err != nil {
		t.Fatalf("ExtractSubclip: %v", err)
	}
	wantOutput := strings.TrimSuffix(f.source, ".mp4") + "_sub.mp4"
	if result.Output != wantOutput {
		t.Fatalf("unexpected output %s", result.Output)
	}
	want := ffmpeg.Command(false, []string{"-i", f.source, "-ss", "00:00:30.00", "-c:v", "h264_nvenc", "-c:a", "copy", wantOutput})
	if !reflect.DeepEqual(f.exec.calls[0], want) {
		t.Fatalf("got %v\nwant %v", f.exec.calls[0], want)
	}
}

func TestExtractSubclipRejectsEmptyClip(t *testing.T) {
	f := newFixture(t)
	clip := timerange.Range{Start: timerange.MustParse("10"), End: timerange.MustParse("10")}
	_, err := f.editor(t).ExtractSubclip(context.Background(), f.source, clip)
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMergeEmptyListIsNoop(t *testing.T) {
	f := newFixture(t)
	recorder := &fakeRecorder{}
	result, err := f.editor(t, WithRecorder(recorder)).Merge(context.Background(), nil, "out.mp4", MergeOptionsFromConfig(f.cfg))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Skipped {
		t.Fatal("expected skipped result")
	}
	if len(f.exec.calls) != 0 || len(recorder.runs) != 0 {
		t.Fatalf("expected no calls and no history, got %d calls %d runs", len(f.exec.calls), len(recorder.runs))
	}
}

func TestMergeMissingInputFailsBeforeInvocation(t *testing.T) {
	f := newFixture(t)
	files := []string{f.source, filepath.Join(t.TempDir(), "gone.mp4")}
	_, err := f.editor(t).Merge(context.Background(), files, filepath.Join(t.TempDir(), "out.mp4"), MergeOptionsFromConfig(f.cfg))
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "gone.mp4") {
		t.Fatalf("expected missing file named in error, got %v", err)
	}
	if len(f.exec.calls) != 0 {
		t.Fatalf("expected no executor calls, got %d", len(f.exec.calls))
	}
}

func TestMergeConcatOnlyRemovesManifest(t *testing.T) {
	f := newFixture(t)
	second := filepath.Join(filepath.Dir(f.source), "it's.mp4")
	if err := os.WriteFile(second, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	output := filepath.Join(t.TempDir(), "merged.mp4")

	result, err := f.editor(t).Merge(context.Background(), []string{f.source, second}, output, MergeOptionsFromConfig(f.cfg))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.Output != output {
		t.Fatalf("unexpected output %s", result.Output)
	}
	args := f.exec.calls[0]
	if !reflect.DeepEqual(args[len(args)-3:], []string{"-c", "copy", output}) {
		t.Fatalf("expected stream copy, got %v", args)
	}
	if len(f.exec.manifests) != 1 || !strings.Contains(f.exec.manifests[0], `it'\''s.mp4`) {
		t.Fatalf("unexpected manifest %v", f.exec.manifests)
	}
	assertWorkDirEmpty(t, f.workDir)
}

func TestMergeReencode(t *testing.T) {
	f := newFixture(t)
	opts := MergeOptionsFromConfig(f.cfg)
	opts.ConcatOnly = false
	_, err := f.editor(t).Merge(context.Background(), []string{f.source}, filepath.Join(t.TempDir(), "m.mp4"), opts)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	args := strings.Join(f.exec.calls[0], " ")
	if !strings.Contains(args, "-c:v h264_nvenc -preset p1 -c:a aac -b:a 128k -movflags +faststart -r 30 -b:v 8M") {
		t.Fatalf("unexpected re-encode args %s", args)
	}
}

func TestMergeRejectsOutputThatIsInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.editor(t).Merge(context.Background(), []string{f.source}, f.source, MergeOptionsFromConfig(f.cfg))
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerifyOutput(t *testing.T) {
	good := ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video"}}, Format: ffprobe.Format{Duration: "12.5"}}
	tests := []struct {
		name      string
		probe     ProbeFunc
		wantErr   error
		wantProbe bool
	}{
		{name: "healthy", probe: func(context.Context, string, string) (ffprobe.Result, error) { return good, nil }, wantProbe: true},
		{name: "empty output", probe: func(context.Context, string, string) (ffprobe.Result, error) { return ffprobe.Result{}, nil }, wantErr: services.ErrValidation},
		{name: "probe missing", probe: func(context.Context, string, string) (ffprobe.Result, error) { return ffprobe.Result{}, errProbeUnavailable }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cfg.FFmpeg.VerifyOutput = true
			result, err := f.editor(t, WithProbe(tt.probe)).ApplyEffect(context.Background(), f.source, "blur", EffectOptions{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if (result.Probe != nil) != tt.wantProbe {
				t.Fatalf("probe presence mismatch: %#v", result.Probe)
			}
		})
	}
}

func TestRecorderReceivesSuccessfulRun(t *testing.T) {
	f := newFixture(t)
	recorder := &fakeRecorder{}
	result, err := f.editor(t, WithRecorder(recorder)).ApplyEffect(context.Background(), f.source, "invert", EffectOptions{})
	if err != nil {
		t.Fatalf("ApplyEffect: %v", err)
	}
	if len(recorder.runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(recorder.runs))
	}
	run := recorder.runs[0]
	if run.ID != result.RunID || run.Operation != OpEffect || run.Status != history.StatusSucceeded || run.Output != result.Output {
		t.Fatalf("unexpected run %#v", run)
	}
}

func TestCutSourceWithoutExtensionUsesMP4Segments(t *testing.T) {
	f := newFixture(t)
	source := testsupport.WriteSource(t, filepath.Dir(f.source), "recording")

	if _, err := f.editor(t).Cut(context.Background(), source, mustRanges(t, "10,20")); err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}
	for i, call := range f.exec.calls[:2] {
		if want := SegmentName(i, ".mp4"); filepath.Base(call[len(call)-1]) != want {
			t.Fatalf("segment %d written to %s, want %s", i, call[len(call)-1], want)
		}
	}
	if len(f.exec.manifests) != 1 || !strings.Contains(f.exec.manifests[0], "segment_1.mp4'") {
		t.Fatalf("unexpected manifest %q", f.exec.manifests)
	}
}

func TestSegmentName(t *testing.T) {
	tests := []struct {
		index int
		ext   string
		want  string
	}{
		{0, ".mkv", "segment_0.mkv"},
		{3, ".mp4", "segment_3.mp4"},
		{1, "", "segment_1.mp4"},
	}
	for _, tt := range tests {
		if got := SegmentName(tt.index, tt.ext); got != tt.want {
			t.Errorf("SegmentName(%d, %q) = %q, want %q", tt.index, tt.ext, got, tt.want)
		}
	}
}

func TestDerivedOutput(t *testing.T) {
	tests := map[string]string{
		"/v/a.mp4":          "/v/a_x.mp4",
		"/v/archive.tar.gz": "/v/archive.tar_x.gz",
		"/v/noext":          "/v/noext_x",
	}
	for in, want := range tests {
		if got := DerivedOutput(in, "x"); got != want {
			t.Errorf("DerivedOutput(%q) = %q, want %q", in, got, want)
		}
	}
}

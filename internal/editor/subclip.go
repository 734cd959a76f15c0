package editor

import (
	"context"

	"vcut/internal/ffmpeg"
	"vcut/internal/logging"
	"vcut/internal/services"
	"vcut/internal/timerange"
)

// ExtractSubclip copies clip out of source into <stem>_sub<ext>. An open
// ended clip runs to the end of the video.
func (e *Editor) ExtractSubclip(ctx context.Context, source string, clip timerange.Range) (Result, error) {
	r := e.begin(ctx, OpSubclip, source)

	if clip.Start.IsInf() {
		return e.finish(r, services.Wrap(services.ErrInvalidInput, OpSubclip, "validate", "clip start cannot be inf", nil))
	}
	if clip.Start.Compare(clip.End) > 0 {
		return e.finish(r, services.Wrap(services.ErrInvalidInput, OpSubclip, "validate", "clip start is after its end", nil))
	}
	if clip.Empty() {
		return e.finish(r, services.Wrap(services.ErrInvalidInput, OpSubclip, "validate", "clip "+clip.String()+" is empty", nil))
	}
	if err := e.requireFFmpeg(r); err != nil {
		return e.finish(r, err)
	}
	if err := checkSource(OpSubclip, source); err != nil {
		return e.finish(r, err)
	}

	r.output = DerivedOutput(source, "sub")
	r.keep = []timerange.Range{clip}
	release, err := e.lockOutput(r, r.output)
	if err != nil {
		return e.finish(r, err)
	}
	defer release()

	r.logger.Info("extract started",
		logging.String(logging.FieldEventType, "extract_start"),
		logging.String("clip", clip.String()),
		logging.String("output_file", r.output),
	)
	args := ffmpeg.SubclipArgs(source, clip, e.cfg.SubclipVideoCodec(), e.cfg.Subclip.AudioCodec, r.output)
	if err := e.invoke(r, StageExtract, 1, 1, args, r.output); err != nil {
		return e.finish(r, err)
	}
	if err := e.verify(r, r.output); err != nil {
		return e.finish(r, err)
	}
	return e.finish(r, nil)
}

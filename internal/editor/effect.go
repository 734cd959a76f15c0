package editor

import (
	"context"
	"strings"

	"vcut/internal/effects"
	"vcut/internal/ffmpeg"
	"vcut/internal/logging"
)

// EffectOptions overrides the configured encoder settings for one effect run.
// Empty fields fall back to the [effect] config section.
type EffectOptions struct {
	Preset     string
	AudioCodec string
	Params     map[string]string
}

// ApplyEffect applies the named catalog operation to source and writes
// <stem>_<op><ext>. Unknown operations and missing parameters are rejected
// before ffmpeg is looked up.
func (e *Editor) ApplyEffect(ctx context.Context, source, operation string, opts EffectOptions) (Result, error) {
	r := e.begin(ctx, OpEffect, source)

	op, err := effects.Lookup(operation)
	if err != nil {
		return e.finish(r, err)
	}
	filter, err := op.Filter(opts.Params)
	if err != nil {
		return e.finish(r, err)
	}
	if err := e.requireFFmpeg(r); err != nil {
		return e.finish(r, err)
	}
	if err := checkSource(OpEffect, source); err != nil {
		return e.finish(r, err)
	}

	r.output = DerivedOutput(source, op.Name)
	release, err := e.lockOutput(r, r.output)
	if err != nil {
		return e.finish(r, err)
	}
	defer release()

	preset := firstNonEmpty(opts.Preset, e.cfg.Effect.Preset)
	audioCodec := firstNonEmpty(opts.AudioCodec, e.cfg.Effect.AudioCodec)
	r.logger.Info("effect started",
		logging.String(logging.FieldEventType, "effect_start"),
		logging.String("effect", op.Name),
		logging.String("filter", filter),
		logging.String("output_file", r.output),
	)

	args := ffmpeg.EffectArgs(source, filter, audioCodec, e.cfg.EffectVideoCodec(), preset, r.output)
	if err := e.invoke(r, StageFilter, 1, 1, args, r.output); err != nil {
		return e.finish(r, err)
	}
	if err := e.verify(r, r.output); err != nil {
		return e.finish(r, err)
	}
	return e.finish(r, nil)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

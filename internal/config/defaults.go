package config

const (
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultVideoCodec        = "h264_nvenc"
	defaultEffectPreset      = "fast"
	defaultEffectAudioCodec  = "aac"
	defaultCutAudioCodec     = "copy"
	defaultSubclipAudioCodec = "copy"
	defaultMergePreset       = "p1"
	defaultMergeAudioCodec   = "aac"
	defaultMergeAudioBitrate = "128k"
	defaultMergeFPS          = 30
	defaultMergeVideoBitrate = "8M"
	defaultWorkDir           = "~/.cache/vcut/work"
	defaultHistoryPath       = "~/.local/share/vcut/history.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VideoCodec:    defaultVideoCodec,
			VerifyOutput:  true,
		},
		Effect: Effect{
			Preset:     defaultEffectPreset,
			AudioCodec: defaultEffectAudioCodec,
		},
		Cut: Cut{
			AudioCodec: defaultCutAudioCodec,
		},
		Subclip: Subclip{
			AudioCodec: defaultSubclipAudioCodec,
		},
		Merge: Merge{
			ConcatOnly:   true,
			Preset:       defaultMergePreset,
			AudioCodec:   defaultMergeAudioCodec,
			AudioBitrate: defaultMergeAudioBitrate,
			FPS:          defaultMergeFPS,
			VideoBitrate: defaultMergeVideoBitrate,
		},
		Paths: Paths{
			WorkDir:     defaultWorkDir,
			HistoryPath: defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

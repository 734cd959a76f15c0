package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeFFmpeg()
	c.normalizeCodecs()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeFFmpeg() {
	if value, ok := os.LookupEnv("VCUT_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.Binary = value
	}
	if value, ok := os.LookupEnv("VCUT_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFprobeBinary = value
	}
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	c.FFmpeg.VideoCodec = strings.TrimSpace(c.FFmpeg.VideoCodec)
	if c.FFmpeg.VideoCodec == "" {
		c.FFmpeg.VideoCodec = defaultVideoCodec
	}
}

func (c *Config) normalizeCodecs() {
	c.Effect.Preset = strings.TrimSpace(c.Effect.Preset)
	c.Effect.AudioCodec = strings.TrimSpace(c.Effect.AudioCodec)
	c.Effect.VideoCodec = strings.TrimSpace(c.Effect.VideoCodec)
	c.Cut.VideoCodec = strings.TrimSpace(c.Cut.VideoCodec)
	c.Cut.AudioCodec = strings.TrimSpace(c.Cut.AudioCodec)
	c.Cut.SegmentAudioCodec = strings.TrimSpace(c.Cut.SegmentAudioCodec)
	c.Subclip.VideoCodec = strings.TrimSpace(c.Subclip.VideoCodec)
	c.Subclip.AudioCodec = strings.TrimSpace(c.Subclip.AudioCodec)
	c.Merge.VideoCodec = strings.TrimSpace(c.Merge.VideoCodec)
	c.Merge.Preset = strings.TrimSpace(c.Merge.Preset)
	c.Merge.AudioCodec = strings.TrimSpace(c.Merge.AudioCodec)
	c.Merge.AudioBitrate = strings.TrimSpace(c.Merge.AudioBitrate)
	c.Merge.VideoBitrate = strings.TrimSpace(c.Merge.VideoBitrate)
	if c.Cut.AudioCodec == "" {
		c.Cut.AudioCodec = defaultCutAudioCodec
	}
	if c.Subclip.AudioCodec == "" {
		c.Subclip.AudioCodec = defaultSubclipAudioCodec
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryPath) == "" {
		c.Paths.HistoryPath = defaultHistoryPath
	}
	if c.Paths.HistoryPath, err = expandPath(c.Paths.HistoryPath); err != nil {
		return fmt.Errorf("paths.history_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

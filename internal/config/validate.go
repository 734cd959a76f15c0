package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEffect(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEffect() error {
	if c.Effect.Preset == "" {
		return errors.New("effect.preset must be set")
	}
	if c.Effect.AudioCodec == "" {
		return errors.New("effect.audio_codec must be set")
	}
	return nil
}

func (c *Config) validateMerge() error {
	if c.Merge.ConcatOnly {
		return nil
	}
	if err := ensureNonEmptyMap(map[string]string{
		"merge.preset":        c.Merge.Preset,
		"merge.audio_codec":   c.Merge.AudioCodec,
		"merge.audio_bitrate": c.Merge.AudioBitrate,
		"merge.video_bitrate": c.Merge.VideoBitrate,
	}); err != nil {
		return err
	}
	if c.Merge.FPS <= 0 {
		return errors.New("merge.fps must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensureNonEmptyMap(values map[string]string) error {
	var missing []string
	for key, value := range values {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%s must be set when merge.concat_only is false", strings.Join(missing, ", "))
}

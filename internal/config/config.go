package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// FFmpeg contains the external tool binaries and shared encoder settings.
type FFmpeg struct {
	Binary        string `toml:"binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	// VideoCodec is used for every re-encode unless a section overrides it.
	VideoCodec string `toml:"video_codec"`
	// Overwrite passes -y to ffmpeg; otherwise -n makes existing outputs fail fast.
	Overwrite bool `toml:"overwrite"`
	// VerifyOutput probes finished outputs with ffprobe when it is available.
	VerifyOutput bool `toml:"verify_output"`
}

// Effect contains defaults for filter application.
type Effect struct {
	Preset     string `toml:"preset"`
	AudioCodec string `toml:"audio_codec"`
	VideoCodec string `toml:"video_codec"`
}

// Cut contains settings for range removal.
type Cut struct {
	VideoCodec string `toml:"video_codec"`
	// AudioCodec applies to the final stitch; segments keep ffmpeg's default
	// unless SegmentAudioCodec is set.
	AudioCodec        string `toml:"audio_codec"`
	SegmentAudioCodec string `toml:"segment_audio_codec"`
}

// Subclip contains settings for sub-clip extraction.
type Subclip struct {
	VideoCodec string `toml:"video_codec"`
	AudioCodec string `toml:"audio_codec"`
}

// Merge contains settings for concatenating independent files.
type Merge struct {
	ConcatOnly   bool   `toml:"concat_only"`
	VideoCodec   string `toml:"video_codec"`
	Preset       string `toml:"preset"`
	AudioCodec   string `toml:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
	FPS          int    `toml:"fps"`
	VideoBitrate string `toml:"video_bitrate"`
}

// Paths contains scratch and ledger locations.
type Paths struct {
	WorkDir     string `toml:"work_dir"`
	HistoryPath string `toml:"history_path"`
	LogDir      string `toml:"log_dir"`
}

// History toggles the run ledger.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vcut.
//
// Configuration sections by subsystem:
//   - FFmpeg: tool binaries, default video codec, overwrite and verification
//   - Effect: filter application preset and codecs
//   - Cut: range removal codecs
//   - Subclip: sub-clip extraction codecs
//   - Merge: concat-only or re-encode merge settings
//   - Paths: scratch directory, history database, optional log directory
//   - History: run ledger toggle
//   - Logging: log format and level
type Config struct {
	FFmpeg  FFmpeg  `toml:"ffmpeg"`
	Effect  Effect  `toml:"effect"`
	Cut     Cut     `toml:"cut"`
	Subclip Subclip `toml:"subclip"`
	Merge   Merge   `toml:"merge"`
	Paths   Paths   `toml:"paths"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vcut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the scratch directory and, when configured, the
// log directory and the history database's parent.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryPath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EffectVideoCodec returns the codec used for filter application.
func (c *Config) EffectVideoCodec() string {
	return firstNonEmpty(c.Effect.VideoCodec, c.FFmpeg.VideoCodec)
}

// CutVideoCodec returns the codec used for cut segments and the final stitch.
func (c *Config) CutVideoCodec() string {
	return firstNonEmpty(c.Cut.VideoCodec, c.FFmpeg.VideoCodec)
}

// SubclipVideoCodec returns the codec used for sub-clip extraction.
func (c *Config) SubclipVideoCodec() string {
	return firstNonEmpty(c.Subclip.VideoCodec, c.FFmpeg.VideoCodec)
}

// MergeVideoCodec returns the codec used for re-encoding merges.
func (c *Config) MergeVideoCodec() string {
	return firstNonEmpty(c.Merge.VideoCodec, c.FFmpeg.VideoCodec)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

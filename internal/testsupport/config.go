// Package testsupport builds throwaway configs, stub tools, and fixtures for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vcut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory. ffprobe points
// at a path that does not exist and output verification is off, so callers
// opt into probing explicitly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.FFmpeg.FFprobeBinary = filepath.Join(base, "bin", "missing-ffprobe")
	cfgVal.FFmpeg.VerifyOutput = false
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.HistoryPath = filepath.Join(base, "state", "history.db")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithFFmpegBinary overrides the ffmpeg path on the test config.
func WithFFmpegBinary(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.FFmpeg.Binary = path
	}
}

// WithHistory enables the run ledger.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithStubbedFFmpeg installs an ffmpeg stand-in that writes a small file to
// its last argument and exits 0, which is enough for every operation to
// produce an output.
func WithStubbedFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		script := "#!/bin/sh\nfor last; do :; done\necho video > \"$last\"\n"
		b.cfg.FFmpeg.Binary = writeStub(b.t, b.baseDir, "ffmpeg", script)
	}
}

// WithStubbedFFprobe installs an ffprobe stand-in that prints report and
// enables output verification.
func WithStubbedFFprobe(report string) ConfigOption {
	return func(b *configBuilder) {
		script := "#!/bin/sh\ncat <<'JSON'\n" + report + "\nJSON\n"
		b.cfg.FFmpeg.FFprobeBinary = writeStub(b.t, b.baseDir, "ffprobe", script)
		b.cfg.FFmpeg.VerifyOutput = true
	}
}

func writeStub(t testing.TB, baseDir, name, script string) string {
	t.Helper()
	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

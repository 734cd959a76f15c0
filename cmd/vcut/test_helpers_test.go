package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vcut/internal/config"
	"vcut/internal/testsupport"
)

type cliTestEnv struct {
	cfg         *config.Config
	baseDir     string
	configPath  string
	workDir     string
	historyPath string
}

// setupCLITestEnv writes a config whose ffmpeg is a stub that creates its
// last argument, so every operation produces an output without encoding.
// Options are applied after the stub is installed.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("VCUT_FFMPEG", "")
	t.Setenv("VCUT_FFPROBE", "")
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStubbedFFmpeg()}, opts...)...)
	base := testsupport.BaseDir(cfg)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(base, "vcut.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:         cfg,
		baseDir:     base,
		configPath:  configPath,
		workDir:     cfg.Paths.WorkDir,
		historyPath: cfg.Paths.HistoryPath,
	}
}

func (e *cliTestEnv) writeSource(t *testing.T, name string) string {
	t.Helper()
	return testsupport.WriteSource(t, e.baseDir, name)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err=%v", path, err)
	}
}

package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vcut/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorSuccessEchoesStderr(t *testing.T) {
	bin := writeScript(t, "echo 'frame=1' >&2\nexit 0\n")
	var echo bytes.Buffer
	if err := NewCommandExecutor(&echo).Run(context.Background(), bin, nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(echo.String(), "frame=1") {
		t.Fatalf("expected echoed stderr, got %q", echo.String())
	}
}

func TestCommandExecutorReportsExitError(t *testing.T) {
	bin := writeScript(t, "i=0\nwhile [ $i -lt 30 ]; do echo \"line $i\" >&2; i=$((i+1)); done\necho 'Invalid argument' >&2\nexit 3\n")

	err := NewCommandExecutor(nil).Run(context.Background(), bin, []string{"-i", "in.mp4"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T", err)
	}
	if exitErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", exitErr.ExitCode)
	}
	if !strings.HasSuffix(err.Error(), "Invalid argument") {
		t.Fatalf("expected last stderr line in message, got %q", err.Error())
	}
	if lines := strings.Count(exitErr.Stderr, "\n") + 1; lines != stderrTailLines {
		t.Fatalf("expected %d tail lines, got %d", stderrTailLines, lines)
	}
	if strings.Contains(exitErr.Stderr, "line 0\n") {
		t.Fatal("expected early lines to be dropped from tail")
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	err := NewCommandExecutor(nil).Run(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Fatal("start failures should not be reported as exit errors")
	}
}

func TestCommandString(t *testing.T) {
	got := CommandString("ffmpeg", []string{"-i", "my clip.mp4", "-vf", "crop=iw*4/3:ih"})
	want := "ffmpeg -i 'my clip.mp4' -vf 'crop=iw*4/3:ih'"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

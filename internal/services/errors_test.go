package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"vcut/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "cut", "stitch", "ffmpeg failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"cut", "stitch", "ffmpeg failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failure") {
		t.Fatalf("expected fallback detail, got %q", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, services.ExitOK},
		{services.Wrap(services.ErrUnsupportedOperation, "effect", "", "sharpen", nil), services.ExitUsage},
		{services.Wrap(services.ErrInvalidInput, "merge", "", "missing file", nil), services.ExitUsage},
		{fmt.Errorf("outer: %w", services.ErrToolMissing), services.ExitToolMissing},
		{services.Wrap(services.ErrExternalTool, "cut", "segment", "", errors.New("exit 1")), services.ExitExternalTool},
		{errors.New("disk full"), services.ExitFailure},
	}
	for _, tt := range tests {
		if got := services.ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

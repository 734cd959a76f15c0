package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrToolMissing          = errors.New("external tool missing")
	ErrExternalTool         = errors.New("external tool error")
	ErrInvalidInput         = errors.New("invalid input")
	ErrOutputBusy           = errors.New("output busy")
	ErrValidation           = errors.New("validation error")
)

// Exit codes returned by the CLI for each error class.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 2
	ExitToolMissing  = 3
	ExitExternalTool = 4
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, stage, message string, err error) error {
	detail := buildDetail(operation, stage, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an operation error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUnsupportedOperation), errors.Is(err, ErrInvalidInput):
		return ExitUsage
	case errors.Is(err, ErrToolMissing):
		return ExitToolMissing
	case errors.Is(err, ErrExternalTool):
		return ExitExternalTool
	default:
		return ExitFailure
	}
}

func buildDetail(operation, stage, message string) string {
	parts := make([]string, 0, 3)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failure"
	}
	return strings.Join(parts, ": ")
}

package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"vcut/internal/services"
)

// stderrTailLines bounds how much ffmpeg chatter is kept for error reports.
const stderrTailLines = 20

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// ExitError reports a subprocess that ran but exited unsuccessfully.
type ExitError struct {
	Binary   string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Binary, e.ExitCode)
	if last := lastLine(e.Stderr); last != "" {
		msg += ": " + last
	}
	return msg
}

// Unwrap lets callers match the error against services.ErrExternalTool.
func (e *ExitError) Unwrap() error {
	return services.ErrExternalTool
}

// CommandString renders the invocation for logs.
func (e *ExitError) CommandString() string {
	return CommandString(e.Binary, e.Args)
}

// CommandExecutor runs binaries with os/exec. Stderr lines are kept in a
// bounded tail and, when Echo is set, copied there as they arrive.
type CommandExecutor struct {
	Echo io.Writer
}

// NewCommandExecutor returns the default executor.
func NewCommandExecutor(echo io.Writer) *CommandExecutor {
	return &CommandExecutor{Echo: echo}
}

func (c *CommandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	tail := newTailBuffer(stderrTailLines)
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLinesOrCR)
	for scanner.Scan() {
		line := scanner.Text()
		tail.add(line)
		if c.Echo != nil {
			fmt.Fprintln(c.Echo, line)
		}
	}
	// Drain so ffmpeg never blocks on a full pipe after a scanner error.
	_, _ = io.Copy(io.Discard, stderr)

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{
				Binary:   binary,
				Args:     append([]string(nil), args...),
				ExitCode: exitErr.ExitCode(),
				Stderr:   tail.String(),
			}
		}
		return fmt.Errorf("wait %s: %w", binary, err)
	}
	return nil
}

// scanLinesOrCR splits on \n or \r so ffmpeg's carriage-return progress
// updates become separate lines.
func scanLinesOrCR(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type tailBuffer struct {
	limit int
	lines []string
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "\n")
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// CommandString renders binary and args as a shell-like string for logs.
func CommandString(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\$`*?[]{}()<>|&;") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

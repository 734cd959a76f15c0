// Package deps reports on the external binaries vcut shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vcut/internal/services"
)

// Requirement defines an external dependency vcut relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// MissingToolError reports a required binary that could not be resolved.
type MissingToolError struct {
	Name    string
	Command string
	Hint    string
}

func (e *MissingToolError) Error() string {
	msg := fmt.Sprintf("%s not found (looked for %q on PATH)", e.Name, e.Command)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// Unwrap lets callers match the error against services.ErrToolMissing.
func (e *MissingToolError) Unwrap() error {
	return services.ErrToolMissing
}

// Require resolves command on PATH and returns its absolute path.
func Require(name, command string) (string, error) {
	cmd := strings.TrimSpace(command)
	if cmd != "" {
		if resolved, err := exec.LookPath(cmd); err == nil {
			return resolved, nil
		}
	}
	return "", &MissingToolError{Name: name, Command: cmd, Hint: installHint(cmd)}
}

func installHint(command string) string {
	switch {
	case command == "":
		return "set the binary in the [ffmpeg] config section"
	case strings.Contains(command, "ffprobe"), strings.Contains(command, "ffmpeg"):
		return "install ffmpeg (e.g. apt install ffmpeg) or set VCUT_FFMPEG / VCUT_FFPROBE"
	default:
		return "install it or adjust the configured path"
	}
}

package history

import "time"

// Status is the terminal state of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded editing operation.
type Run struct {
	ID          string
	Operation   string
	Source      string
	Output      string
	Status      Status
	Error       string
	Invocations int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Elapsed returns the wall time of the run.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

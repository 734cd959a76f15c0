package timerange

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRanges marks cutoff lists that break the ordering assumptions.
var ErrInvalidRanges = errors.New("invalid cutoff ranges")

// Range is a [Start, End) interval. End may be the end-of-video sentinel.
type Range struct {
	Start Timestamp
	End   Timestamp
}

// NewRange parses a start/end pair.
func NewRange(start, end string) (Range, error) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return Range{}, fmt.Errorf("range start: %w", err)
	}
	if s.IsInf() {
		return Range{}, fmt.Errorf("range start: %q is only valid as an end", Inf)
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return Range{}, fmt.Errorf("range end: %w", err)
	}
	r := Range{Start: s, End: e}
	if r.Start.Compare(r.End) > 0 {
		return Range{}, fmt.Errorf("range %s: start is after end", r)
	}
	return r, nil
}

// ParseRange parses "START-END" or "START,END".
func ParseRange(value string) (Range, error) {
	trimmed := strings.TrimSpace(value)
	start, end, ok := strings.Cut(trimmed, ",")
	if !ok {
		start, end, ok = strings.Cut(trimmed, "-")
	}
	if !ok {
		return Range{}, fmt.Errorf("range %q: expected START-END or START,END", value)
	}
	return NewRange(start, end)
}

// ParseRanges parses every value with ParseRange.
func ParseRanges(values []string) ([]Range, error) {
	ranges := make([]Range, 0, len(values))
	for _, value := range values {
		r, err := ParseRange(value)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// String renders the range as "START-END".
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Empty reports whether the range covers no time.
func (r Range) Empty() bool {
	return r.Start.Compare(r.End) >= 0
}

// Invert returns the keep ranges complementary to cutoffs over
// [00:00:00.00, inf). cutoffs must satisfy Validate; the result is undefined
// otherwise. Zero-length keep ranges between touching cutoffs are dropped, and
// a cutoff that runs to the end of the video truncates the output there.
func Invert(cutoffs []Range) []Range {
	if len(cutoffs) == 0 {
		return nil
	}
	keep := make([]Range, 0, len(cutoffs)+1)
	appendKeep := func(r Range) {
		if !r.Empty() {
			keep = append(keep, r)
		}
	}

	if !cutoffs[0].Start.IsZero() {
		appendKeep(Range{Start: Zero, End: cutoffs[0].Start})
	}
	for i, cutoff := range cutoffs {
		if cutoff.End.IsInf() {
			continue
		}
		next := End
		if i < len(cutoffs)-1 {
			next = cutoffs[i+1].Start
		}
		appendKeep(Range{Start: cutoff.End, End: next})
	}
	return keep
}

// Validate checks that cutoffs are non-empty, well formed, sorted by start,
// and non-overlapping. Zero-length cutoffs remove nothing and are rejected.
// Touching ranges (one ends where the next starts) are allowed.
func Validate(cutoffs []Range) error {
	if len(cutoffs) == 0 {
		return fmt.Errorf("%w: at least one range is required", ErrInvalidRanges)
	}
	for i, r := range cutoffs {
		if r.Start.IsInf() {
			return fmt.Errorf("%w: range %d (%s) starts at %q", ErrInvalidRanges, i+1, r, Inf)
		}
		if r.Start.Compare(r.End) > 0 {
			return fmt.Errorf("%w: range %d (%s) starts after it ends", ErrInvalidRanges, i+1, r)
		}
		if r.Empty() {
			return fmt.Errorf("%w: range %d (%s) is empty", ErrInvalidRanges, i+1, r)
		}
		if i == 0 {
			continue
		}
		prev := cutoffs[i-1]
		if r.Start.Compare(prev.Start) < 0 {
			return fmt.Errorf("%w: range %d (%s) starts before range %d (%s)", ErrInvalidRanges, i+1, r, i, prev)
		}
		if prev.End.Compare(r.Start) > 0 {
			return fmt.Errorf("%w: range %d (%s) overlaps range %d (%s)", ErrInvalidRanges, i+1, r, i, prev)
		}
	}
	return nil
}

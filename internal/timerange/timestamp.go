package timerange

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Inf is the textual sentinel for "end of video".
const Inf = "inf"

// maxOffset is the largest position a Timestamp can hold.
const maxOffset = time.Duration(math.MaxInt64)

// Timestamp is a position in a video or the end-of-video sentinel.
type Timestamp struct {
	offset time.Duration
	inf    bool
}

// Zero is the start of the video.
var Zero = Timestamp{}

// End is the end-of-video sentinel.
var End = Timestamp{inf: true}

// At returns a concrete timestamp at the given offset. Negative offsets clamp to zero.
func At(offset time.Duration) Timestamp {
	if offset < 0 {
		offset = 0
	}
	return Timestamp{offset: offset}
}

// ParseTimestamp accepts HH:MM:SS(.fff), MM:SS(.fff), plain seconds, or "inf"
// (case-insensitive).
func ParseTimestamp(value string) (Timestamp, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Timestamp{}, fmt.Errorf("timestamp: empty value")
	}
	if strings.EqualFold(trimmed, Inf) {
		return End, nil
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 3 {
		return Timestamp{}, fmt.Errorf("timestamp %q: expected HH:MM:SS.SS, MM:SS.SS, or seconds", value)
	}

	secs, err := parseSeconds(parts[len(parts)-1])
	if err != nil {
		return Timestamp{}, fmt.Errorf("timestamp %q: %w", value, err)
	}
	if len(parts) > 1 && secs >= time.Minute {
		return Timestamp{}, fmt.Errorf("timestamp %q: seconds out of range", value)
	}

	var hours, minutes int
	switch len(parts) {
	case 3:
		if hours, err = parseField(parts[0]); err != nil {
			return Timestamp{}, fmt.Errorf("timestamp %q: hours: %w", value, err)
		}
		if minutes, err = parseField(parts[1]); err != nil {
			return Timestamp{}, fmt.Errorf("timestamp %q: minutes: %w", value, err)
		}
		if minutes > 59 {
			return Timestamp{}, fmt.Errorf("timestamp %q: minutes out of range", value)
		}
		if int64(hours) > int64(maxOffset/time.Hour) {
			return Timestamp{}, fmt.Errorf("timestamp %q: out of range", value)
		}
	case 2:
		if minutes, err = parseField(parts[0]); err != nil {
			return Timestamp{}, fmt.Errorf("timestamp %q: minutes: %w", value, err)
		}
		if int64(minutes) > int64(maxOffset/time.Minute) {
			return Timestamp{}, fmt.Errorf("timestamp %q: out of range", value)
		}
	}

	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + secs
	if total < 0 {
		return Timestamp{}, fmt.Errorf("timestamp %q: out of range", value)
	}
	return Timestamp{offset: total}, nil
}

// MustParse is ParseTimestamp for literals known to be valid.
func MustParse(value string) Timestamp {
	ts, err := ParseTimestamp(value)
	if err != nil {
		panic(err)
	}
	return ts
}

func parseField(field string) (int, error) {
	if field == "" {
		return 0, fmt.Errorf("empty field")
	}
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid value %q", field)
	}
	return n, nil
}

func parseSeconds(field string) (time.Duration, error) {
	if field == "" {
		return 0, fmt.Errorf("empty seconds field")
	}
	whole, frac, hasFrac := strings.Cut(field, ".")
	if whole == "" {
		whole = "0"
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid seconds %q", field)
	}
	if n > int64(maxOffset/time.Second) {
		return 0, fmt.Errorf("seconds %q out of range", field)
	}
	d := time.Duration(n) * time.Second
	if hasFrac {
		if frac == "" || len(frac) > 9 {
			return 0, fmt.Errorf("invalid fractional seconds %q", field)
		}
		nanos, err := strconv.Atoi(frac + strings.Repeat("0", 9-len(frac)))
		if err != nil || nanos < 0 {
			return 0, fmt.Errorf("invalid fractional seconds %q", field)
		}
		d += time.Duration(nanos)
		if d < 0 {
			return 0, fmt.Errorf("seconds %q out of range", field)
		}
	}
	return d, nil
}

// IsInf reports whether t is the end-of-video sentinel.
func (t Timestamp) IsInf() bool { return t.inf }

// IsZero reports whether t is the start of the video.
func (t Timestamp) IsZero() bool { return !t.inf && t.offset == 0 }

// Offset returns the concrete offset. It is meaningless for the sentinel.
func (t Timestamp) Offset() time.Duration { return t.offset }

// Compare orders timestamps; the sentinel sorts after every concrete value.
func (t Timestamp) Compare(other Timestamp) int {
	switch {
	case t.inf && other.inf:
		return 0
	case t.inf:
		return 1
	case other.inf:
		return -1
	case t.offset < other.offset:
		return -1
	case t.offset > other.offset:
		return 1
	default:
		return 0
	}
}

// Equal reports whether both timestamps denote the same position.
func (t Timestamp) Equal(other Timestamp) bool { return t.Compare(other) == 0 }

// String formats t as HH:MM:SS.SS. Sub-centisecond values keep every
// significant fractional digit so ffmpeg seeks to the parsed position.
func (t Timestamp) String() string {
	if t.inf {
		return Inf
	}
	d := t.offset
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	frac := strings.TrimRight(fmt.Sprintf("%09d", int64(d)), "0")
	if len(frac) < 2 {
		frac += strings.Repeat("0", 2-len(frac))
	}
	return fmt.Sprintf("%02d:%02d:%02d.%s", int64(hours), int64(minutes), int64(seconds), frac)
}

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := ParseTimestamp(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

package timerange

import (
	"errors"
	"strings"
	"testing"
)

func ranges(t *testing.T, pairs ...[2]string) []Range {
	t.Helper()
	out := make([]Range, 0, len(pairs))
	for _, p := range pairs {
		r, err := NewRange(p[0], p[1])
		if err != nil {
			t.Fatalf("NewRange(%q, %q): %v", p[0], p[1], err)
		}
		out = append(out, r)
	}
	return out
}

func render(rs []Range) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, "("+r.Start.String()+","+r.End.String()+")")
	}
	return strings.Join(parts, " ")
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name    string
		cutoffs [][2]string
		want    string
	}{
		{
			name:    "single range in the middle",
			cutoffs: [][2]string{{"00:01:50.00", "00:02:05.00"}},
			want:    "(00:00:00.00,00:01:50.00) (00:02:05.00,inf)",
		},
		{
			name:    "leading cutoff",
			cutoffs: [][2]string{{"00:00:00.00", "00:00:30.00"}},
			want:    "(00:00:30.00,inf)",
		},
		{
			name:    "trailing cutoff to end of video",
			cutoffs: [][2]string{{"00:10:00.00", "inf"}},
			want:    "(00:00:00.00,00:10:00.00)",
		},
		{
			name:    "several cutoffs",
			cutoffs: [][2]string{{"00:00:10.00", "00:00:20.00"}, {"00:00:30.00", "00:00:40.00"}, {"00:01:00.00", "inf"}},
			want:    "(00:00:00.00,00:00:10.00) (00:00:20.00,00:00:30.00) (00:00:40.00,00:01:00.00)",
		},
		{
			name:    "touching cutoffs drop the empty keep range",
			cutoffs: [][2]string{{"00:00:10.00", "00:00:20.00"}, {"00:00:20.00", "00:00:25.00"}},
			want:    "(00:00:00.00,00:00:10.00) (00:00:25.00,inf)",
		},
		{
			name:    "whole video",
			cutoffs: [][2]string{{"00:00:00.00", "inf"}},
			want:    "",
		},
		{
			name:    "zero written without fraction still counts as start",
			cutoffs: [][2]string{{"0", "00:00:05"}},
			want:    "(00:00:05.00,inf)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cutoffs := ranges(t, tt.cutoffs...)
			if err := Validate(cutoffs); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got := render(Invert(cutoffs)); got != tt.want {
				t.Fatalf("Invert = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvertSingleLeadingCutoffYieldsOneKeepRange(t *testing.T) {
	for _, end := range []string{"00:00:00.50", "00:05:00.00", "10:00:00.00"} {
		keep := Invert(ranges(t, [2]string{"00:00:00.00", end}))
		if len(keep) != 1 {
			t.Fatalf("end %s: expected one keep range, got %d", end, len(keep))
		}
		if keep[0].Start.String() != MustParse(end).String() || !keep[0].End.IsInf() {
			t.Fatalf("end %s: got %s", end, keep[0])
		}
	}
}

func TestInvertFirstKeepRangeStartsAtZero(t *testing.T) {
	for _, start := range []string{"00:00:00.01", "00:00:42.00", "01:00:00.00"} {
		keep := Invert(ranges(t, [2]string{start, "inf"}))
		if len(keep) == 0 {
			t.Fatalf("start %s: expected keep ranges", start)
		}
		if !keep[0].Start.IsZero() || !keep[0].End.Equal(MustParse(start)) {
			t.Fatalf("start %s: first keep range %s", start, keep[0])
		}
	}
}

func TestValidateRejectsBadLists(t *testing.T) {
	tests := []struct {
		name    string
		cutoffs []Range
		want    string
	}{
		{"empty", nil, "at least one range"},
		{"unsorted", ranges(t, [2]string{"00:01:00", "00:02:00"}, [2]string{"00:00:10", "00:00:20"}), "starts before"},
		{"overlap", ranges(t, [2]string{"00:00:10", "00:00:30"}, [2]string{"00:00:20", "00:00:40"}), "overlaps"},
		{"inf before end", ranges(t, [2]string{"00:00:10", "inf"}, [2]string{"00:00:20", "00:00:40"}), "overlaps"},
		{"inf start", []Range{{Start: End, End: End}}, "starts at"},
		{"reversed", []Range{{Start: MustParse("00:00:20"), End: MustParse("00:00:10")}}, "starts after it ends"},
		{"zero length", ranges(t, [2]string{"00:00:05", "00:00:10"}, [2]string{"00:00:20", "00:00:20"}), "is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cutoffs)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidRanges) {
				t.Fatalf("expected ErrInvalidRanges, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q missing %q", err, tt.want)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("00:01:50.00-00:02:05.00")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if r.String() != "00:01:50.00-00:02:05.00" {
		t.Fatalf("unexpected range %s", r)
	}

	r, err = ParseRange("00:10:00,inf")
	if err != nil {
		t.Fatalf("ParseRange comma form: %v", err)
	}
	if !r.End.IsInf() {
		t.Fatalf("expected open-ended range, got %s", r)
	}

	for _, bad := range []string{"00:01:00", "inf-00:01:00", "00:02:00-00:01:00", "x-y"} {
		if _, err := ParseRange(bad); err == nil {
			t.Errorf("ParseRange(%q) expected error", bad)
		}
	}
}

func TestParseRanges(t *testing.T) {
	got, err := ParseRanges([]string{"00:00:01-00:00:02", "00:00:03,00:00:04"})
	if err != nil {
		t.Fatalf("ParseRanges: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(got))
	}
	if _, err := ParseRanges([]string{"00:00:01-00:00:02", "bogus"}); err == nil {
		t.Fatal("expected error for bogus entry")
	}
}

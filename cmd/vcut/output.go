package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"vcut/internal/editor"
)

func printResult(out io.Writer, result editor.Result) {
	if result.Skipped {
		fmt.Fprintln(out, "Nothing to do")
		return
	}
	details := make([]string, 0, 3)
	if info, err := os.Stat(result.Output); err == nil {
		details = append(details, humanize.Bytes(uint64(info.Size())))
	}
	if result.Probe != nil {
		if d := result.Probe.Duration(); d > 0 {
			details = append(details, formatClock(d))
		}
	}
	details = append(details, fmt.Sprintf("%d ffmpeg run(s) in %s", result.Invocations, result.Elapsed.Round(100*time.Millisecond)))
	fmt.Fprintf(out, "Wrote %s (%s)\n", result.Output, strings.Join(details, ", "))
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", int64(h), int64(m), int64(d/time.Second))
}

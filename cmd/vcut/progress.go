package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"vcut/internal/editor"
)

// progressReporter draws one bar per operation on a terminal.
type progressReporter struct {
	out       io.Writer
	bar       *progressbar.ProgressBar
	operation string
}

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{out: out}
}

func (p *progressReporter) update(update editor.Progress) {
	if p.bar == nil || p.operation != update.Operation {
		p.operation = update.Operation
		p.bar = progressbar.NewOptions(update.Total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription(update.Operation),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
	}
	p.bar.Describe(fmt.Sprintf("%s: %s %d/%d", update.Operation, update.Stage, update.Index, update.Total))
	_ = p.bar.Set(update.Index)
	if update.Index >= update.Total {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

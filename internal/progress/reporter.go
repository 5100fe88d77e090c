// Package progress provides progress feedback for long corpus scans.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while walking the card corpus.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter for interactive use, or a
// QuietReporter when running under CI.
func NewReporter(description string) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &QuietReporter{description: description}
	}
	return &TerminalReporter{description: description}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	description string
	bar         *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(r.description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		if message != "" {
			r.bar.Describe(message)
		}
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// QuietReporter prints line-by-line progress suitable for CI logs.
type QuietReporter struct {
	description string
	total       int
}

func (r *QuietReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(os.Stderr, "%s: %d cards\n", r.description, total)
}

func (r *QuietReporter) Update(current int, message string) {
	if current%50 == 0 {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, r.total, message)
	}
}

func (r *QuietReporter) Finish() {
	fmt.Fprintf(os.Stderr, "%s: done\n", r.description)
}

package output

import (
	"fmt"
	"io"
	"time"

	"shortlog/internal/highlight"
)

// TextPrinter writes one line per outcome as the run progresses.
// Diagnostics for a missing file go to errOut.
type TextPrinter struct {
	out       io.Writer
	errOut    io.Writer
	formatter *Formatter
}

func NewTextPrinter(out, errOut io.Writer, formatter *Formatter) *TextPrinter {
	return &TextPrinter{
		out:       out,
		errOut:    errOut,
		formatter: formatter,
	}
}

func (p *TextPrinter) MissingLog(directory string, date time.Time) {
	fmt.Fprintln(p.errOut, p.formatter.FormatMissing(directory, date))
}

func (p *TextPrinter) Submitted(res highlight.Result) {
	fmt.Fprintln(p.out, p.formatter.FormatSubmitted(res))
}

func (p *TextPrinter) Failed(res highlight.Result, err error) {
	fmt.Fprintln(p.out, p.formatter.FormatFailed(res, err))
}

func (p *TextPrinter) Planned(res highlight.Result) {
	fmt.Fprintln(p.out, p.formatter.FormatPlanned(res))
}

// QuietPrinter only reports the missing-file diagnostic. It is used when the full report is
// rendered at the end of the run instead of line by line.
type QuietPrinter struct {
	errOut    io.Writer
	formatter *Formatter
}

func NewQuietPrinter(errOut io.Writer, formatter *Formatter) *QuietPrinter {
	return &QuietPrinter{errOut: errOut, formatter: formatter}
}

func (p *QuietPrinter) MissingLog(directory string, date time.Time) {
	fmt.Fprintln(p.errOut, p.formatter.FormatMissing(directory, date))
}

func (p *QuietPrinter) Submitted(highlight.Result) {}

func (p *QuietPrinter) Failed(highlight.Result, error) {}

func (p *QuietPrinter) Planned(highlight.Result) {}

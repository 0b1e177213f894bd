package shortlog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shortlog/internal/highlight"
)

const (
	// Separator splits a line into its timestamp and description.
	Separator = " | "

	// TimestampLayout is the expected timestamp format, YYYY-MM-DD HH:MM:SS.
	TimestampLayout = "2006-01-02 15:04:05"
)

// ErrMalformedLine is matched by every FormatError.
var ErrMalformedLine = errors.New("malformed shortlog line")

// FormatError describes a line that could not be parsed.
type FormatError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrMalformedLine
}

// ParseLine parses one "YYYY-MM-DD HH:MM:SS | description" line.
// n is the 1-based line position recorded on the highlight.
func ParseLine(n int, line string) (highlight.Highlight, error) {
	fields := strings.Split(line, Separator)
	if len(fields) != 2 {
		reason := "missing separator"
		if len(fields) > 2 {
			reason = fmt.Sprintf("expected one separator, found %d", len(fields)-1)
		}
		return highlight.Highlight{}, &FormatError{Line: n, Text: line, Reason: reason}
	}

	// time.Parse tolerates fractional seconds and single-digit hours the layout does not name.
	if len(fields[0]) != len(TimestampLayout) {
		return highlight.Highlight{}, &FormatError{Line: n, Text: line, Reason: "invalid timestamp"}
	}

	date, err := time.ParseInLocation(TimestampLayout, fields[0], time.Local)
	if err != nil {
		return highlight.Highlight{}, &FormatError{Line: n, Text: line, Reason: "invalid timestamp", Err: err}
	}

	return highlight.Highlight{
		Date:        date,
		Description: highlight.NewShortDescription(fields[1]),
		Line:        n,
	}, nil
}

// ParseLines parses every line in order. The first malformed line aborts parsing.
func ParseLines(lines []string) ([]highlight.Highlight, error) {
	highlights := make([]highlight.Highlight, 0, len(lines))
	for i, line := range lines {
		h, err := ParseLine(i+1, line)
		if err != nil {
			return nil, err
		}
		highlights = append(highlights, h)
	}
	return highlights, nil
}

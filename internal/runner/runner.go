// Package runner forwards one day of shortlog entries to the highlights API.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"shortlog/internal/highlight"
	"shortlog/internal/rescuetime"
	"shortlog/internal/shortlog"
)

// Submitter sends a single highlight.
type Submitter interface {
	Submit(ctx context.Context, h highlight.Highlight, apiKey string) (*highlight.APIResponse, error)
}

// Printer reports outcomes as they happen.
type Printer interface {
	MissingLog(directory string, date time.Time)
	Submitted(res highlight.Result)
	Failed(res highlight.Result, err error)
	Planned(res highlight.Result)
}

// Options tune a Runner. Zero values are usable.
type Options struct {
	// DryRun parses the file and reports planned highlights without submitting them.
	DryRun  bool
	Reader  *shortlog.Reader
	Printer Printer
	Logger  logrus.FieldLogger
}

// Runner drives read, parse and submit for a single day.
type Runner struct {
	submitter Submitter
	reader    *shortlog.Reader
	printer   Printer
	log       logrus.FieldLogger
	dryRun    bool
}

// New creates a Runner submitting through submitter.
func New(submitter Submitter, opts Options) (*Runner, error) {
	r := &Runner{
		submitter: submitter,
		reader:    opts.Reader,
		printer:   opts.Printer,
		log:       opts.Logger,
		dryRun:    opts.DryRun,
	}

	if r.reader == nil {
		reader, err := shortlog.NewReader(shortlog.DefaultPattern)
		if err != nil {
			return nil, err
		}
		r.reader = reader
	}
	if r.printer == nil {
		r.printer = nopPrinter{}
	}
	if r.log == nil {
		r.log = logrus.StandardLogger()
	}
	if r.submitter == nil && !r.dryRun {
		return nil, errors.New("runner needs a submitter unless running dry")
	}

	return r, nil
}

// Run reads the shortlog file for date in directory and submits every entry in file order.
//
// A missing file is reported through the Printer and is not an error. A malformed line aborts
// the run before anything is submitted. HTTP errors are reported per highlight and the run
// continues; any other submission error stops the run and is returned with the partial report.
func (r *Runner) Run(ctx context.Context, apiKey, directory string, date time.Time) (*highlight.Report, error) {
	report := &highlight.Report{
		Date:      date,
		Directory: directory,
		File:      r.reader.Path(directory, date),
	}
	log := r.log.WithField("file", report.File)

	lines, err := r.reader.ReadLines(directory, date)
	if err != nil {
		if errors.Is(err, shortlog.ErrNotFound) {
			log.Debug("no shortlog file for date")
			report.Missing = true
			r.printer.MissingLog(directory, date)
			return report, nil
		}
		return report, err
	}
	log.WithField("lines", len(lines)).Debug("read shortlog file")

	highlights, err := shortlog.ParseLines(lines)
	if err != nil {
		return report, fmt.Errorf("failed to parse %s: %w", report.File, err)
	}

	for _, h := range highlights {
		hlog := log.WithFields(logrus.Fields{
			"line": h.Line,
			"date": h.Day(),
		})
		if h.Description.Truncated() {
			hlog.Warnf("description truncated to %d characters", highlight.MaxDescriptionLength)
		}

		if r.dryRun {
			res := highlight.Result{Highlight: h, Status: highlight.StatusPlanned}
			report.Results = append(report.Results, res)
			r.printer.Planned(res)
			continue
		}

		resp, err := r.submitter.Submit(ctx, h, apiKey)
		if err != nil {
			var httpErr *rescuetime.HTTPError
			if !errors.As(err, &httpErr) {
				return report, fmt.Errorf("failed to submit highlight on line %d: %w", h.Line, err)
			}

			hlog.WithError(err).Debug("highlight rejected")
			res := highlight.Result{Highlight: h, Status: highlight.StatusFailed, Error: err.Error()}
			report.Results = append(report.Results, res)
			r.printer.Failed(res, err)
			continue
		}

		hlog.Debug("highlight submitted")
		res := highlight.Result{Highlight: h, Status: highlight.StatusSubmitted, Message: resp.Message}
		report.Results = append(report.Results, res)
		r.printer.Submitted(res)
	}

	return report, nil
}

type nopPrinter struct{}

func (nopPrinter) MissingLog(string, time.Time) {}
func (nopPrinter) Submitted(highlight.Result) {}
func (nopPrinter) Failed(highlight.Result, error) {}
func (nopPrinter) Planned(highlight.Result) {}

package runner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlog/internal/highlight"
	"shortlog/internal/rescuetime"
	"shortlog/internal/shortlog"
)

var testDate = time.Date(2023, 5, 1, 0, 0, 0, 0, time.Local)

type fakeSubmitter struct {
	calls []highlight.Highlight
	keys  []string
	errs  map[int]error // keyed by call index
}

func (f *fakeSubmitter) Submit(ctx context.Context, h highlight.Highlight, apiKey string) (*highlight.APIResponse, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, h)
	f.keys = append(f.keys, apiKey)
	if err, ok := f.errs[idx]; ok {
		return nil, err
	}
	return &highlight.APIResponse{Message: fmt.Sprintf("saved #%d", idx+1)}, nil
}

type recordingPrinter struct {
	missing   []string
	submitted []highlight.Result
	failed    []highlight.Result
	planned   []highlight.Result
}

func (p *recordingPrinter) MissingLog(directory string, date time.Time) {
	p.missing = append(p.missing, directory+"@"+date.Format("2006-01-02"))
}

func (p *recordingPrinter) Submitted(res highlight.Result) { p.submitted = append(p.submitted, res) }

func (p *recordingPrinter) Failed(res highlight.Result, err error) { p.failed = append(p.failed, res) }

func (p *recordingPrinter) Planned(res highlight.Result) { p.planned = append(p.planned, res) }

func writeShortlog(t *testing.T, dir string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	path := filepath.Join(dir, "shortlog-2023-05-01.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func quietLogger() *logrus.Logger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

func TestRun_SubmitsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir,
		"2023-05-01 09:00:00 | Wrote design doc",
		"",
		"2023-05-01 13:00:00 | Reviewed PR",
	)

	sub := &fakeSubmitter{}
	printer := &recordingPrinter{}
	r, err := New(sub, Options{Printer: printer, Logger: quietLogger()})
	require.NoError(t, err)

	report, err := r.Run(context.Background(), "secret", dir, testDate)
	require.NoError(t, err)

	require.Len(t, sub.calls, 2)
	assert.Equal(t, "Wrote design doc", sub.calls[0].Description.String())
	assert.Equal(t, time.Date(2023, 5, 1, 9, 0, 0, 0, time.Local), sub.calls[0].Date)
	assert.Equal(t, "Reviewed PR", sub.calls[1].Description.String())
	assert.Equal(t, []string{"secret", "secret"}, sub.keys)

	require.Len(t, printer.submitted, 2)
	assert.Equal(t, "saved #1", printer.submitted[0].Message)
	assert.Equal(t, 2, report.Submitted())
	assert.False(t, report.Missing)
	assert.Equal(t, filepath.Join(dir, "shortlog-2023-05-01.txt"), report.File)
}

func TestRun_MissingFile(t *testing.T) {
	dir := t.TempDir()
	sub := &fakeSubmitter{}
	printer := &recordingPrinter{}
	r, err := New(sub, Options{Printer: printer, Logger: quietLogger()})
	require.NoError(t, err)

	report, err := r.Run(context.Background(), "secret", dir, testDate)
	require.NoError(t, err)

	assert.True(t, report.Missing)
	assert.Empty(t, sub.calls)
	assert.Equal(t, []string{dir + "@2023-05-01"}, printer.missing)
}

func TestRun_MalformedLineAbortsBeforeSubmitting(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir,
		"2023-05-01 09:00:00 | fine",
		"not a highlight",
	)

	sub := &fakeSubmitter{}
	r, err := New(sub, Options{Logger: quietLogger()})
	require.NoError(t, err)

	_, err = r.Run(context.Background(), "secret", dir, testDate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shortlog.ErrMalformedLine))
	assert.Empty(t, sub.calls)
}

func TestRun_HTTPErrorIsIsolated(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir,
		"2023-05-01 09:00:00 | first",
		"2023-05-01 10:00:00 | second",
		"2023-05-01 11:00:00 | third",
	)

	sub := &fakeSubmitter{errs: map[int]error{
		1: &rescuetime.HTTPError{StatusCode: 500, Status: "500 Internal Server Error"},
	}}
	printer := &recordingPrinter{}
	r, err := New(sub, Options{Printer: printer, Logger: quietLogger()})
	require.NoError(t, err)

	report, err := r.Run(context.Background(), "secret", dir, testDate)
	require.NoError(t, err)

	assert.Len(t, sub.calls, 3)
	require.Len(t, printer.failed, 1)
	assert.Equal(t, "second", printer.failed[0].Highlight.Description.String())
	assert.Len(t, printer.submitted, 2)
	assert.Equal(t, 2, report.Submitted())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, highlight.StatusFailed, report.Results[1].Status)
	assert.Contains(t, report.Results[1].Error, "500")
}

func TestRun_OtherSubmitErrorsAbort(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir,
		"2023-05-01 09:00:00 | first",
		"2023-05-01 10:00:00 | second",
		"2023-05-01 11:00:00 | third",
	)

	responseErr := &rescuetime.ResponseError{Err: errors.New("bad json")}
	sub := &fakeSubmitter{errs: map[int]error{1: responseErr}}
	r, err := New(sub, Options{Logger: quietLogger()})
	require.NoError(t, err)

	report, err := r.Run(context.Background(), "secret", dir, testDate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rescuetime.ErrMalformedResponse))
	assert.Len(t, sub.calls, 2)
	require.NotNil(t, report)
	assert.Len(t, report.Results, 1)
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir,
		"2023-05-01 09:00:00 | first",
		"2023-05-01 10:00:00 | second",
	)

	printer := &recordingPrinter{}
	r, err := New(nil, Options{DryRun: true, Printer: printer, Logger: quietLogger()})
	require.NoError(t, err)

	report, err := r.Run(context.Background(), "", dir, testDate)
	require.NoError(t, err)
	assert.Len(t, printer.planned, 2)
	assert.Equal(t, 0, report.Submitted())
	assert.Equal(t, highlight.StatusPlanned, report.Results[0].Status)
}

func TestNew_RequiresSubmitter(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestRun_WarnsOnTruncation(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir, "2023-05-01 09:00:00 | "+strings.Repeat("a", 300))

	logger, hook := logtest.NewNullLogger()
	sub := &fakeSubmitter{}
	r, err := New(sub, Options{Logger: logger})
	require.NoError(t, err)

	_, err = r.Run(context.Background(), "secret", dir, testDate)
	require.NoError(t, err)

	require.Len(t, sub.calls, 1)
	assert.Equal(t, highlight.MaxDescriptionLength, sub.calls[0].Description.Len())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["line"])
}

// An HTTP 500 from the real client is reported and the next highlight is still submitted.
func TestRun_ServerErrorThenSuccess(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir,
		"2023-05-01 09:00:00 | fails",
		"2023-05-01 10:00:00 | succeeds",
	)

	var descriptions []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		description := r.URL.Query().Get("description")
		descriptions = append(descriptions, description)
		if description == "fails" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"message": "Highlight saved"}`)
	}))
	defer server.Close()

	printer := &recordingPrinter{}
	r, err := New(rescuetime.NewClient(rescuetime.Config{URL: server.URL}), Options{Printer: printer, Logger: quietLogger()})
	require.NoError(t, err)

	report, err := r.Run(context.Background(), "secret", dir, testDate)
	require.NoError(t, err)

	assert.Equal(t, []string{"fails", "succeeds"}, descriptions)
	require.Len(t, printer.failed, 1)
	require.Len(t, printer.submitted, 1)
	assert.Equal(t, "Highlight saved", printer.submitted[0].Message)
	assert.Equal(t, 1, report.Failed())
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"shortlog/internal/config"
	"shortlog/internal/credential"
	"shortlog/internal/highlight"
	"shortlog/internal/output"
	"shortlog/internal/rescuetime"
	"shortlog/internal/runner"
	"shortlog/internal/shortlog"
	"shortlog/internal/tui"
)

func PostCmd() *cobra.Command {
	var date string
	var outputFormat string
	var dryRun bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "post [username] [directory]",
		Short: "Submit a day of shortlog entries as RescueTime highlights",
		Long: "Read shortlog-YYYY-MM-DD.txt from the directory and post every line to the RescueTime highlights API.\n\n" +
			"The username selects the API key in the OS keyring (unless SHORTLOG_API_KEY is set). " +
			"Username and directory default to the values in the config file.",
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "text" && outputFormat != "json" && outputFormat != "markdown" && outputFormat != "tui" {
				return fmt.Errorf("invalid output format: %s (must be 'text', 'json', 'markdown', or 'tui')", outputFormat)
			}

			targetDate, err := parseDate(date)
			if err != nil {
				return fmt.Errorf("invalid date format: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := newLogger(cmd.ErrOrStderr(), verbose)

			username, directory, err := resolveTarget(cfg, args)
			if err != nil {
				return err
			}

			var apiKey string
			if !dryRun {
				apiKey, err = credential.NewResolver(newStore(), cfg.KeyringService).Resolve(username)
				if err != nil {
					return err
				}
			}

			reader, err := shortlog.NewReader(cfg.FilePattern)
			if err != nil {
				return err
			}

			clientConfig, err := cfg.ClientConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			formatter := output.NewFormatter(outputFormat != "json" && isTerminal(out))

			var printer runner.Printer = output.NewQuietPrinter(cmd.ErrOrStderr(), formatter)
			if outputFormat == "text" {
				printer = output.NewTextPrinter(out, cmd.ErrOrStderr(), formatter)
			}

			r, err := runner.New(rescuetime.NewClient(clientConfig), runner.Options{
				DryRun:  dryRun,
				Reader:  reader,
				Printer: printer,
				Logger:  log,
			})
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"date":      targetDate.Format(highlight.DateLayout),
				"directory": directory,
				"dry_run":   dryRun,
			}).Debug("forwarding shortlog")

			report, err := r.Run(cmd.Context(), apiKey, directory, targetDate)
			if err != nil {
				// Highlights accepted before the failure must still be reported.
				if report != nil && len(report.Results) > 0 && outputFormat != "text" {
					format := outputFormat
					if format == "tui" {
						format = "text"
					}
					renderReport(cmd, format, formatter, report, log)
				}
				return err
			}

			if outputFormat == "text" {
				if verbose && !report.Missing {
					fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatSummary(report))
				}
				return nil
			}

			renderReport(cmd, outputFormat, formatter, report, log)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "yesterday", "Date to submit (yesterday, today, or YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: 'text', 'json', 'markdown', or 'tui'")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Parse the file and show what would be submitted")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	return cmd
}

// renderReport writes a finished report in one of the non-streaming formats.
// The text format replays the per-line outcomes.
func renderReport(cmd *cobra.Command, format string, formatter *output.Formatter, report *highlight.Report, log logrus.FieldLogger) {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		fmt.Fprint(out, formatter.FormatJSON(report))
	case "markdown":
		fmt.Fprint(out, formatter.RenderMarkdown(formatter.FormatMarkdown(report), 0))
	case "tui":
		if report.Missing {
			return
		}
		if err := tui.Run(report); err != nil {
			if !errors.Is(err, tui.ErrNotTerminal) {
				log.WithError(err).Warn("TUI failed, falling back to text output")
			}
			printReport(output.NewTextPrinter(out, cmd.ErrOrStderr(), formatter), report)
		}
	case "text":
		printReport(output.NewTextPrinter(out, cmd.ErrOrStderr(), formatter), report)
	}
}

// parseDate accepts today, yesterday or YYYY-MM-DD and returns local midnight of that day.
func parseDate(dateStr string) (time.Time, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	switch dateStr {
	case "today":
		return midnight, nil
	case "yesterday":
		return midnight.AddDate(0, 0, -1), nil
	default:
		return time.ParseInLocation(highlight.DateLayout, dateStr, time.Local)
	}
}

// resolveTarget picks username and directory from the arguments, falling back to the config.
// A single argument is the username.
func resolveTarget(cfg *config.Config, args []string) (username, directory string, err error) {
	username = cfg.Username
	directory, err = cfg.ShortlogDirectory()
	if err != nil {
		return "", "", err
	}

	if len(args) > 0 {
		username = args[0]
	}
	if len(args) > 1 {
		directory, err = config.ExpandHome(args[1])
		if err != nil {
			return "", "", err
		}
	}

	if directory == "" {
		return "", "", errors.New("no shortlog directory given and none configured")
	}

	return username, directory, nil
}

func printReport(printer runner.Printer, report *highlight.Report) {
	for _, res := range report.Results {
		switch res.Status {
		case highlight.StatusSubmitted:
			printer.Submitted(res)
		case highlight.StatusFailed:
			printer.Failed(res, errors.New(res.Error))
		case highlight.StatusPlanned:
			printer.Planned(res)
		}
	}
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && output.IsTerminal(f)
}

// newStore is replaced in tests.
var newStore = func() credential.Store {
	return credential.Keyring{}
}

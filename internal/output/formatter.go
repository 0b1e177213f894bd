package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/mattn/go-isatty"

	"shortlog/internal/highlight"
)

type Formatter struct {
	// plain disables all styling so piped output stays byte-for-byte stable
	plain bool

	titleStyle       lipgloss.Style
	headerStyle      lipgloss.Style
	messageStyle     lipgloss.Style
	descriptionStyle lipgloss.Style
	warningStyle     lipgloss.Style
	errorStyle       lipgloss.Style
	timeStyle        lipgloss.Style
	borderStyle      lipgloss.Style
}

// IsDarkMode detects if the terminal is using a dark theme
func IsDarkMode() bool {
	if theme := os.Getenv("THEME"); theme == "dark" {
		return true
	}
	if theme := os.Getenv("TERMINAL_THEME"); theme == "dark" {
		return true
	}

	// COLORFGBG is usually "foreground;background"
	if colorScheme := os.Getenv("COLORFGBG"); colorScheme != "" {
		parts := strings.Split(colorScheme, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			return bg == "0" || bg == "1" || bg == "8"
		}
	}

	return false
}

// Flavor returns the Catppuccin palette matching the terminal theme.
func Flavor() catppuccin.Flavor {
	if IsDarkMode() {
		return catppuccin.Mocha
	}
	return catppuccin.Latte
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewFormatter returns a Formatter. With styled false every Format method returns plain text.
func NewFormatter(styled bool) *Formatter {
	flavor := Flavor()

	return &Formatter{
		plain: !styled,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(flavor.Mauve().Hex)),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(flavor.Blue().Hex)),
		messageStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(flavor.Green().Hex)),
		descriptionStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(flavor.Subtext0().Hex)).
			Italic(true),
		warningStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(flavor.Peach().Hex)),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(flavor.Red().Hex)),
		timeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(flavor.Subtext1().Hex)).
			Bold(true),
		borderStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(flavor.Surface2().Hex)),
	}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.plain {
		return s
	}
	return style.Render(s)
}

// FormatSubmitted renders "<message> (<description>)".
func (f *Formatter) FormatSubmitted(res highlight.Result) string {
	return fmt.Sprintf("%s (%s)",
		f.render(f.messageStyle, res.Message),
		f.render(f.descriptionStyle, res.Highlight.Description.String()))
}

// FormatFailed renders the warning for a rejected highlight followed by the error on its own line.
func (f *Formatter) FormatFailed(res highlight.Result, err error) string {
	return fmt.Sprintf("%s %s\n%s",
		f.render(f.warningStyle, "Encountered HTTPError for highlight"),
		res.Highlight,
		f.render(f.errorStyle, err.Error()))
}

// FormatPlanned renders a highlight that a dry run would submit.
func (f *Formatter) FormatPlanned(res highlight.Result) string {
	return fmt.Sprintf("%s %s (%s)",
		f.render(f.headerStyle, "Would submit"),
		f.render(f.timeStyle, res.Highlight.Day()),
		f.render(f.descriptionStyle, res.Highlight.Description.String()))
}

// FormatMissing renders the diagnostic for a missing shortlog file.
func (f *Formatter) FormatMissing(directory string, date time.Time) string {
	return f.render(f.warningStyle,
		fmt.Sprintf("Could not find shortlog file for %s in %s", date.Format(highlight.DateLayout), directory))
}

// FormatSummary renders the counts of a finished report.
func (f *Formatter) FormatSummary(report *highlight.Report) string {
	if report.Missing {
		return f.FormatMissing(report.Directory, report.Date)
	}

	var output strings.Builder

	title := fmt.Sprintf("Highlights for %s", report.Date.Format("January 2, 2006"))
	output.WriteString(f.render(f.titleStyle, title))
	output.WriteString("\n")
	output.WriteString(f.render(f.borderStyle, strings.Repeat("─", 40)))
	output.WriteString("\n")

	planned := len(report.Results) - report.Submitted() - report.Failed()
	stats := fmt.Sprintf("%d submitted, %d failed", report.Submitted(), report.Failed())
	if planned > 0 {
		stats += fmt.Sprintf(", %d planned", planned)
	}
	output.WriteString(f.render(f.headerStyle, stats))
	output.WriteString("\n")

	return output.String()
}

func (f *Formatter) FormatJSON(report *highlight.Report) string {
	jsonOutput := struct {
		Date      string             `json:"date"`
		File      string             `json:"file"`
		Missing   bool               `json:"missing"`
		Results   []highlight.Result `json:"results"`
		Submitted int                `json:"submitted"`
		Failed    int                `json:"failed"`
	}{
		Date:      report.Date.Format(highlight.DateLayout),
		File:      report.File,
		Missing:   report.Missing,
		Results:   report.Results,
		Submitted: report.Submitted(),
		Failed:    report.Failed(),
	}
	if jsonOutput.Results == nil {
		jsonOutput.Results = []highlight.Result{}
	}

	jsonBytes, err := json.MarshalIndent(jsonOutput, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "Failed to marshal JSON: %s"}`, err.Error())
	}

	return string(jsonBytes) + "\n"
}

// FormatMarkdown renders the report as a markdown document.
func (f *Formatter) FormatMarkdown(report *highlight.Report) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# Highlights for %s\n\n", report.Date.Format("January 2, 2006")))

	if report.Missing {
		md.WriteString(fmt.Sprintf("No shortlog file found at `%s`.\n", report.File))
		return md.String()
	}

	md.WriteString(fmt.Sprintf("Source: `%s`\n\n", report.File))

	if len(report.Results) == 0 {
		md.WriteString("No highlights in this file.\n")
		return md.String()
	}

	md.WriteString("| Time | Status | Description | Response |\n")
	md.WriteString("|------|--------|-------------|----------|\n")
	for _, res := range report.Results {
		response := res.Message
		if res.Error != "" {
			response = res.Error
		}
		md.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			res.Highlight.Date.Format("15:04"),
			statusIcon(res.Status)+" "+string(res.Status),
			escapeCell(res.Highlight.Description.String()),
			escapeCell(response)))
	}

	md.WriteString(fmt.Sprintf("\n**%d submitted, %d failed**\n", report.Submitted(), report.Failed()))
	return md.String()
}

// RenderMarkdown renders markdown for the terminal with glamour, falling back to the source text.
func (f *Formatter) RenderMarkdown(md string, width int) string {
	if f.plain {
		return md
	}

	theme := "light"
	if IsDarkMode() {
		theme = "dark"
	}

	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(theme), glamour.WithEmoji()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}

func statusIcon(status highlight.Status) string {
	icons := map[highlight.Status]string{
		highlight.StatusSubmitted: "✅",
		highlight.StatusFailed:    "❌",
		highlight.StatusPlanned:   "📝",
	}

	if icon, exists := icons[status]; exists {
		return icon
	}
	return "📌"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

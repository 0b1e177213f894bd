// Package tui shows a finished highlights report in an interactive two-panel browser.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"

	"shortlog/internal/highlight"
	"shortlog/internal/output"
)

// ErrNotTerminal is returned when stdout cannot host the TUI.
var ErrNotTerminal = errors.New("terminal does not support TUI")

const helpText = "↑/↓ j/k: Navigate • g/G: First/Last • q: Quit"

type viewportState struct {
	offset int
	height int
}

type reportModel struct {
	report       *highlight.Report
	results      []highlight.Result
	cursor       int
	viewport     viewportState
	windowWidth  int
	windowHeight int
	glamourStyle *glamour.TermRenderer
}

func newReportModel(report *highlight.Report, renderer *glamour.TermRenderer) reportModel {
	return reportModel{
		report:       report,
		results:      report.Results,
		glamourStyle: renderer,
		viewport:     viewportState{height: 20}, // updated on the first WindowSizeMsg
	}
}

func (m reportModel) Init() tea.Cmd {
	return nil
}

func (m reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(0, len(m.results)-1)
		}
		m.viewport.offset = UpdateViewport(m.cursor, m.viewport.offset, m.listHeight(), len(m.results))

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.viewport.height = msg.Height - 4 // header
		m.viewport.offset = UpdateViewport(m.cursor, m.viewport.offset, m.listHeight(), len(m.results))
	}

	return m, nil
}

// listHeight is the number of result rows that fit in the left panel.
func (m reportModel) listHeight() int {
	return max(1, m.viewport.height-4) // help text and padding
}

func (m reportModel) title() string {
	return fmt.Sprintf("Highlights for %s · %d submitted, %d failed",
		m.report.Date.Format("January 2, 2006"), m.report.Submitted(), m.report.Failed())
}

func (m reportModel) View() string {
	if !IsTerminalSizeAdequate(m.windowWidth, m.windowHeight) {
		return renderTerminalTooSmallMessage(m.windowWidth, m.windowHeight)
	}

	if m.report.Missing {
		return renderHeader(fmt.Sprintf("No shortlog file at %s", m.report.File), m.windowWidth) +
			"\n\nPress q to quit"
	}

	if len(m.results) == 0 {
		return renderHeader("No highlights found for this date.", m.windowWidth) +
			"\n\nPress q to quit"
	}

	dimensions := CalculatePanelDimensions(m.windowWidth)
	if dimensions.UseSingle {
		return m.renderSinglePanelView()
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		renderHeader(m.title(), m.windowWidth),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderLeftPanel(dimensions.LeftWidth),
			m.renderRightPanel(dimensions.RightWidth)),
	)
}

func (m reportModel) resultLine(res highlight.Result, width int) string {
	prefix := fmt.Sprintf("%s %s ", res.Highlight.Date.Format("15:04"), statusIcon(res.Status))
	return prefix + TruncateText(res.Highlight.Description.String(), max(5, width-lipgloss.Width(prefix)-2))
}

func (m reportModel) renderLeftPanel(width int) string {
	panel := createBorderedPanel(width, m.viewport.height)
	inner := max(20, width) - 4

	var content strings.Builder
	content.WriteString(renderHelpText(helpText, inner))
	content.WriteString("\n\n")

	end := min(len(m.results), m.viewport.offset+m.listHeight())
	for i := m.viewport.offset; i < end; i++ {
		content.WriteString(applySelectionStyle(m.resultLine(m.results[i], inner), i == m.cursor, inner))
		content.WriteString("\n")
	}

	if len(m.results) > m.listHeight() {
		content.WriteString("\n")
		content.WriteString(renderScrollIndicator(m.cursor+1, len(m.results), inner))
	}

	return panel.Render(content.String())
}

func (m reportModel) renderRightPanel(width int) string {
	panel := createBorderedPanel(width, m.viewport.height)

	if m.cursor >= len(m.results) {
		return panel.Render("Select a highlight to view details")
	}

	markdown := createMarkdownContent(m.results[m.cursor])

	rendered := markdown
	if m.glamourStyle != nil {
		if out, err := m.glamourStyle.Render(markdown); err == nil {
			rendered = out
		}
	}

	return panel.Render(lipgloss.NewStyle().Width(max(10, max(30, width)-4)).Render(rendered))
}

// renderSinglePanelView renders a simplified single-panel view for narrow terminals
func (m reportModel) renderSinglePanelView() string {
	var content strings.Builder

	content.WriteString(renderHeader(m.title(), m.windowWidth))
	content.WriteString("\n")
	content.WriteString(renderHelpText(helpText, m.windowWidth))
	content.WriteString("\n\n")

	available := max(1, m.windowHeight-8)
	start := max(0, m.cursor-available/2)
	end := min(len(m.results), start+available)
	if end == len(m.results) && end-start < available {
		start = max(0, end-available)
	}

	for i := start; i < end; i++ {
		content.WriteString(applySelectionStyle(m.resultLine(m.results[i], m.windowWidth), i == m.cursor, m.windowWidth))
		content.WriteString("\n")
	}

	if res := m.results[m.cursor]; res.Error != "" || res.Message != "" {
		detail := res.Message
		color := getThemeColors().submitted
		if res.Error != "" {
			detail = res.Error
			color = getThemeColors().failed
		}
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(color)).
			Italic(true).
			Render(TruncateText(detail, m.windowWidth-4)))
		content.WriteString("\n")
	}

	return content.String()
}

func createMarkdownContent(res highlight.Result) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# Line %d\n\n", res.Highlight.Line))

	md.WriteString("| Field | Value |\n")
	md.WriteString("|-------|-------|\n")
	md.WriteString(fmt.Sprintf("| **Time** | %s |\n", res.Highlight.Date.Format("2006-01-02 15:04:05")))
	md.WriteString(fmt.Sprintf("| **Status** | %s %s |\n", statusIcon(res.Status), res.Status))
	md.WriteString(fmt.Sprintf("| **Length** | %d |\n", res.Highlight.Description.Len()))
	if res.Highlight.Description.Truncated() {
		md.WriteString(fmt.Sprintf("| **Truncated** | to %d characters |\n", highlight.MaxDescriptionLength))
	}

	md.WriteString("\n## Description\n\n")
	md.WriteString(res.Highlight.Description.String())
	md.WriteString("\n\n")

	if res.Message != "" {
		md.WriteString("## Response\n\n")
		md.WriteString(res.Message)
		md.WriteString("\n\n")
	}

	if res.Error != "" {
		md.WriteString("## Error\n\n")
		md.WriteString(fmt.Sprintf("`%s`\n", res.Error))
	}

	return md.String()
}

func statusIcon(status highlight.Status) string {
	switch status {
	case highlight.StatusSubmitted:
		return "✅"
	case highlight.StatusFailed:
		return "❌"
	case highlight.StatusPlanned:
		return "📝"
	}
	return "📌"
}

// Run starts the browser for report. It returns ErrNotTerminal when stdout is not a TTY so the
// caller can fall back to text output.
func Run(report *highlight.Report) error {
	if !IsTerminalCapable() {
		return ErrNotTerminal
	}

	theme := "light"
	if output.IsDarkMode() {
		theme = "dark"
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithStandardStyle(theme), glamour.WithEmoji())
	if err != nil {
		renderer = nil
	}

	p := tea.NewProgram(newReportModel(report, renderer), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

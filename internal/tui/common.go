package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/mattn/go-isatty"

	"shortlog/internal/output"
)

// themeColors holds the palette entries the views use.
type themeColors struct {
	header    string
	border    string
	help      string
	selectFg  string
	selectBg  string
	scroll    string
	submitted string
	failed    string
}

func getThemeColors() themeColors {
	flavor := output.Flavor()
	return themeColors{
		header:    flavor.Mauve().Hex,
		border:    flavor.Surface2().Hex,
		help:      flavor.Subtext1().Hex,
		selectFg:  flavor.Base().Hex,
		selectBg:  flavor.Blue().Hex,
		scroll:    flavor.Subtext1().Hex,
		submitted: flavor.Green().Hex,
		failed:    flavor.Red().Hex,
	}
}

// IsTerminalCapable checks if the current environment supports TUI
func IsTerminalCapable() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

func IsTerminalSizeAdequate(width, height int) bool {
	return width >= MinTerminalWidth && height >= MinTerminalHeight
}

// UpdateViewport updates viewport offset to keep cursor visible
func UpdateViewport(cursor, viewportOffset, viewportHeight, totalItems int) int {
	if viewportHeight <= 0 {
		return viewportOffset
	}

	if cursor < viewportOffset {
		viewportOffset = cursor
	} else if cursor >= viewportOffset+viewportHeight {
		viewportOffset = cursor - viewportHeight + 1
	}

	viewportOffset = max(0, viewportOffset)
	maxOffset := max(0, totalItems-viewportHeight)
	return min(viewportOffset, maxOffset)
}

// PanelDimensions holds calculated panel dimensions
type PanelDimensions struct {
	LeftWidth  int
	RightWidth int
	UseSingle  bool
}

// CalculatePanelDimensions splits the window 40/60 between list and details.
func CalculatePanelDimensions(windowWidth int) PanelDimensions {
	minLeftWidth := 30
	minRightWidth := 40

	leftWidth := max(minLeftWidth, int(float64(windowWidth)*0.4))

	rightWidth := windowWidth - leftWidth - 3 // borders
	if rightWidth < minRightWidth {
		rightWidth = minRightWidth
		leftWidth = windowWidth - rightWidth - 3
		if leftWidth < minLeftWidth {
			return PanelDimensions{UseSingle: true}
		}
	}

	return PanelDimensions{
		LeftWidth:  leftWidth,
		RightWidth: rightWidth,
	}
}

func renderTerminalTooSmallMessage(width, height int) string {
	return renderHeader("Terminal too small", width) +
		fmt.Sprintf("\n\nMinimum size: %dx%d", MinTerminalWidth, MinTerminalHeight) +
		fmt.Sprintf("\nCurrent size: %dx%d", width, height) +
		"\n\nPress q to quit"
}

func createBorderedPanel(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(max(20, width)).
		Height(max(10, height)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(getThemeColors().border)).
		Padding(0, 1)
}

func renderHeader(title string, windowWidth int) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(getThemeColors().header)).
		Width(max(10, windowWidth)).
		Align(lipgloss.Center).
		Render(title)
}

func renderHelpText(helpText string, maxWidth int) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(getThemeColors().help)).
		Italic(true).
		Width(max(10, maxWidth)).
		Render(helpText)
}

func renderScrollIndicator(current, total, maxWidth int) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(getThemeColors().scroll)).
		Align(lipgloss.Right).
		Width(max(10, maxWidth)).
		Render(fmt.Sprintf("[%d/%d]", current, total))
}

func applySelectionStyle(text string, isSelected bool, maxWidth int) string {
	if isSelected {
		colors := getThemeColors()
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.selectFg)).
			Background(lipgloss.Color(colors.selectBg)).
			Bold(true).
			Width(max(10, maxWidth)).
			Render("> " + text)
	}

	return lipgloss.NewStyle().Width(max(10, maxWidth)).Render("  " + text)
}

// TruncateText shortens text to maxWidth characters, adding an ellipsis if needed
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text
	}

	if maxWidth <= 3 {
		return string(runes[:max(1, maxWidth)])
	}

	return string(runes[:maxWidth-3]) + "..."
}

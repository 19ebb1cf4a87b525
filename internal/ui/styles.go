package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

var (
	cPurple     = lipgloss.Color("99")
	cCyan       = lipgloss.Color("39")
	cRed        = lipgloss.Color("203")
	cGold       = lipgloss.Color("220")
	cGray       = lipgloss.Color("240")
	cBrightGray = lipgloss.Color("246")
	cLightGray  = lipgloss.Color("250")
	cWhite      = lipgloss.Color("255")
	cHighlight  = lipgloss.Color("57")
	cField      = lipgloss.Color("63")

	styleNormalText = lipgloss.NewStyle().Foreground(cWhite)
	styleMutedText  = lipgloss.NewStyle().Foreground(cBrightGray)

	styleID = lipgloss.NewStyle().Foreground(cGold).Bold(true)

	styleSelected = lipgloss.NewStyle().
			Background(cHighlight).
			Foreground(cWhite).
			Bold(true)

	styleAppHeader = lipgloss.NewStyle().
			Foreground(cWhite).
			Background(cPurple).
			Bold(true).
			Padding(0, 1)

	styleHeaderInfo = lipgloss.NewStyle().
			Foreground(cLightGray).
			Background(cPurple)

	stylePane = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(cGray)

	stylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(cPurple)

	stylePaneTitle = lipgloss.NewStyle().
			Foreground(cGold).
			Bold(true)

	styleField = lipgloss.NewStyle().
			Foreground(cField).
			Bold(true)

	styleButton = lipgloss.NewStyle().
			Foreground(cWhite).
			Background(cGray).
			Padding(0, 2)

	styleButtonActive = lipgloss.NewStyle().
				Foreground(cWhite).
				Background(cPurple).
				Bold(true).
				Padding(0, 2)

	styleFormError = lipgloss.NewStyle().
			Foreground(cRed).
			Bold(true)

	styleErrorIndicator = lipgloss.NewStyle().
				Foreground(cRed).
				Bold(true)

	styleLoading = lipgloss.NewStyle().
			Foreground(cCyan)

	styleCopyToast = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")). // Green
			Foreground(cWhite).
			Padding(0, 1)

	// Help overlay styles
	styleHelpOverlay = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(cPurple).
				Padding(1, 2)

	styleHelpTitle = lipgloss.NewStyle().
			Foreground(cGold).
			Bold(true)

	styleHelpDivider = lipgloss.NewStyle().
				Foreground(cPurple)

	styleHelpSectionHeader = lipgloss.NewStyle().
				Foreground(cField).
				Bold(true)

	styleHelpUnderline = lipgloss.NewStyle().
				Foreground(cField)

	styleHelpKey = lipgloss.NewStyle().
			Foreground(cCyan).
			Bold(true)

	styleHelpDesc = lipgloss.NewStyle().
			Foreground(cLightGray)

	styleHelpFooter = lipgloss.NewStyle().
			Foreground(cBrightGray).
			Italic(true)

	// Footer bar styles
	styleKeyPill = lipgloss.NewStyle().
			Background(cPurple).
			Foreground(cWhite).
			Bold(true)

	styleKeyDesc = lipgloss.NewStyle().
			Foreground(cBrightGray)

	styleFooterMuted = lipgloss.NewStyle().
				Foreground(cBrightGray)

	// Delete overlay styles
	styleDeleteOverlay = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(cRed).
				Padding(1, 2)

	styleDeleteDivider = lipgloss.NewStyle().
				Foreground(cRed)
)

// hasDarkBackground is swapped in tests to avoid querying the terminal.
var hasDarkBackground = termenv.HasDarkBackground

// resolveMarkdownStyle turns the configured output format into a concrete
// style. "rich" (or empty) asks the terminal for its background, so this must
// run before the program takes over stdin.
func resolveMarkdownStyle(format string) string {
	style := strings.ToLower(strings.TrimSpace(format))
	switch style {
	case "", "rich":
		if hasDarkBackground() {
			return "dark"
		}
		return "light"
	}
	return style
}

// buildMarkdownRenderer returns a renderer for issue descriptions. format is
// a resolved style: "dark", "light" or another glamour standard style, or
// "plain" to only wrap. It never queries the terminal.
func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	switch style {
	case "plain":
		return fallback
	case "", "rich":
		style = "dark"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}

package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// footerHint defines a key hint for the footer bar.
// These are intentionally shorter than the KeyMap help text.
type footerHint struct {
	key  string // Short symbol: "↑↓", "⏎", "^S", etc.
	desc string // Short description: "Navigate", "Save", etc.
}

// Global footer hints (always shown)
var globalFooterHints = []footerHint{
	{"⇥", "Focus"},
	{"r", "Refresh"},
	{"?", "Help"},
}

// Context-specific footer hints
var listFooterHints = []footerHint{
	{"↑↓", "Navigate"},
	{"⏎", "Detail"},
	{"e", "Edit"},
	{"d", "Delete"},
	{"n", "New"},
	{"c", "Copy"},
	{"q", "Quit"},
}

var formFooterHints = []footerHint{
	{"^S", "Save"},
	{"⇧⇥", "Field"},
}

var editFooterHints = []footerHint{
	{"^S", "Update"},
	{"esc", "Cancel"},
}

var detailFooterHints = []footerHint{
	{"↑↓", "Scroll"},
	{"esc", "Close"},
}

// renderFooter renders the footer bar with pill-style key hints and, when a
// mutation failed, the error line above it.
func (m *App) renderFooter() string {
	var hints []footerHint

	// Context-specific keys (shown first, leftmost)
	switch m.focus {
	case FocusList:
		hints = append(hints, listFooterHints...)
	case FocusForm:
		if m.current != nil {
			hints = append(hints, editFooterHints...)
		} else {
			hints = append(hints, formFooterHints...)
		}
	case FocusDetail:
		hints = append(hints, detailFooterHints...)
	}

	// Global keys
	hints = append(hints, globalFooterHints...)

	countText := m.countText()
	countRendered := styleFooterMuted.Render(countText)
	countWidth := lipgloss.Width(countRendered)
	availableWidth := m.width - countWidth - 4 // padding

	// Progressively remove hints if too wide
	hints = trimHintsToFit(hints, availableWidth)

	left := renderHints(hints)
	spacing := m.width - lipgloss.Width(left) - countWidth
	if spacing < 2 {
		spacing = 2
	}
	bar := left + strings.Repeat(" ", spacing) + countRendered

	if m.lastError == "" {
		return bar
	}
	errLine := styleErrorIndicator.Render("⚠ ") + styleNormalText.Render(ansi.Truncate(m.lastError, m.width-4, "…"))
	return errLine + "\n" + bar
}

func (m *App) countText() string {
	if m.readModel == nil || m.readModel.Issues() == nil {
		return "Issues: -"
	}
	return "Issues: " + strconv.Itoa(len(m.readModel.Issues()))
}

// keyPill renders a single key hint as a pill with description.
func keyPill(key, desc string) string {
	return styleKeyPill.Render(" "+key+" ") + " " + styleKeyDesc.Render(desc)
}

func renderHints(hints []footerHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyPill(h.key, h.desc))
	}
	return strings.Join(parts, "  ")
}

// trimHintsToFit progressively removes hints to fit available width.
// Removes context-specific hints from the end first, then global hints.
func trimHintsToFit(hints []footerHint, availableWidth int) []footerHint {
	globalCount := len(globalFooterHints)

	for len(hints) > 0 {
		if lipgloss.Width(renderHints(hints)) <= availableWidth {
			break
		}
		if len(hints) > globalCount {
			contextEnd := len(hints) - globalCount
			hints = append(hints[:contextEnd-1:contextEnd-1], hints[contextEnd:]...)
		} else {
			hints = hints[:len(hints)-1]
		}
	}
	return hints
}

// overlayFooterLine renders hints centered within width for modal footers.
func overlayFooterLine(hints []footerHint, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, renderHints(hints))
}

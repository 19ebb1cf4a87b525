package ui

import (
	"strings"

	"matesite/internal/issues"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
)

const (
	itemDescriptionLines = 3
	itemIndent           = 2
)

// Item is one row of the issue list.
type Item struct {
	Issue issues.Issue
}

// Edit returns a command asking the page to edit this issue.
func (it Item) Edit() tea.Cmd {
	issue := it.Issue
	return func() tea.Msg { return EditIssueMsg{Issue: issue} }
}

// Delete returns a command asking the page to delete this issue.
func (it Item) Delete() tea.Cmd {
	id := it.Issue.ID
	return func() tea.Msg { return DeleteIssueMsg{ID: id} }
}

// View renders the title, a wrapped description and, when selected, the
// edit/delete hints.
func (it Item) View(width int, selected bool) string {
	if width < 8 {
		width = 8
	}

	titleStyle := styleNormalText.Bold(true)
	marker := "  "
	if selected {
		titleStyle = styleSelected
		marker = "▸ "
	}
	title := ansi.Truncate(it.Issue.Title, width-lipgloss.Width(marker), "…")
	lines := []string{marker + titleStyle.Render(title)}

	body := wrapDescription(it.Issue.Description, width-itemIndent, itemDescriptionLines)
	pad := strings.Repeat(" ", itemIndent)
	for _, line := range body {
		lines = append(lines, pad+styleMutedText.Render(line))
	}

	if selected {
		hints := keyPill("e", "Edit") + "  " + keyPill("d", "Delete")
		lines = append(lines, pad+hints)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// wrapDescription word-wraps text to width and keeps at most maxLines lines,
// marking the cut with an ellipsis.
func wrapDescription(text string, width, maxLines int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	wrapped := strings.Split(wordwrap.String(text, width), "\n")
	if maxLines > 0 && len(wrapped) > maxLines {
		wrapped = wrapped[:maxLines]
		last := ansi.Truncate(wrapped[maxLines-1], width-1, "")
		wrapped[maxLines-1] = strings.TrimRight(last, " ") + "…"
	}
	for i, line := range wrapped {
		wrapped[i] = ansi.Truncate(line, width, "")
	}
	return wrapped
}

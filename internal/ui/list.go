package ui

import (
	"strings"

	"matesite/internal/issues"
	"matesite/internal/readmodel"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listLoadingText = "Loading issues..."
	listErrorText   = "Error loading issues"
	listEmptyText   = "No issues yet. Press n to add one."
)

// List renders the issue collection and turns key presses on the selected
// row into edit and delete intents.
type List struct {
	cursor int
	offset int
	width  int
	height int
	keys   KeyMap
}

// NewList returns an empty list view.
func NewList(keys KeyMap) *List {
	return &List{keys: keys, width: formDefaultWidth, height: 10}
}

// SetSize sets the inner dimensions of the list pane.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Cursor returns the index of the selected row.
func (l *List) Cursor() int { return l.cursor }

// Selected returns the issue under the cursor.
func (l *List) Selected(items []issues.Issue) (issues.Issue, bool) {
	if len(items) == 0 {
		return issues.Issue{}, false
	}
	l.clamp(len(items))
	return items[l.cursor], true
}

// SelectID moves the cursor onto id when it is present.
func (l *List) SelectID(items []issues.Issue, id string) bool {
	for i, issue := range items {
		if issue.ID == id {
			l.cursor = i
			return true
		}
	}
	return false
}

func (l *List) clamp(n int) {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.offset > l.cursor {
		l.offset = l.cursor
	}
}

// Update handles navigation and item intents for the given collection.
func (l *List) Update(msg tea.KeyMsg, items []issues.Issue) tea.Cmd {
	n := len(items)
	if n == 0 {
		return nil
	}
	switch {
	case key.Matches(msg, l.keys.Up):
		l.cursor--
	case key.Matches(msg, l.keys.Down):
		l.cursor++
	case key.Matches(msg, l.keys.Home):
		l.cursor = 0
	case key.Matches(msg, l.keys.End):
		l.cursor = n - 1
	case key.Matches(msg, l.keys.PageUp):
		l.cursor -= l.pageSize()
	case key.Matches(msg, l.keys.PageDown):
		l.cursor += l.pageSize()
	case key.Matches(msg, l.keys.Edit):
		l.clamp(n)
		return Item{Issue: items[l.cursor]}.Edit()
	case key.Matches(msg, l.keys.Delete):
		l.clamp(n)
		return Item{Issue: items[l.cursor]}.Delete()
	}
	l.clamp(n)
	return nil
}

func (l *List) pageSize() int {
	// Items take two to five rows; three is a fair page step.
	size := l.height / 3
	if size < 1 {
		return 1
	}
	return size
}

// View renders the list for the current read-model state. While loading
// only the loading indicator is shown.
func (l *List) View(rm *readmodel.Model, spinnerView string) string {
	switch {
	case rm == nil || rm.IsLoading():
		return styleLoading.Render(strings.TrimSpace(spinnerView + " " + listLoadingText))
	case rm.Err() != nil:
		lines := []string{styleErrorIndicator.Render("⚠ " + listErrorText)}
		lines = append(lines, wrapDescription(rm.Err().Error(), l.width, 3)...)
		lines = append(lines, "", styleMutedText.Render("Press r to retry."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	items := rm.Issues()
	if len(items) == 0 {
		return styleMutedText.Render(listEmptyText)
	}
	l.clamp(len(items))

	rendered := make([]string, len(items))
	heights := make([]int, len(items))
	for i, issue := range items {
		rendered[i] = Item{Issue: issue}.View(l.width, i == l.cursor)
		heights[i] = lipgloss.Height(rendered[i]) + 1
	}
	l.scrollToCursor(heights)

	var out []string
	used := 0
	for i := l.offset; i < len(items); i++ {
		if used > 0 && used+heights[i] > l.height {
			break
		}
		out = append(out, rendered[i], "")
		used += heights[i]
	}
	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, out...), "\n")
}

// scrollToCursor moves the window so the cursor row is fully visible.
func (l *List) scrollToCursor(heights []int) {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	for l.offset < l.cursor {
		total := 0
		for i := l.offset; i <= l.cursor; i++ {
			total += heights[i]
		}
		if total <= l.height {
			break
		}
		l.offset++
	}
}

package ui

import (
	"strings"

	"matesite/internal/issues"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// detailPane shows one issue with its description rendered as markdown.
// It opens with the list's copy of the issue and swaps in the fetched one.
type detailPane struct {
	viewport viewport.Model
	format   string
	width    int

	id      string
	issue   issues.Issue
	loading bool
	err     error
}

func newDetailPane(format string) detailPane {
	return detailPane{
		viewport: viewport.New(formDefaultWidth, 10),
		format:   format,
		width:    formDefaultWidth,
	}
}

func (d *detailPane) open(issue issues.Issue) {
	d.id = issue.ID
	d.issue = issue
	d.loading = true
	d.err = nil
	d.viewport.GotoTop()
	d.refresh()
}

// apply stores a fetch result; results for an issue no longer shown are dropped.
func (d *detailPane) apply(msg detailLoadedMsg) bool {
	if msg.id != d.id {
		return false
	}
	d.loading = false
	d.err = msg.err
	if msg.err == nil {
		d.issue = msg.issue
	}
	d.refresh()
	return true
}

func (d *detailPane) setSize(width, height int) {
	if width < minPaneWidth {
		width = minPaneWidth
	}
	if height < 3 {
		height = 3
	}
	d.width = width
	d.viewport.Width = width
	d.viewport.Height = height
	d.refresh()
}

func (d *detailPane) refresh() {
	if d.id == "" {
		d.viewport.SetContent("")
		return
	}

	header := styleSelected.Padding(0, 1).Render(wordwrap.String(d.issue.Title, d.width-2))
	idLine := styleMutedText.Render("ID ") + styleID.Render(d.issue.ID)

	var status string
	switch {
	case d.loading:
		status = styleLoading.Render("Refreshing...")
	case d.err != nil:
		status = styleErrorIndicator.Render("⚠ " + d.err.Error())
	}

	render := buildMarkdownRenderer(d.format, d.width)
	body := render(d.issue.Description)

	parts := []string{header, idLine}
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, "", styleField.Render("Description"), body)
	d.viewport.SetContent(strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, parts...), "\n"))
}

func (d *detailPane) View() string {
	return d.viewport.View()
}

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const deleteOverlayWidth = 44

// DeleteOverlay is a confirmation modal for deleting an issue.
type DeleteOverlay struct {
	issueID    string
	issueTitle string
	selected   int // 0 = No, 1 = Yes
}

// DeleteConfirmedMsg is sent when deletion is confirmed.
type DeleteConfirmedMsg struct {
	IssueID string
}

// DeleteCancelledMsg is sent when the overlay is dismissed without deletion.
type DeleteCancelledMsg struct{}

// NewDeleteOverlay creates a new delete confirmation overlay defaulting to No.
func NewDeleteOverlay(issueID, issueTitle string) *DeleteOverlay {
	return &DeleteOverlay{
		issueID:    issueID,
		issueTitle: issueTitle,
	}
}

// Init implements tea.Model.
func (m *DeleteOverlay) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *DeleteOverlay) Update(msg tea.Msg) (*DeleteOverlay, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("y", "d"))):
		return m, m.confirm()
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("n", "c", "esc"))):
		return m, m.cancel()
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab"))):
		m.selected = 1 - m.selected
	case keyMsg.Type == tea.KeyEnter:
		if m.selected == 1 {
			return m, m.confirm()
		}
		return m, m.cancel()
	}
	return m, nil
}

func (m *DeleteOverlay) confirm() tea.Cmd {
	id := m.issueID
	return func() tea.Msg { return DeleteConfirmedMsg{IssueID: id} }
}

func (m *DeleteOverlay) cancel() tea.Cmd {
	return func() tea.Msg { return DeleteCancelledMsg{} }
}

// View implements tea.Model.
func (m *DeleteOverlay) View() string {
	divider := styleDeleteDivider.Render(strings.Repeat("─", deleteOverlayWidth))
	dangerIcon := styleErrorIndicator.Render("✖")

	title := ansi.Truncate(m.issueTitle, deleteOverlayWidth-4, "…")
	lines := []string{
		styleErrorIndicator.Render("Delete"),
		divider,
		"",
		dangerIcon + " " + styleNormalText.Bold(true).Render("Delete this issue?"),
		"",
		"  " + styleID.Render(m.issueID),
		"  " + styleNormalText.Render(title),
		"",
		styleMutedText.Render("This action cannot be undone."),
		"",
		m.renderButtons(),
		divider,
		overlayFooterLine([]footerHint{{"y", "Delete"}, {"n/esc", "Cancel"}}, deleteOverlayWidth),
	}
	return styleDeleteOverlay.Render(strings.Join(lines, "\n"))
}

func (m *DeleteOverlay) renderButtons() string {
	no, yes := styleButton, styleButton
	if m.selected == 0 {
		no = styleButtonActive
	} else {
		yes = styleButtonActive.Background(cRed)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, no.Render("No"), "  ", yes.Render("Yes"))
}

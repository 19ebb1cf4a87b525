package ui

import (
	"time"

	"matesite/internal/issues"

	tea "github.com/charmbracelet/bubbletea"
)

// SaveIssueMsg is emitted by the form when a valid issue is submitted.
// ID is the issue being edited, or a client placeholder for a new issue.
type SaveIssueMsg struct {
	Issue issues.Issue
}

// CancelEditMsg is emitted by the form when the user abandons an edit.
type CancelEditMsg struct{}

// EditIssueMsg asks the page to load an issue into the form.
type EditIssueMsg struct {
	Issue issues.Issue
}

// DeleteIssueMsg asks the page to delete the issue with the given id.
type DeleteIssueMsg struct {
	ID string
}

type mutationKind int

const (
	mutationCreate mutationKind = iota
	mutationUpdate
	mutationDelete
)

func (k mutationKind) String() string {
	switch k {
	case mutationCreate:
		return "create"
	case mutationUpdate:
		return "update"
	case mutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// mutationDoneMsg reports that a create, update or delete call has settled.
type mutationDoneMsg struct {
	kind mutationKind
	id   string
	err  error
}

// detailLoadedMsg carries the result of fetching one issue for the detail pane.
type detailLoadedMsg struct {
	id    string
	issue issues.Issue
	err   error
}

type copyToastTickMsg struct{}

func scheduleCopyToastTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return copyToastTickMsg{}
	})
}

package ui

import (
	"context"
	"time"

	"matesite/internal/debug"
	"matesite/internal/domain"
	"matesite/internal/issues"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultRequestTimeout = 10 * time.Second

// saveIssueCmd updates the issue being edited, or creates a new one when
// editing is nil.
func saveIssueCmd(client issues.Client, editing *issues.Issue, issue issues.Issue, timeout time.Duration) tea.Cmd {
	draft := domain.DraftOf(issue)
	if editing != nil {
		id := editing.ID
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			_, err := client.Update(ctx, id, draft)
			debug.Event("ui.update", "id", id, "err", err)
			return mutationDoneMsg{kind: mutationUpdate, id: id, err: err}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		created, err := client.Create(ctx, draft)
		debug.Event("ui.create", "placeholder", issue.ID, "generated", domain.IsPlaceholder(issue.ID), "id", created.ID, "err", err)
		return mutationDoneMsg{kind: mutationCreate, id: created.ID, err: err}
	}
}

func deleteIssueCmd(client issues.Client, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := client.Delete(ctx, id)
		debug.Event("ui.delete", "id", id, "err", err)
		return mutationDoneMsg{kind: mutationDelete, id: id, err: err}
	}
}

func loadDetailCmd(client issues.Client, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		issue, err := client.Get(ctx, id)
		return detailLoadedMsg{id: id, issue: issue, err: err}
	}
}

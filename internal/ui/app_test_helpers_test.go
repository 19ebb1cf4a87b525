package ui

import (
	"context"
	"testing"
	"time"

	"matesite/internal/issues"

	tea "github.com/charmbracelet/bubbletea"
)

// collectMsgs runs cmd and any batched commands, returning the messages that
// arrive promptly. Timer-driven commands such as cursor blink are skipped.
func collectMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg, ok := runWithTimeout(cmd, 200*time.Millisecond)
	if !ok || msg == nil {
		return nil
	}
	if batch, isBatch := msg.(tea.BatchMsg); isBatch {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func runWithTimeout(cmd tea.Cmd, d time.Duration) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d):
		return nil, false
	}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if typed, ok := msg.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func countMsgs[T tea.Msg](msgs []tea.Msg) int {
	n := 0
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			n++
		}
	}
	return n
}

// feed delivers msg to the app and then every prompt message its commands
// produce, depth-first, until the app goes quiet.
func feed(t *testing.T, m *App, msg tea.Msg) {
	t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("message loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if _, isTick := next.(copyToastTickMsg); isTick {
			continue
		}
		_, cmd := m.Update(next)
		queue = append(queue, collectMsgs(t, cmd)...)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleIssues() []issues.Issue {
	return []issues.Issue{
		{ID: "1", Title: "A", Description: "a"},
		{ID: "2", Title: "Second", Description: "Another issue"},
	}
}

// newTestApp builds a sized app over client. When load is set the initial
// fetch is run through client and applied.
func newTestApp(t *testing.T, client issues.Client, load bool) *App {
	t.Helper()
	m, err := NewApp(Config{
		Client:        client,
		CollectionKey: "test://issues",
		BaseURL:       "test://",
		OutputFormat:  "plain",
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if load {
		m.Update(m.readModel.Fetch()())
	}
	return m
}

// listedMock returns a MockClient whose List serves items.
func listedMock(items []issues.Issue) *issues.MockClient {
	client := issues.NewMockClient()
	client.ListFn = func(context.Context) ([]issues.Issue, error) {
		return items, nil
	}
	return client
}

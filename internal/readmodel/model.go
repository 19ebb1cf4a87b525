// Package readmodel holds the client-side view of the issue collection: the
// last fetched list, the last fetch error and a refetch trigger.
package readmodel

import (
	"context"
	"time"

	"matesite/internal/debug"
	"matesite/internal/issues"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds a single list call.
const DefaultTimeout = 10 * time.Second

// Lister is the subset of issues.Client the read-model needs.
type Lister interface {
	List(ctx context.Context) ([]issues.Issue, error)
}

// LoadedMsg carries the outcome of one list call back into the update loop.
type LoadedMsg struct {
	Key    string
	Seq    uint64
	Issues []issues.Issue
	Err    error
}

// TickMsg asks the owner to revalidate the collection identified by Key.
type TickMsg struct {
	Key string
}

// Option configures a Model.
type Option func(*Model)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithRefreshInterval enables periodic revalidation. Zero disables polling.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// Model caches the issue collection for one key (the collection URL).
// It is owned by the bubbletea update loop and is not safe for concurrent use.
type Model struct {
	lister   Lister
	key      string
	timeout  time.Duration
	interval time.Duration

	issued   uint64
	applied  uint64
	inFlight int

	data   []issues.Issue
	loaded bool
	err    error
}

// New returns a read-model over lister keyed by key.
func New(lister Lister, key string, opts ...Option) *Model {
	m := &Model{
		lister:  lister,
		key:     key,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key identifies the cached collection.
func (m *Model) Key() string { return m.key }

// Issues returns the collection from the last successful fetch, or nil before one.
func (m *Model) Issues() []issues.Issue { return m.data }

// IsLoading reports that neither data nor an error is available yet.
func (m *Model) IsLoading() bool { return !m.loaded && m.err == nil }

// Err returns the most recent fetch error. A successful fetch clears it.
func (m *Model) Err() error { return m.err }

// Validating reports whether any fetch is outstanding.
func (m *Model) Validating() bool { return m.inFlight > 0 }

// RefreshInterval returns the polling interval; zero means no polling.
func (m *Model) RefreshInterval() time.Duration { return m.interval }

// Fetch starts the initial load.
func (m *Model) Fetch() tea.Cmd {
	return m.Mutate()
}

// Mutate starts a refetch. The returned command yields a LoadedMsg that must be
// passed to Apply.
func (m *Model) Mutate() tea.Cmd {
	if m.lister == nil {
		return nil
	}
	m.issued++
	m.inFlight++
	seq := m.issued
	key := m.key
	lister := m.lister
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		list, err := lister.List(ctx)
		return LoadedMsg{Key: key, Seq: seq, Issues: list, Err: err}
	}
}

// Apply folds a LoadedMsg into the cache and reports whether it changed state.
// Messages for another key, or older than the last applied fetch, are dropped.
// A failed fetch keeps the previous collection.
func (m *Model) Apply(msg LoadedMsg) bool {
	if msg.Key != m.key {
		return false
	}
	if m.inFlight > 0 {
		m.inFlight--
	}
	if msg.Seq <= m.applied {
		debug.Event("readmodel.stale", "seq", msg.Seq, "applied", m.applied)
		return false
	}
	m.applied = msg.Seq
	if msg.Err != nil {
		m.err = msg.Err
		return true
	}
	m.data = msg.Issues
	if m.data == nil {
		m.data = []issues.Issue{}
	}
	m.loaded = true
	m.err = nil
	return true
}

// Tick schedules the next revalidation, or returns nil when polling is off.
func (m *Model) Tick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	key := m.key
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return TickMsg{Key: key} })
}

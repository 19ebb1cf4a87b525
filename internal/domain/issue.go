package domain

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"matesite/internal/issues"
)

// NewDraft validates form input for a create or update call.
//
// Business rules enforced:
//   - Title and description are both required; whitespace-only counts as missing.
//   - Values are passed through as typed so the backend stores exactly what was entered.
func NewDraft(title, description string) (issues.Draft, error) {
	if strings.TrimSpace(title) == "" {
		return issues.Draft{}, errTitleRequired
	}
	if strings.TrimSpace(description) == "" {
		return issues.Draft{}, errDescriptionRequired
	}
	return issues.Draft{Title: title, Description: description}, nil
}

// DraftOf returns the mutable fields of an issue.
func DraftOf(issue issues.Issue) issues.Draft {
	return issues.Draft{Title: issue.Title, Description: issue.Description}
}

// PlaceholderIDs hands out client-side ids for issues that have not been
// saved yet. Ids are the current Unix time in milliseconds, bumped forward
// when two are requested within the same millisecond so they never repeat.
// The backend assigns the real id on create; placeholders are never sent.
type PlaceholderIDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewPlaceholderIDs returns a generator using the wall clock.
func NewPlaceholderIDs() *PlaceholderIDs {
	return &PlaceholderIDs{now: time.Now}
}

// Next returns a placeholder id not present in taken.
func (p *PlaceholderIDs) Next(taken map[string]bool) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now
	if p.now != nil {
		now = p.now
	}
	candidate := now().UnixMilli()
	if candidate <= p.last {
		candidate = p.last + 1
	}
	for taken[strconv.FormatInt(candidate, 10)] {
		candidate++
	}
	p.last = candidate
	return strconv.FormatInt(candidate, 10)
}

// IsPlaceholder reports whether id looks like a client-generated placeholder.
func IsPlaceholder(id string) bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseInt(id, 10, 64)
	return err == nil
}

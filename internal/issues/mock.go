package issues

import (
	"context"
	"errors"
	"sync"
)

// ErrMockNotImplemented is returned when a MockClient read method lacks an override.
var ErrMockNotImplemented = errors.New("issues.MockClient: method not implemented")

// MockClient is a test double for the Client interface.
type MockClient struct {
	CreateFn func(context.Context, Draft) (Issue, error)
	ListFn   func(context.Context) ([]Issue, error)
	GetFn    func(context.Context, string) (Issue, error)
	UpdateFn func(context.Context, string, Draft) (Issue, error)
	DeleteFn func(context.Context, string) (DeleteResult, error)

	mu              sync.Mutex
	CreateCallCount int
	ListCallCount   int
	GetCallCount    int
	UpdateCallCount int
	DeleteCallCount int
	CreateCallArgs  []Draft
	GetCallArgs     []string
	UpdateCallArgs  []UpdateCallArg
	DeleteCallArgs  []string
}

// UpdateCallArg captures arguments passed to Update.
type UpdateCallArg struct {
	ID    string
	Draft Draft
}

// NewMockClient returns a MockClient with zeroed handlers.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Create invokes the configured stub or echoes the draft back with a mock id.
func (m *MockClient) Create(ctx context.Context, draft Draft) (Issue, error) {
	m.mu.Lock()
	m.CreateCallCount++
	m.CreateCallArgs = append(m.CreateCallArgs, draft)
	m.mu.Unlock()

	if m.CreateFn == nil {
		return Issue{ID: "mock-id", Title: draft.Title, Description: draft.Description}, nil
	}
	return m.CreateFn(ctx, draft)
}

// List invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) List(ctx context.Context) ([]Issue, error) {
	m.mu.Lock()
	m.ListCallCount++
	m.mu.Unlock()

	if m.ListFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.ListFn(ctx)
}

// Get invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Get(ctx context.Context, id string) (Issue, error) {
	m.mu.Lock()
	m.GetCallCount++
	m.GetCallArgs = append(m.GetCallArgs, id)
	m.mu.Unlock()

	if m.GetFn == nil {
		return Issue{}, ErrMockNotImplemented
	}
	return m.GetFn(ctx, id)
}

// Update invokes the configured stub or echoes the draft back under id.
func (m *MockClient) Update(ctx context.Context, id string, draft Draft) (Issue, error) {
	m.mu.Lock()
	m.UpdateCallCount++
	m.UpdateCallArgs = append(m.UpdateCallArgs, UpdateCallArg{ID: id, Draft: draft})
	m.mu.Unlock()

	if m.UpdateFn == nil {
		return Issue{ID: id, Title: draft.Title, Description: draft.Description}, nil
	}
	return m.UpdateFn(ctx, id, draft)
}

// Delete invokes the configured stub or acknowledges the delete.
func (m *MockClient) Delete(ctx context.Context, id string) (DeleteResult, error) {
	m.mu.Lock()
	m.DeleteCallCount++
	m.DeleteCallArgs = append(m.DeleteCallArgs, id)
	m.mu.Unlock()

	if m.DeleteFn == nil {
		return DeleteResult{Success: true}, nil
	}
	return m.DeleteFn(ctx, id)
}

// Calls returns a snapshot of the per-method call counts keyed by method name.
func (m *MockClient) Calls() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int{
		"Create": m.CreateCallCount,
		"List":   m.ListCallCount,
		"Get":    m.GetCallCount,
		"Update": m.UpdateCallCount,
		"Delete": m.DeleteCallCount,
	}
}

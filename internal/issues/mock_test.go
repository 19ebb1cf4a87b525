package issues

import (
	"context"
	"errors"
	"testing"
)

func TestMockClientDefaults(t *testing.T) {
	m := NewMockClient()
	ctx := context.Background()

	if _, err := m.List(ctx); !errors.Is(err, ErrMockNotImplemented) {
		t.Fatalf("List without stub should return ErrMockNotImplemented, got %v", err)
	}
	if _, err := m.Get(ctx, "1"); !errors.Is(err, ErrMockNotImplemented) {
		t.Fatalf("Get without stub should return ErrMockNotImplemented, got %v", err)
	}

	created, err := m.Create(ctx, Draft{Title: "X", Description: "Y"})
	if err != nil || created.Title != "X" || created.ID == "" {
		t.Fatalf("Create default = %+v, %v", created, err)
	}
	updated, err := m.Update(ctx, "1", Draft{Title: "B", Description: "a"})
	if err != nil || updated.ID != "1" || updated.Title != "B" {
		t.Fatalf("Update default = %+v, %v", updated, err)
	}
	if res, err := m.Delete(ctx, "1"); err != nil || !res.Success {
		t.Fatalf("Delete default = %+v, %v", res, err)
	}

	calls := m.Calls()
	for method, want := range map[string]int{"Create": 1, "List": 1, "Get": 1, "Update": 1, "Delete": 1} {
		if calls[method] != want {
			t.Errorf("%s calls = %d, want %d", method, calls[method], want)
		}
	}
	if len(m.UpdateCallArgs) != 1 || m.UpdateCallArgs[0].ID != "1" {
		t.Errorf("UpdateCallArgs = %+v", m.UpdateCallArgs)
	}
	if len(m.DeleteCallArgs) != 1 || m.DeleteCallArgs[0] != "1" {
		t.Errorf("DeleteCallArgs = %+v", m.DeleteCallArgs)
	}
}

func TestMockClientImplementsClient(t *testing.T) {
	var _ Client = NewMockClient()
	var _ Client = (*HTTPClient)(nil)
}

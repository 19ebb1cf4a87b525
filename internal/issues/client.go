package issues

import "context"

// Client defines the operations required to talk to the issues backend.
type Client interface {
	Create(ctx context.Context, draft Draft) (Issue, error)
	List(ctx context.Context) ([]Issue, error)
	Get(ctx context.Context, id string) (Issue, error)
	Update(ctx context.Context, id string, draft Draft) (Issue, error)
	Delete(ctx context.Context, id string) (DeleteResult, error)
}

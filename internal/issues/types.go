package issues

// Issue is the single entity tracked by the backend.
type Issue struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Draft carries the mutable fields of an issue for create and update calls.
// The id is never part of a request body; the backend owns it.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DeleteResult is the backend's acknowledgment of a delete call.
type DeleteResult struct {
	Success bool `json:"success"`
}

// issueRequest is the body of create and update calls: {"issue": {...}}.
type issueRequest struct {
	Issue Draft `json:"issue"`
}

// issueEnvelope accepts both the wrapped {"issue": {...}} shape the backend
// returns and a bare issue object.
type issueEnvelope struct {
	Issue       *Issue `json:"issue"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (e issueEnvelope) unwrap() Issue {
	if e.Issue != nil {
		return *e.Issue
	}
	return Issue{ID: e.ID, Title: e.Title, Description: e.Description}
}

// listResponse is the body of GET /issues.
type listResponse struct {
	Issues []Issue `json:"issues"`
}

// errorResponse is the body the backend sends alongside non-2xx statuses.
type errorResponse struct {
	Error string `json:"error"`
}

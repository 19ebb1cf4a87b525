package issues

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"matesite/internal/debug"
	appErrors "matesite/internal/errors"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single request when no client is injected.
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries a per-call id the backend's request-id middleware echoes.
	RequestIDHeader = "X-Request-ID"

	userAgent       = "matesite"
	maxErrorBody    = 1 << 20
	maxErrorMessage = 200
)

// HTTPClient implements Client against the REST backend.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	newID      func() string
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// withRequestIDs overrides request id generation (tests).
func withRequestIDs(fn func() string) HTTPOption {
	return func(c *HTTPClient) {
		c.newID = fn
	}
}

// NewHTTPClient returns a client for the backend at baseURL
// (scheme and host, optionally a path prefix; no trailing slash needed).
func NewHTTPClient(baseURL string, opts ...HTTPOption) (*HTTPClient, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeConfigurationError, err.Error(), err)
	}
	c := &HTTPClient{
		baseURL:    normalized,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NormalizeBaseURL validates an http(s) origin and strips trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("base URL is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", trimmed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base URL %q must use http or https", trimmed)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base URL %q has no host", trimmed)
	}
	return strings.TrimRight(trimmed, "/"), nil
}

// BaseURL returns the normalized backend origin.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// CollectionURL is the URL of the issue collection; the read-model keys its cache on it.
func (c *HTTPClient) CollectionURL() string {
	return c.baseURL + "/issues"
}

// Create issues POST /issues/new.
func (c *HTTPClient) Create(ctx context.Context, draft Draft) (Issue, error) {
	var env issueEnvelope
	if err := c.do(ctx, http.MethodPost, "/issues/new", issueRequest{Issue: draft}, &env); err != nil {
		return Issue{}, err
	}
	return env.unwrap(), nil
}

// List issues GET /issues.
func (c *HTTPClient) List(ctx context.Context) ([]Issue, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/issues", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Issues == nil {
		return []Issue{}, nil
	}
	return resp.Issues, nil
}

// Get issues GET /issues/{id}.
func (c *HTTPClient) Get(ctx context.Context, id string) (Issue, error) {
	path, err := issuePath(id)
	if err != nil {
		return Issue{}, err
	}
	var env issueEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return Issue{}, err
	}
	return env.unwrap(), nil
}

// Update issues PUT /issues/{id}.
func (c *HTTPClient) Update(ctx context.Context, id string, draft Draft) (Issue, error) {
	path, err := issuePath(id)
	if err != nil {
		return Issue{}, err
	}
	var env issueEnvelope
	if err := c.do(ctx, http.MethodPut, path, issueRequest{Issue: draft}, &env); err != nil {
		return Issue{}, err
	}
	return env.unwrap(), nil
}

// Delete issues DELETE /issues/{id}.
func (c *HTTPClient) Delete(ctx context.Context, id string) (DeleteResult, error) {
	path, err := issuePath(id)
	if err != nil {
		return DeleteResult{}, err
	}
	var result DeleteResult
	if err := c.do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}

func issuePath(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrEmptyID
	}
	return "/issues/" + url.PathEscape(id), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	requestID := c.newID()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		debug.Event("api.error", "method", method, "path", path, "request_id", requestID, "err", err)
		return networkError(method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	debug.Event("api.response", "method", method, "path", path, "request_id", requestID,
		"status", resp.StatusCode, "duration", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return parseError(method, path, err)
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return ""
	}
	var parsed errorResponse
	if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
		return parsed.Error
	}
	return ansi.Truncate(strings.TrimSpace(string(data)), maxErrorMessage, "...")
}

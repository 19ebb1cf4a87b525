package issues

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	appErrors "matesite/internal/errors"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	RawPath     string
	ContentType string
	RequestID   string
	Body        string
}

// newTestBackend starts an httptest server that records each request and
// answers with the given status and body.
func newTestBackend(t *testing.T, status int, body string) (*HTTPClient, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawPath:     r.URL.EscapedPath(),
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get(RequestIDHeader),
			Body:        string(data),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL+"/", withRequestIDs(func() string { return "req-1" }))
	require.NoError(t, err)
	return client, &seen
}

func TestNewHTTPClientValidatesBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"default origin", "http://localhost:8000", "http://localhost:8000", false},
		{"trailing slash trimmed", "https://api.example.com/", "https://api.example.com", false},
		{"path prefix kept", "http://host:1/api/", "http://host:1/api", false},
		{"empty", "  ", "", true},
		{"no scheme", "localhost:8000", "", true},
		{"ftp scheme", "ftp://host", "", true},
		{"no host", "http://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewHTTPClient(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, appErrors.CodeConfigurationError, appErrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
			assert.Equal(t, tt.want+"/issues", c.CollectionURL())
		})
	}
}

func TestHTTPClientOptions(t *testing.T) {
	custom := &http.Client{}
	c, err := NewHTTPClient("http://localhost:8000", WithHTTPClient(custom), WithTimeout(3*time.Second))
	require.NoError(t, err)
	assert.Same(t, custom, c.httpClient)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)

	c, err = NewHTTPClient("http://localhost:8000", WithHTTPClient(nil), WithTimeout(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestCreatePostsWrappedIssue(t *testing.T) {
	client, seen := newTestBackend(t, http.StatusCreated,
		`{"issue":{"id":"9b1c","title":"X","description":"Y"}}`)

	issue, err := client.Create(context.Background(), Draft{Title: "X", Description: "Y"})
	require.NoError(t, err)
	assert.Equal(t, Issue{ID: "9b1c", Title: "X", Description: "Y"}, issue)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/issues/new", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, "req-1", req.RequestID)
	assert.JSONEq(t, `{"issue":{"title":"X","description":"Y"}}`, req.Body)
}

func TestCreateAcceptsUnwrappedIssue(t *testing.T) {
	client, _ := newTestBackend(t, http.StatusOK, `{"id":"7","title":"T","description":"D"}`)

	issue, err := client.Create(context.Background(), Draft{Title: "T", Description: "D"})
	require.NoError(t, err)
	assert.Equal(t, "7", issue.ID)
}

func TestListDecodesCollection(t *testing.T) {
	client, seen := newTestBackend(t, http.StatusOK,
		`{"issues":[{"id":"1","title":"A","description":"a"},{"id":"2","title":"B","description":"b"}]}`)

	got, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Issue{
		{ID: "1", Title: "A", Description: "a"},
		{ID: "2", Title: "B", Description: "b"},
	}, got)

	req := (*seen)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/issues", req.Path)
	assert.Empty(t, req.ContentType, "GET carries no body")
	assert.Empty(t, req.Body)
}

func TestListNullIsEmpty(t *testing.T) {
	client, _ := newTestBackend(t, http.StatusOK, `{"issues":null}`)

	got, err := client.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetEscapesID(t *testing.T) {
	client, seen := newTestBackend(t, http.StatusOK, `{"issue":{"id":"a/b","title":"A","description":"a"}}`)

	issue, err := client.Get(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", issue.ID)
	assert.Equal(t, "/issues/a%2Fb", (*seen)[0].RawPath)
}

func TestUpdatePutsWrappedIssue(t *testing.T) {
	client, seen := newTestBackend(t, http.StatusOK, `{"issue":{"id":"1","title":"B","description":"a"}}`)

	issue, err := client.Update(context.Background(), "1", Draft{Title: "B", Description: "a"})
	require.NoError(t, err)
	assert.Equal(t, "B", issue.Title)

	req := (*seen)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/issues/1", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"issue":{"title":"B","description":"a"}}`, req.Body)
}

func TestDeleteAcknowledges(t *testing.T) {
	client, seen := newTestBackend(t, http.StatusOK, `{"success":true}`)

	result, err := client.Delete(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, http.MethodDelete, (*seen)[0].Method)
	assert.Equal(t, "/issues/1", (*seen)[0].Path)
}

func TestEmptyIDRejectedWithoutRequest(t *testing.T) {
	client, seen := newTestBackend(t, http.StatusOK, `{}`)
	ctx := context.Background()

	_, err := client.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyID)
	_, err = client.Update(ctx, " ", Draft{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, ErrEmptyID)
	_, err = client.Delete(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.Empty(t, *seen)
}

func TestNonSuccessStatusIsDistinctError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode appErrors.Code
		wantMsg  string
	}{
		{"backend error body", http.StatusInternalServerError, `{"error":"db down"}`, appErrors.CodeHTTPStatus, "db down"},
		{"bad request", http.StatusBadRequest, `{"error":"issue is required"}`, appErrors.CodeHTTPStatus, "issue is required"},
		{"not found", http.StatusNotFound, `{"error":"issue with ID 1 not found"}`, appErrors.CodeNotFound, "not found"},
		{"plain text body", http.StatusBadGateway, `upstream timeout`, appErrors.CodeHTTPStatus, "upstream timeout"},
		{"empty body", http.StatusServiceUnavailable, ``, appErrors.CodeHTTPStatus, "503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestBackend(t, tt.status, tt.body)

			_, err := client.Get(context.Background(), "1")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, appErrors.CodeOf(err))
			assert.Equal(t, tt.status, StatusCodeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLongPlainErrorBodyIsTruncatedOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("é", maxErrorMessage+50)
	client, _ := newTestBackend(t, http.StatusInternalServerError, body)

	_, err := client.List(context.Background())
	require.Error(t, err)
	var se StatusError
	require.True(t, errors.As(err, &se))
	assert.True(t, utf8.ValidString(se.Message), "message must stay valid UTF-8")
	assert.True(t, strings.HasSuffix(se.Message, "..."))
	assert.LessOrEqual(t, ansi.StringWidth(se.Message), maxErrorMessage)
}

func TestUnparseableBodyIsParseError(t *testing.T) {
	client, _ := newTestBackend(t, http.StatusOK, `<html>oops</html>`)

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeParseFailed, appErrors.CodeOf(err))
	assert.Zero(t, StatusCodeOf(err))
}

func TestEmptySuccessBodyIsParseError(t *testing.T) {
	client, _ := newTestBackend(t, http.StatusOK, ``)

	_, err := client.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeParseFailed, appErrors.CodeOf(err))
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewHTTPClient(url, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = client.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNetwork, appErrors.CodeOf(err))
}

func TestRequestHonoursContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client, err := NewHTTPClient(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.List(ctx)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNetwork, appErrors.CodeOf(err))
}

func TestRequestIDDefaultsToUUID(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
		_ = json.NewEncoder(w).Encode(listResponse{})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL)
	require.NoError(t, err)
	_, err = client.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 36)
}

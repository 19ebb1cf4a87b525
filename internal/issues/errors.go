package issues

import (
	"errors"
	"fmt"
	"net/http"

	appErrors "matesite/internal/errors"
)

// ErrEmptyID is returned when an id-addressed call receives an empty id.
var ErrEmptyID = errors.New("issues: issue id is required")

// StatusError describes a non-2xx response from the backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the backend's {"error": ...} text, or a trimmed raw body.
	Message string
}

func (e StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func classifyStatus(se StatusError) error {
	if se.StatusCode == http.StatusNotFound {
		return appErrors.New(appErrors.CodeNotFound, se.Error(), se)
	}
	return appErrors.New(appErrors.CodeHTTPStatus, se.Error(), se)
}

func networkError(method, path string, err error) error {
	return appErrors.New(appErrors.CodeNetwork, fmt.Sprintf("%s %s: %v", method, path, err), err)
}

func parseError(method, path string, err error) error {
	return appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("%s %s: decode response: %v", method, path, err), err)
}

// StatusCodeOf returns the HTTP status carried by err, or 0 when err is not a
// backend status error.
func StatusCodeOf(err error) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

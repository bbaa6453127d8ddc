package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrUnauthorized is returned for HTTP 401. The caller is expected to
	// send the user back through login rather than show an inline error.
	ErrUnauthorized = errors.New("authentication required")
	// ErrNotFound is returned for HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidImportFile is returned before upload for non-Excel files.
	ErrInvalidImportFile = errors.New("import file must be .xlsx or .xls")
	// ErrEmptyImportFile is returned before upload for zero-byte files.
	ErrEmptyImportFile = errors.New("import file is empty")
)

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets errors.Is match ErrUnauthorized and ErrNotFound.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// IsUnauthorized reports whether err means the session is missing or expired.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// errorBody is the JSON error shape returned by the backend.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4096

// newError builds an *Error from a response body. Plain-text bodies are used
// as the message directly.
func newError(method, path string, status int, body []byte) *Error {
	e := &Error{StatusCode: status, Method: method, Path: path}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return e
	}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		switch {
		case eb.Message != "":
			e.Message = eb.Message
		case eb.Error != "":
			e.Message = eb.Error
		}
		return e
	}
	if len(trimmed) > maxErrorBody {
		trimmed = trimmed[:maxErrorBody]
	}
	e.Message = trimmed
	return e
}

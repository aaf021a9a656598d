package wordpress

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrParentNotFound means no remote item carries the requested document_key.
	ErrParentNotFound = errors.New("parent document not found")
	// ErrAmbiguousParent means several remote items carry the same document_key.
	ErrAmbiguousParent = errors.New("parent document_key is not unique")
	// ErrInvalidOptions is returned by New for an unusable client configuration.
	ErrInvalidOptions = errors.New("invalid client options")
)

// maxErrorBody bounds how much of a response body an APIError keeps.
const maxErrorBody = 512

// truncateBody shortens s to maxErrorBody bytes, backing up to a rune
// boundary so the result stays valid UTF-8.
func truncateBody(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	n := maxErrorBody
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// APIError is a non-2xx response from the REST API.
type APIError struct {
	Method     string
	Route      string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Route, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Route, e.StatusCode, body)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

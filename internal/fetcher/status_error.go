package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when a node responds with a non-200 HTTP status.
// Using a typed error allows callers to distinguish "not found" (404) from
// an expired token without string matching.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("node responded with status %d for %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err is a StatusError with HTTP 404.
func IsNotFound(err error) bool {
	var e *StatusError
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a StatusError with HTTP 401 or 403.
// soda4LCA answers 403 when the API key is missing, invalid or expired.
func IsUnauthorized(err error) bool {
	var e *StatusError
	return errors.As(err, &e) && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Hint returns a user-facing suggestion for err, or "".
func Hint(err error) string {
	switch {
	case IsUnauthorized(err):
		return "the API key may be invalid or expired; set a new one with `epd2lcabyg config set-api-key`"
	case IsNotFound(err):
		return "no dataset with that UUID on this node; check --node and --uuid"
	}
	return ""
}

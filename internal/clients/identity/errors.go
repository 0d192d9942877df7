package identity

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the identity platform.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity API error %d: %s", e.StatusCode, e.Body)
}

// IsUnauthorized reports whether the platform rejected the access token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

package srcom

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds for remote calls. The site folds "doesn't exist" and "you
// may not" into HTTP statuses, so classification is by status code only.
// Callers that don't care can treat any error as "absent".
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransport    = errors.New("transport failure")
)

func statusError(route string, status int) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", route, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", route, ErrUnauthorized)
	default:
		return fmt.Errorf("%s: status %d: %w", route, status, ErrTransport)
	}
}

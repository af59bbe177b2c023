package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Common client errors
var (
	// ErrSettingsNotFound is returned when a company has no
	// notification settings record yet (API responds 404).
	ErrSettingsNotFound = errors.New("notification settings not found")

	// ErrNoCompanies is returned when the API reports an empty company
	// list and the default company could not be provisioned either.
	ErrNoCompanies = errors.New("no companies available")
)

// StatusError is returned for any non-200 response. Detail carries the
// API's error detail field when the body had one, otherwise a generic
// message. Every non-200 status is a failure regardless of body content.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.Code)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

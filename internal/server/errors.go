package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-summarizer/internal/config"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNoStore indicates a batch run was requested but no record store is configured
type ErrNoStore struct{}

func (e *ErrNoStore) Error() string {
	return "no record store configured"
}

// ErrRunInProgress indicates another batch run holds the store
type ErrRunInProgress struct{}

func (e *ErrRunInProgress) Error() string {
	return "a batch run is already in progress"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var cfgErr *config.ValidationError
	if errors.As(err, &cfgErr) {
		return http.StatusBadRequest
	}

	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrNoStore:
		return http.StatusServiceUnavailable
	case *ErrRunInProgress:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Package server provides the HTTP API for editing, previewing, tailoring and
// exporting resumes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/photo"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/standalone"
)

// ErrSessionNotFound indicates the session does not exist or has expired
type ErrSessionNotFound struct {
	SessionID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrSavedResumeNotFound indicates a saved resume id matched nothing
type ErrSavedResumeNotFound struct {
	ID string
}

func (e *ErrSavedResumeNotFound) Error() string {
	return fmt.Sprintf("saved resume not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrExportUnavailable indicates no PDF exporter is configured
type ErrExportUnavailable struct{}

func (e *ErrExportUnavailable) Error() string {
	return "pdf export is not available"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound      *ErrSessionNotFound
		savedNotFound *ErrSavedResumeNotFound
		validation    *ErrValidation
		schemaErr     *schemas.ValidationError
		unsupported   *photo.UnsupportedTypeError
		tooLarge      *photo.TooLargeError
		requestErr    *backend.RequestError
		transportErr  *backend.TransportError
		exportErr     *ErrExportUnavailable
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound), errors.As(err, &savedNotFound),
		errors.Is(err, session.ErrSavedResumeNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &schemaErr),
		errors.Is(err, db.ErrInvalidID), errors.Is(err, photo.ErrEmpty):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, session.ErrNoTailoring), errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &requestErr), errors.Is(err, session.ErrEmptyResponse):
		return http.StatusBadGateway
	case errors.As(err, &transportErr), errors.As(err, &exportErr),
		errors.Is(err, standalone.ErrNoModel):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

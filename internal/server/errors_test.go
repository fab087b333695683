package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/photo"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/standalone"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"session not found", &ErrSessionNotFound{SessionID: "x"}, http.StatusNotFound},
		{"saved resume missing", fmt.Errorf("load: %w", session.ErrSavedResumeNotFound), http.StatusNotFound},
		{"validation", &ErrValidation{Field: "version", Message: "required"}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{}, http.StatusBadRequest},
		{"invalid id", errors.Join(db.ErrInvalidID, errors.New("bad")), http.StatusBadRequest},
		{"empty photo", photo.ErrEmpty, http.StatusBadRequest},
		{"not an image", &photo.UnsupportedTypeError{MIME: "text/plain"}, http.StatusUnsupportedMediaType},
		{"photo too large", &photo.TooLargeError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{"no tailoring", session.ErrNoTailoring, http.StatusConflict},
		{"superseded", session.ErrSuperseded, http.StatusConflict},
		{"graphql errors", &backend.RequestError{Operation: "validateResume"}, http.StatusBadGateway},
		{"empty backend reply", session.ErrEmptyResponse, http.StatusBadGateway},
		{"transport", &backend.TransportError{Operation: "tailorResume"}, http.StatusServiceUnavailable},
		{"no model", standalone.ErrNoModel, http.StatusServiceUnavailable},
		{"no exporter", &ErrExportUnavailable{}, http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// SaveRequest is the body of a save call.
type SaveRequest struct {
	Tags    []string `json:"tags" validate:"max=20,dive,required,max=64"`
	Version string   `json:"version" validate:"required,max=64"`
}

// TemplateRequest selects a layout by id or alias.
type TemplateRequest struct {
	Template string `json:"template" validate:"required,max=32"`
}

// JobDescriptionRequest replaces the session's job description. An empty
// description is allowed.
type JobDescriptionRequest struct {
	JobDescription string `json:"jobDescription" validate:"max=50000"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Validate validates the SaveRequest using the validator.
func (r *SaveRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TemplateRequest using the validator.
func (r *TemplateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the JobDescriptionRequest using the validator.
func (r *JobDescriptionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

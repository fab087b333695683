// Package rendering renders resumes and cover letters to HTML documents.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing a layout template
type TemplateError struct {
	Name    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("template %s: %s", e.Name, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a failure writing a rendered document
type RenderError struct {
	Layout  LayoutID
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render %s: %s: %v", e.Layout, e.Message, e.Cause)
	}
	return fmt.Sprintf("render %s: %s", e.Layout, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

package backend

import (
	"fmt"
	"strings"
)

// GraphQLError is a single entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// RequestError is returned when the backend answers but rejects the operation.
type RequestError struct {
	Operation string
	Errors    []GraphQLError
}

func (e *RequestError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("%s: request rejected", e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(msgs, "; "))
}

// TransportError is returned when the backend cannot be reached or answers
// with something other than a GraphQL response.
type TransportError struct {
	Operation  string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend returned HTTP %d: %v", e.Operation, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: backend unavailable: %v", e.Operation, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

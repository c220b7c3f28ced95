package main

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the client, controllers and storage layers.
var (
	// ErrNotFound indicates the requested resource id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the server rejected the call due to a
	// missing, invalid or foreign-owned credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork indicates the request could not complete at all.
	ErrNetwork = errors.New("network failure")

	// ErrValidation indicates a required local input is missing or invalid.
	// It short-circuits before any network call.
	ErrValidation = errors.New("validation failure")

	// ErrNoSession indicates no session record exists in the durable store.
	ErrNoSession = errors.New("no session")
)

// Fault wraps a sentinel with the user-facing message controllers surface
// to the view layer. It never reaches the view as a raw error.
type Fault struct {
	kind    error
	Message string
	cause   error
}

// NewFault builds a Fault of the given kind with a display message.
func NewFault(kind error, message string, cause error) *Fault {
	return &Fault{kind: kind, Message: message, cause: cause}
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.kind, f.Message, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.kind, f.Message)
}

// Is makes errors.Is match the Fault against its sentinel kind.
func (f *Fault) Is(target error) bool {
	return errors.Is(f.kind, target)
}

// Unwrap exposes the underlying cause for inspection.
func (f *Fault) Unwrap() error {
	return f.cause
}

// UserMessage extracts the display message from any error. Unexpected
// errors collapse into a generic message so no internals leak to the view.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.Message
	}
	return "Something went wrong. Please try again."
}

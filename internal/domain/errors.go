package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// The error taxonomy for remote calls has two categories:
//
//   - *TransportError: the request never produced a response (connection
//     refused, DNS failure, timeout). Reported to users as status 0.
//   - *StatusError: the remote API answered with a non-2xx status.
//
// *ValidationError is a third, purely local category: it is produced before
// a request is built and never reaches the gateway.
//
// Use the helper predicates (IsNotFound, IsTransport, ...) rather than
// errors.Is: they match by category via errors.As, so wrapped errors are
// recognized as well.

// TransportError indicates that no response was received from the remote API.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return "transport error: " + e.Err.Error()
	}
	return "transport error"
}

// Unwrap returns the underlying transport failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError indicates a response with a non-2xx HTTP status.
type StatusError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("remote status %d: %s", e.Status, msg)
}

// NewStatusError creates a StatusError for the given status and message.
func NewStatusError(status int, message string) *StatusError {
	return &StatusError{Status: status, Message: message}
}

// ValidationError reports a field value that fails a local constraint.
// Submissions carrying one are blocked client-side and never issued as a
// network call; these surface inline next to the field, never as toasts.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound reports whether err is or wraps a *StatusError with status 404.
func IsNotFound(err error) bool {
	return RemoteStatus(err) == http.StatusNotFound
}

// RemoteStatus returns the HTTP status carried by err. Transport errors map
// to 0 (no response received); errors outside the taxonomy map to -1.
func RemoteStatus(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	if IsTransport(err) {
		return 0
	}
	return -1
}

// MessageForStatus translates an HTTP status into the human-readable message
// shown in toasts and on pages. The mapping is fixed per status; unmapped
// statuses fall back to "Error {status}: {detail}".
func MessageForStatus(status int, detail string) string {
	switch status {
	case 0:
		return "Network error: Please check your internet connection"
	case http.StatusBadRequest:
		return "Bad Request: The request was invalid"
	case http.StatusUnauthorized:
		return "Unauthorized: Please check your credentials"
	case http.StatusForbidden:
		return "Forbidden: You do not have permission to access this resource"
	case http.StatusNotFound:
		return "Not Found: The requested resource was not found"
	case http.StatusInternalServerError:
		return "Server Error: Please try again later"
	default:
		if detail == "" {
			detail = http.StatusText(status)
		}
		return fmt.Sprintf("Error %d: %s", status, detail)
	}
}

// UserMessage translates a remote call failure into its user-facing message.
// Errors outside the taxonomy produce a generic unknown-error message.
func UserMessage(err error) string {
	status := RemoteStatus(err)
	if status == -1 {
		return "An unknown error occurred!"
	}

	detail := ""
	var se *StatusError
	if errors.As(err, &se) {
		detail = se.Message
	}
	return MessageForStatus(status, detail)
}

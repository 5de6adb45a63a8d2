package api

import (
	"errors"
	"fmt"
)

// NetworkErrorMessage is what users see when the backend is unreachable.
const NetworkErrorMessage = "Network error. Please try again later."

// ErrResponseTooLarge is the cause of a TransportError when the backend sent
// more than the client is willing to read.
var ErrResponseTooLarge = errors.New("response body too large")

const tooLargeMessage = "The server response was too large to load."

// TransportError wraps a failure to reach the backend at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx backend response. Message is the backend's own
// message when it sent one.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// Message turns any error into the single string shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrResponseTooLarge) {
		return tooLargeMessage
	}
	var te *TransportError
	if errors.As(err, &te) {
		return NetworkErrorMessage
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrNetworkUnavailable signals a transport failure with no server response.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrNotFound signals that a requested user or story is absent from current state.
	ErrNotFound = errors.New("not found")
	// ErrUploadFailed signals that a media upload failed before a story record exists.
	ErrUploadFailed = errors.New("upload failed")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// ServerRejected represents a well-formed error response from the server.
type ServerRejected struct {
	Code    int
	Message string
}

func (e *ServerRejected) Error() string {
	return fmt.Sprintf("server rejected request (code %d): %s", e.Code, e.Message)
}

// NewServerRejected builds a ServerRejected with the message already normalized.
func NewServerRejected(code int, message string) *ServerRejected {
	return &ServerRejected{Code: code, Message: HandleErrorMessage(message)}
}

// IsServerRejected reports whether err is a server rejection, returning it if so.
func IsServerRejected(err error) (*ServerRejected, bool) {
	var e *ServerRejected
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNetworkUnavailable returns true if the error is a transport failure
func IsNetworkUnavailable(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable)
}

// IsUploadFailed returns true if the error is a failed media upload
func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

// HandleErrorMessage rewrites the server's raw validation messages into the
// copy shown to users. The legacy backend reports missing registration fields
// as "Reg city"/"Reg country".
func HandleErrorMessage(message string) string {
	switch {
	case strings.Contains(message, "Reg city"):
		return "The City field required"
	case strings.Contains(message, "Reg country"):
		return "The Country field required"
	default:
		return message
	}
}

// UserMessage maps an error from the core to the human-readable text a host
// should display. Transport failures get a generic connectivity message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNetworkUnavailable) {
		return "Server Connection Failed"
	}
	if rej, ok := IsServerRejected(err); ok {
		return rej.Message
	}
	return err.Error()
}

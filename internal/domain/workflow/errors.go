package workflow

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrSessionInvalid means the backend rejected the session token. The caller logs out.
	ErrSessionInvalid = errors.New("session invalid")
	// ErrBusy means a submit for the same control is still in flight.
	ErrBusy = errors.New("request already in progress")
)

const GenericWriteFailure = "Something went wrong. Please try again."

// upstreamError is satisfied by backend client errors without importing the client.
type upstreamError interface {
	error
	StatusCode() int
	Detail() string
}

func IsUnauthorized(err error) bool {
	var ue upstreamError
	return errors.As(err, &ue) && ue.StatusCode() == http.StatusUnauthorized
}

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is a local rejection. No network call was made.
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldIssue `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// WriteError is a failed mutation. Message is the backend detail verbatim when one was
// sent, otherwise the screen's generic failure message.
type WriteError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *WriteError) Error() string {
	return e.Message
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func newWriteError(err error, fallback string) *WriteError {
	if strings.TrimSpace(fallback) == "" {
		fallback = GenericWriteFailure
	}
	out := &WriteError{Status: http.StatusBadGateway, Message: fallback, Err: err}
	var ue upstreamError
	if errors.As(err, &ue) {
		if status := ue.StatusCode(); status >= 400 && status < 500 {
			out.Status = status
		}
		if detail := strings.TrimSpace(ue.Detail()); detail != "" {
			out.Message = detail
		}
	}
	return out
}

// WriteFailure converts a failed write outside a screen, such as login, into a WriteError.
func WriteFailure(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return newWriteError(err, fallback)
}

package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed request. The set is closed: every error returned
// by Client is an *Error with one of these kinds.
type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota + 1
	// KindUnauthorized means no local token was present. Nothing was sent.
	KindUnauthorized
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindParse means a 2xx response body was not valid JSON.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindHTTP:
		return "http"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the failure half of a request outcome.
type Error struct {
	Kind Kind

	// Status and Detail are set for KindHTTP. Detail is the backend's
	// `detail` or `error` string when present, otherwise the status text.
	Status int
	Detail string

	// FromBody is true when Detail came from a string `detail`/`error`
	// field in the response body rather than the status text.
	FromBody bool

	// Body holds the raw error body for diagnostics.
	Body []byte

	// Err is the underlying transport or decode error, if any.
	Err error

	sessionCleared bool
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return "Network Error: Cannot connect to API server."
	case KindUnauthorized:
		return "Unauthorized: Please log in again."
	case KindHTTP:
		return fmt.Sprintf("API Error: %d - %s", e.Status, e.Detail)
	case KindParse:
		return "API Error: response was not valid JSON"
	default:
		return "API Error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Display returns the page-level message for a user.
func (e *Error) Display() string {
	if e.Kind == KindHTTP && e.FromBody && e.Detail != "" {
		return e.Detail
	}
	return e.Error()
}

// SessionCleared reports whether the client dropped the stored credential
// because the server rejected the token with 401.
func (e *Error) SessionCleared() bool {
	return e.sessionCleared
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == k
}

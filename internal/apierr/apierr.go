// Package apierr provides the error taxonomy for the Vesper client.
//
// Every failure on the request path is folded into a fixed set of kinds.
// Recoverable kinds are retried transparently by the retry policy; the
// rest surface immediately with a remedial hint where one exists.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies a request failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindAuth
	KindRateLimit
	KindTimeout
	KindServer
	KindContentFilter
	KindValidation
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate-limit"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindContentFilter:
		return "content-filter"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Recoverable reports whether failures of this kind are worth retrying.
func (k Kind) Recoverable() bool {
	switch k {
	case KindNetwork, KindTimeout, KindRateLimit, KindServer:
		return true
	default:
		return false
	}
}

// Sentinel errors for kind matching with errors.Is.
var (
	ErrNetwork       = errors.New("network failure")
	ErrAuth          = errors.New("authentication failed")
	ErrRateLimit     = errors.New("rate limit exceeded")
	ErrTimeout       = errors.New("request timed out")
	ErrServer        = errors.New("server error")
	ErrContentFilter = errors.New("content blocked")
	ErrValidation    = errors.New("invalid request")
)

// sentinelFor maps a kind to its sentinel, nil for unknown.
func sentinelFor(k Kind) error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindAuth:
		return ErrAuth
	case KindRateLimit:
		return ErrRateLimit
	case KindTimeout:
		return ErrTimeout
	case KindServer:
		return ErrServer
	case KindContentFilter:
		return ErrContentFilter
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// Error is a classified request failure.
type Error struct {
	Kind       Kind
	Op         string // operation being attempted, e.g. "complete"
	Endpoint   string
	HTTPStatus int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	switch {
	case e.HTTPStatus > 0 && e.Endpoint != "":
		return fmt.Sprintf("%s: %s [%d] at %s: %s", e.Kind, e.Op, e.HTTPStatus, e.Endpoint, msg)
	case e.Endpoint != "":
		return fmt.Sprintf("%s: %s at %s: %s", e.Kind, e.Op, e.Endpoint, msg)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, msg)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches the per-kind sentinel and other Errors of the same kind.
func (e *Error) Is(target error) bool {
	if target == sentinelFor(e.Kind) && target != nil {
		return true
	}
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind
	}
	return false
}

// New creates a classified error with a literal message.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// NewNetwork creates a network error carrying the endpoint that failed.
func NewNetwork(op, endpoint string, cause error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Endpoint: endpoint, Cause: cause}
}

// NewAuth creates an auth error for the given endpoint.
func NewAuth(op, endpoint, message string) *Error {
	return &Error{Kind: KindAuth, Op: op, Endpoint: endpoint, Message: message}
}

// FromStatus classifies a non-200 HTTP response by status code.
func FromStatus(status int, op, endpoint, body string) *Error {
	kind := KindUnknown
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 429:
		kind = KindRateLimit
	case status == 408 || status == 504:
		kind = KindTimeout
	case status == 400 || status == 413 || status == 422:
		kind = KindValidation
	case status >= 500:
		kind = KindServer
	}
	msg := "request failed"
	if body != "" {
		msg = truncate(body, 200)
	}
	return &Error{Kind: kind, Op: op, Endpoint: endpoint, HTTPStatus: status, Message: msg}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// KindOf returns the kind of err, classifying foreign errors by their
// message text.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Classify(err)
}

// Recoverable reports whether err should be retried.
func Recoverable(err error) bool {
	return KindOf(err).Recoverable()
}

// HTTPStatus returns the HTTP status attached to err, 0 when absent.
func HTTPStatus(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatus
	}
	return 0
}

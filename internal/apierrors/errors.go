// Package apierrors provides the shared error taxonomy for the Truthlinked client.
package apierrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Kind classifies a failure. The set is closed.
type Kind int

const (
	// KindNetwork indicates a connectivity failure (DNS, connect, timeout).
	KindNetwork Kind = iota + 1
	// KindUnauthorized indicates the license key was rejected.
	KindUnauthorized
	// KindForbidden indicates the license tier does not permit the operation.
	KindForbidden
	// KindRateLimitExceeded indicates the tier's request quota is exhausted.
	KindRateLimitExceeded
	// KindInvalidRequest indicates the request failed validation.
	KindInvalidRequest
	// KindServerError indicates a 5xx response.
	KindServerError
	// KindSerialization indicates request or response data could not be (de)serialized.
	KindSerialization
	// KindInvalidResponse indicates the response did not match the expected shape.
	KindInvalidResponse
	// KindLicenseExpired indicates the license key has passed its expiry date.
	KindLicenseExpired
)

var kindNames = map[Kind]string{
	KindNetwork:           "network",
	KindUnauthorized:      "unauthorized",
	KindForbidden:         "forbidden",
	KindRateLimitExceeded: "rate_limit_exceeded",
	KindInvalidRequest:    "invalid_request",
	KindServerError:       "server_error",
	KindSerialization:     "serialization_error",
	KindInvalidResponse:   "invalid_response",
	KindLicenseExpired:    "license_expired",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Retryable reports whether a failure of this kind may succeed on a later attempt.
// Only network failures and server errors are retried; rate limits are left
// to the caller.
func (k Kind) Retryable() bool {
	switch k {
	case KindNetwork, KindServerError:
		return true
	default:
		return false
	}
}

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingLicenseKey is returned when no license key is provided.
	ErrMissingLicenseKey = errors.New("license key is required")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrNetwork matches every KindNetwork error.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized matches every KindUnauthorized error.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden matches every KindForbidden error.
	ErrForbidden = errors.New("access denied: insufficient tier permissions")

	// ErrRateLimited matches every KindRateLimitExceeded error.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest matches every KindInvalidRequest error.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrServerError matches every KindServerError error.
	ErrServerError = errors.New("server error")

	// ErrSerialization matches every KindSerialization error.
	ErrSerialization = errors.New("serialization error")

	// ErrInvalidResponse matches every KindInvalidResponse error.
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrLicenseExpired matches every KindLicenseExpired error.
	ErrLicenseExpired = errors.New("license expired")
)

var kindSentinels = map[Kind]error{
	KindNetwork:           ErrNetwork,
	KindUnauthorized:      ErrUnauthorized,
	KindForbidden:         ErrForbidden,
	KindRateLimitExceeded: ErrRateLimited,
	KindInvalidRequest:    ErrInvalidRequest,
	KindServerError:       ErrServerError,
	KindSerialization:     ErrSerialization,
	KindInvalidResponse:   ErrInvalidResponse,
	KindLicenseExpired:    ErrLicenseExpired,
}

// Error is a classified failure. Reason is always a generic or redacted
// string; raw transport diagnostics and credentials never reach it.
type Error struct {
	Kind       Kind
	Reason     string
	StatusCode int
	RequestID  string
	// RetryAfter is the server's requested wait for rate-limited responses.
	RetryAfter time.Duration
	// Permanent marks a failure that is never retried, whatever its Kind.
	Permanent bool
	// Err is an optional wrapped sentinel. It is not part of Error().
	Err error
}

// New creates an error of the given kind.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

func (e *Error) Error() string {
	msg := e.message()
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request_id: %s)", msg, e.RequestID)
	}
	return msg
}

func (e *Error) message() string {
	base := "unknown error"
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		base = sentinel.Error()
	}
	switch e.Kind {
	case KindNetwork, KindRateLimitExceeded, KindInvalidRequest:
		if e.Reason != "" {
			return base + ": " + e.Reason
		}
	}
	return base
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap creates an error of the given kind that also matches sentinel.
func Wrap(kind Kind, sentinel error, reason string) *Error {
	return &Error{Kind: kind, Reason: reason, Err: sentinel}
}

// Retryable reports whether err is a classified, non-permanent error of a
// retryable kind. Unclassified errors are fatal.
func Retryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && !e.Permanent && e.Kind.Retryable()
}

// KindOf extracts the Kind of a classified error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// WithRequestID returns a copy of the error with the request ID set.
// If the error is not an *Error, it is returned unchanged.
func WithRequestID(err error, requestID string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		cp.RequestID = requestID
		return &cp
	}
	return err
}

// FromStatus maps a non-2xx HTTP status code onto the taxonomy. It returns
// nil for 2xx codes. Reason is only used for the kinds that carry one.
func FromStatus(status int, reason string) *Error {
	var e *Error
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		e = New(KindUnauthorized, "")
	case status == http.StatusForbidden:
		e = New(KindForbidden, "")
	case status == http.StatusTooManyRequests:
		e = New(KindRateLimitExceeded, reason)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		e = New(KindInvalidRequest, reason)
	case status >= 500 && status < 600:
		e = New(KindServerError, "")
	default:
		e = New(KindInvalidResponse, "")
	}
	e.StatusCode = status
	return e
}

// FromTransport maps a transport failure to a Network error with a generic
// reason. The underlying error text is dropped.
func FromTransport(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.Canceled) {
		return New(KindNetwork, "request cancelled")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return New(KindNetwork, "request timeout")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return New(KindNetwork, "request timeout")
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return New(KindNetwork, "connection failed")
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return New(KindNetwork, "connection failed")
	}
	return New(KindNetwork, "")
}

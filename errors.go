package truthlinked

import (
	"errors"
	"time"

	"github.com/truthlinked/sdk-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingLicenseKey is returned when no license key is provided.
	ErrMissingLicenseKey = apierrors.ErrMissingLicenseKey

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = apierrors.ErrClientClosed

	// ErrNetwork is returned for connectivity failures and timeouts.
	ErrNetwork = apierrors.ErrNetwork

	// ErrUnauthorized is returned when the license key is rejected.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrForbidden is returned when the license tier does not permit the operation.
	ErrForbidden = apierrors.ErrForbidden

	// ErrRateLimited is returned when the tier's request quota is exhausted.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrInvalidRequest is returned when a request or the client configuration
	// fails validation.
	ErrInvalidRequest = apierrors.ErrInvalidRequest

	// ErrServerError is returned for 5xx responses.
	ErrServerError = apierrors.ErrServerError

	// ErrSerialization is returned when a request body cannot be encoded.
	ErrSerialization = apierrors.ErrSerialization

	// ErrInvalidResponse is returned when a response cannot be decoded or has
	// an unexpected status.
	ErrInvalidResponse = apierrors.ErrInvalidResponse

	// ErrLicenseExpired is returned when the license key has expired.
	ErrLicenseExpired = apierrors.ErrLicenseExpired
)

// ErrorKind classifies an APIError.
type ErrorKind = apierrors.Kind

// Error kinds.
const (
	KindNetwork           = apierrors.KindNetwork
	KindUnauthorized      = apierrors.KindUnauthorized
	KindForbidden         = apierrors.KindForbidden
	KindRateLimitExceeded = apierrors.KindRateLimitExceeded
	KindInvalidRequest    = apierrors.KindInvalidRequest
	KindServerError       = apierrors.KindServerError
	KindSerialization     = apierrors.KindSerialization
	KindInvalidResponse   = apierrors.KindInvalidResponse
	KindLicenseExpired    = apierrors.KindLicenseExpired
)

// TruthlinkedError is implemented by all SDK errors.
type TruthlinkedError interface {
	error
	TruthlinkedError() // marker method
}

// APIError is a classified failure of an SDK call. Message never contains
// the license key.
type APIError struct {
	Kind       ErrorKind
	StatusCode int    // zero when no response was received
	Message    string // generic or redacted detail
	RequestID  string
	// RetryAfter is the wait requested by the server on rate limiting.
	RetryAfter time.Duration

	permanent bool
	cause     error
}

func (e *APIError) internal() *apierrors.Error {
	return &apierrors.Error{
		Kind:       e.Kind,
		Reason:     e.Message,
		StatusCode: e.StatusCode,
		RequestID:  e.RequestID,
		RetryAfter: e.RetryAfter,
		Permanent:  e.permanent,
		Err:        e.cause,
	}
}

func (e *APIError) Error() string {
	return e.internal().Error()
}

// TruthlinkedError implements the TruthlinkedError interface.
func (e *APIError) TruthlinkedError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return e.internal().Is(target)
}

// Unwrap returns the underlying sentinel, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Retryable reports whether the SDK would retry this failure.
func (e *APIError) Retryable() bool {
	return !e.permanent && e.Kind.Retryable()
}

// IsRetryable reports whether err is an APIError of a retryable kind.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// wrapError converts internal API errors to public errors.
// This ensures that errors.As() finds *APIError for every classified failure.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var internal *apierrors.Error
	if errors.As(err, &internal) {
		return &APIError{
			Kind:       internal.Kind,
			StatusCode: internal.StatusCode,
			Message:    internal.Reason,
			RequestID:  internal.RequestID,
			RetryAfter: internal.RetryAfter,
			permanent:  internal.Permanent,
			cause:      internal.Err,
		}
	}

	return err
}

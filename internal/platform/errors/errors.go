// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode defines supported error codes used across the service.
// Values are returned verbatim on the wire; add sparingly
type ErrorCode string

const (
	// ErrorCodeInternal is for unclassified server-side failures
	ErrorCodeInternal ErrorCode = "internal_error"

	// ErrorCodeOriginRequired is for mutating requests with no Origin header
	ErrorCodeOriginRequired ErrorCode = "origin_required"

	// ErrorCodeOriginNotAllowed is for origins outside the allow-set
	ErrorCodeOriginNotAllowed ErrorCode = "origin_not_allowed"

	// ErrorCodeUnauthorized is for protected routes called without claims
	ErrorCodeUnauthorized ErrorCode = "unauthorized"

	// ErrorCodeInvalidJSON is for bodies that fail JSON parsing
	ErrorCodeInvalidJSON ErrorCode = "invalid_json"

	// ErrorCodeInvalidPayload is for parsed JSON that is not an object
	ErrorCodeInvalidPayload ErrorCode = "invalid_payload"

	// ErrorCodePayloadTooLarge is for bodies over the configured ceiling
	ErrorCodePayloadTooLarge ErrorCode = "payload_too_large"

	// ErrorCodeValidationFailed carries a field->message map
	ErrorCodeValidationFailed ErrorCode = "validation_failed"

	// ErrorCodeInvalidDecision is for moderation decisions outside approved/rejected
	ErrorCodeInvalidDecision ErrorCode = "invalid_decision"

	// ErrorCodeInvalidNote is for non-text moderation notes
	ErrorCodeInvalidNote ErrorCode = "invalid_note"

	// ErrorCodeInvalidReviewID is for missing/empty review id path params
	ErrorCodeInvalidReviewID ErrorCode = "invalid_review_id"

	// ErrorCodeInvalidStatus is for unknown review status filters
	ErrorCodeInvalidStatus ErrorCode = "invalid_status"

	// ErrorCodeInvalidDate is for unparseable availability start dates
	ErrorCodeInvalidDate ErrorCode = "invalid_date"

	// ErrorCodeReviewNotFound is for moderation targets that do not exist
	ErrorCodeReviewNotFound ErrorCode = "review_not_found"

	// ErrorCodeNotFound is for unmapped routes
	ErrorCodeNotFound ErrorCode = "not_found"

	// ErrorCodeMethodNotAllowed is for known paths with the wrong method
	ErrorCodeMethodNotAllowed ErrorCode = "method_not_allowed"

	// ErrorCodeReviewsNotConfigured is for review routes without a table configured
	ErrorCodeReviewsNotConfigured ErrorCode = "reviews_not_configured"

	// ErrorCodeConditionalFailed is for store conditional-write failures
	ErrorCodeConditionalFailed ErrorCode = "conditional_failed"

	// ErrorCodeStoreUnavailable is for store transport or server failures
	ErrorCodeStoreUnavailable ErrorCode = "store_unavailable"
)

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeOriginRequired, ErrorCodeOriginNotAllowed:
		return http.StatusForbidden
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeInvalidJSON, ErrorCodeInvalidPayload, ErrorCodeValidationFailed,
		ErrorCodeInvalidDecision, ErrorCodeInvalidNote, ErrorCodeInvalidReviewID,
		ErrorCodeInvalidStatus, ErrorCodeInvalidDate:
		return http.StatusBadRequest
	case ErrorCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorCodeReviewNotFound, ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorCodeReviewsNotConfigured, ErrorCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeConditionalFailed:
		return http.StatusConflict
	case ErrorCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ClientFacing reports whether the code's message is safe to hand back to
// callers. Internal and store errors are masked behind a generic message
func ClientFacing(c ErrorCode) bool {
	switch c {
	case ErrorCodeInternal, ErrorCodeStoreUnavailable, ErrorCodeConditionalFailed:
		return false
	default:
		return true
	}
}

// InternalMessage is the human fallback returned for masked server errors
const InternalMessage = "Something went wrong on our side. Please try again or email us directly."

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// fields is optional (populated for validation failures); op is an optional operation tag
// orig is the wrapped cause
type Error struct {
	orig   error
	msg    string
	code   ErrorCode
	fields map[string]string
	op     string
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code        ErrorCode         `json:"code"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Fields returns the field-error map, if any
func (e *Error) Fields() map[string]string { return e.fields }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, FieldErrors: e.fields} }

// WireFrom converts any error into a Wire payload with best-effort mapping.
// Non-client-facing codes are masked behind the generic internal message.
// If err is nil, returns the zero-value Wire (no error)
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		if !ClientFacing(e.code) {
			return Wire{Code: ErrorCodeInternal, Message: InternalMessage}
		}
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeInternal, Message: InternalMessage}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to internal
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeInternal
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Validation returns a validation_failed *Error carrying the full field map
func Validation(fields map[string]string) error {
	return &Error{code: ErrorCodeValidationFailed, msg: "Validation failed.", fields: fields}
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// Unauthorizedf returns an unauthorized error
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeInternal, format, a...) }

// JSONErrf returns an invalid_json error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeInvalidJSON, format, a...) }

// Unavailablef returns a store_unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeStoreUnavailable, format, a...) }

// HTTP bundles status + wire in one shot (nice for handlers)
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

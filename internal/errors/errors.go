// Package errors provides the domain errors surfaced by the orchestrator.
//
// Every failure that reaches a caller is an *Error carrying a machine-readable
// Code, a human message and optional diagnostic Details. Handlers map the code
// to an HTTP status; errors.Is matches on the code alone:
//
//	if errors.Is(err, errors.ErrUpstreamTimeout) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is = errors.Is
	As = errors.As
)

// Code represents a machine-readable error code.
type Code string

const (
	CodeValidation         Code = "VALIDATION"
	CodeUpstream           Code = "UPSTREAM"
	CodeUpstreamTimeout    Code = "UPSTREAM_TIMEOUT"
	CodeNoStructuredOutput Code = "NO_STRUCTURED_OUTPUT"
	CodeMalformedOutput    Code = "MALFORMED_OUTPUT"
	CodeIncompleteOutput   Code = "INCOMPLETE_OUTPUT"
	CodeImageFetch         Code = "IMAGE_FETCH"
	CodeNoImageData        Code = "NO_IMAGE_DATA"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code. CodeUpstream
// reports 502 here; an *Error carrying the upstream status overrides it.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case CodeUpstream, CodeNoStructuredOutput, CodeMalformedOutput,
		CodeIncompleteOutput, CodeImageFetch, CodeNoImageData:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	status  int
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// Sentinel errors for use with errors.Is().
var (
	ErrUpstream           = &Error{Code: CodeUpstream, Message: "upstream service error"}
	ErrUpstreamTimeout    = &Error{Code: CodeUpstreamTimeout, Message: "upstream service timed out"}
	ErrNoStructuredOutput = &Error{Code: CodeNoStructuredOutput, Message: "no structured output"}
	ErrMalformedOutput    = &Error{Code: CodeMalformedOutput, Message: "malformed output"}
	ErrIncompleteOutput   = &Error{Code: CodeIncompleteOutput, Message: "incomplete output"}
	ErrImageFetch         = &Error{Code: CodeImageFetch, Message: "image fetch failed"}
	ErrNoImageData        = &Error{Code: CodeNoImageData, Message: "no image data"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// UpstreamDetails describes a non-2xx answer from an external service.
type UpstreamDetails struct {
	Service    string `json:"service"`
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body,omitempty"`
}

// Upstream creates an error for a non-2xx external response. The HTTP status
// mirrors the upstream one when it is a 4xx or 5xx.
func Upstream(service string, statusCode int, body string) *Error {
	e := &Error{
		Code:    CodeUpstream,
		Message: fmt.Sprintf("%s service returned status %d", service, statusCode),
		Details: UpstreamDetails{Service: service, StatusCode: statusCode, Body: body},
	}
	if statusCode >= 400 && statusCode <= 599 {
		e.status = statusCode
	}
	return e
}

// UpstreamTimeout creates an error for an external call that ran out of time.
func UpstreamTimeout(service string, cause error) *Error {
	return &Error{
		Code:    CodeUpstreamTimeout,
		Message: service + " service timed out",
		Details: map[string]string{"service": service},
		cause:   cause,
	}
}

// NoStructuredOutput creates an error for model text that holds no JSON object.
func NoStructuredOutput(raw string) *Error {
	e := &Error{Code: CodeNoStructuredOutput, Message: "text service returned no JSON object"}
	if raw != "" {
		e.Details = map[string]string{"raw": raw}
	}
	return e
}

// MalformedOutput creates an error for a JSON fragment that failed to decode.
func MalformedOutput(fragment string, cause error) *Error {
	return &Error{
		Code:    CodeMalformedOutput,
		Message: "text service returned malformed JSON",
		Details: map[string]string{"fragment": fragment},
		cause:   cause,
	}
}

// IncompleteOutput creates an error naming the required fields that were missing.
func IncompleteOutput(missing []string) *Error {
	return &Error{
		Code:    CodeIncompleteOutput,
		Message: fmt.Sprintf("concept is missing required fields: %v", missing),
		Details: map[string][]string{"missing": missing},
	}
}

// ImageFetch creates an error for a failed download of the remote image.
func ImageFetch(url string, cause error) *Error {
	return &Error{
		Code:    CodeImageFetch,
		Message: "failed to download generated image",
		Details: map[string]string{"url": url},
		cause:   cause,
	}
}

// NoImageData creates an error for an image response with neither data nor URL.
func NoImageData() *Error {
	return &Error{Code: CodeNoImageData, Message: "image service returned no image data"}
}

// RateLimited creates a rate limit error.
func RateLimited(msg string) *Error {
	return &Error{Code: CodeRateLimited, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// From returns err as an *Error, wrapping anything else as CodeInternal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, CodeInternal, "internal error")
}

// Package errors provides custom error types for the ladder backend client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrUnavailable       = errors.New("backend reported failure")
	ErrInvalidResponse   = errors.New("invalid response format")
	ErrCancelled         = errors.New("request cancelled by user")
	ErrEmptyInput        = errors.New("input is empty")
	ErrNothingToRetry    = errors.New("no previous message to retry")
	ErrGenerating        = errors.New("a response is still being generated")
	ErrMissingPrivateKey = errors.New("please enter a private key")
)

// maxBodyLen bounds how much of a failed response body is kept for display
const maxBodyLen = 4096

// APIError represents a non-2xx response that carried no usable JSON body
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError keeping a bounded copy of the body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen]
	}
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// NetworkError represents a transport failure (backend unreachable, reset, DNS)
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("network error during %s", e.Operation)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

// Unwrap exposes the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Cause: cause}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError bound to an endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Cause: cause}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// UnavailableError is a structural failure: the backend answered, but with
// success:false or without the expected shape.
type UnavailableError struct {
	Endpoint string
	Reason   string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s unavailable", e.Endpoint)
	}
	return fmt.Sprintf("%s unavailable: %s", e.Endpoint, e.Reason)
}

// Is allows comparison with sentinel errors
func (e *UnavailableError) Is(target error) bool {
	if target == ErrUnavailable {
		return true
	}
	_, ok := target.(*UnavailableError)
	return ok
}

// NewUnavailableError creates a new UnavailableError
func NewUnavailableError(endpoint, reason string) *UnavailableError {
	return &UnavailableError{Endpoint: endpoint, Reason: reason}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsUnavailable reports whether err is a structural failure
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsCancelled reports whether err is a user-initiated cancellation
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsTransport reports whether err belongs to the transport class:
// unreachable, timeout, non-2xx without a JSON body, or a body that is
// not JSON at all.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	return IsNetworkError(err) || IsTimeoutError(err) || errors.As(err, &apiErr) ||
		IsInvalidResponse(err)
}

// IsInvalidResponse reports whether a response body could not be parsed
func IsInvalidResponse(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// GetHTTPStatus extracts the HTTP status from an APIError, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from structured errors
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.Endpoint
	}
	return ""
}

// GetResponseBody extracts the captured body from an APIError
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// GetReason returns the backend-reported reason of a structural failure
func GetReason(err error) string {
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.Reason
	}
	return ""
}

package utils

import (
	"fmt"
	"net/http"
)

// Error codes with HTTP status mapping
const (
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// HTTPStatus maps error codes to HTTP status codes
var HTTPStatus = map[string]int{
	ErrCodeInvalidRequest:    http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	ErrCodePayloadTooLarge:   http.StatusRequestEntityTooLarge,
	ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
	ErrCodeInternalError:     http.StatusInternalServerError,
}

var defaultMessages = map[string]string{
	ErrCodeInvalidRequest:    "The request is invalid",
	ErrCodeInvalidJSON:       "Invalid JSON format",
	ErrCodePayloadTooLarge:   "Request payload too large",
	ErrCodeRateLimitExceeded: "Rate limit exceeded",
	ErrCodeInternalError:     "Internal server error",
}

// AppError represents an application error with additional context
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status mapped to the error code
func (e *AppError) Status() int {
	if status, ok := HTTPStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorBuilder provides a fluent interface for creating errors
type ErrorBuilder struct {
	code    string
	details string
	cause   error
}

// NewErrorBuilder creates a new error builder
func NewErrorBuilder(code string) *ErrorBuilder {
	return &ErrorBuilder{code: code}
}

func (eb *ErrorBuilder) WithDetails(details string) *ErrorBuilder {
	eb.details = details
	return eb
}

func (eb *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	eb.cause = cause
	return eb
}

// Build constructs the final AppError
func (eb *ErrorBuilder) Build() *AppError {
	return &AppError{
		Code:    eb.code,
		Message: getDefaultMessage(eb.code),
		Details: eb.details,
		Cause:   eb.cause,
	}
}

func getDefaultMessage(code string) string {
	if msg, exists := defaultMessages[code]; exists {
		return msg
	}
	return "Unknown error"
}

// NewInvalidJSONError reports a body that could not be decoded. details
// falls back to the cause's message when empty.
func NewInvalidJSONError(details string, cause error) *AppError {
	if details == "" && cause != nil {
		details = cause.Error()
	}
	return NewErrorBuilder(ErrCodeInvalidJSON).
		WithDetails(details).
		WithCause(cause).
		Build()
}

func NewPayloadTooLargeError(details string) *AppError {
	return NewErrorBuilder(ErrCodePayloadTooLarge).
		WithDetails(details).
		Build()
}

func NewRateLimitError(details string) *AppError {
	return NewErrorBuilder(ErrCodeRateLimitExceeded).
		WithDetails(details).
		Build()
}

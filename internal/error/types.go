package error

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeTimeout    ErrorType = "timeout_error"
	ErrorTypeLLM        ErrorType = "llm_error"
	ErrorTypeRateLimit  ErrorType = "rate_limit_error"
	ErrorTypeUpstream   ErrorType = "upstream_error"
	ErrorTypePlayback   ErrorType = "playback_error"
	ErrorTypeInternal   ErrorType = "internal_error"
	ErrorTypeNotFound   ErrorType = "not_found"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Err        error     `json:"-"`
}

// ------------------------------------------------------------------------------------------------------
// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ------------------------------------------------------------------------------------------------------
func (e *AppError) Unwrap() error {
	return e.Err
}

// ------------------------------------------------------------------------------------------------------
// NewValidationError creates a validation error
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewTimeoutError creates a timeout error
func NewTimeoutError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewLLMError creates an LLM API error
func NewLLMError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeLLM,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewRateLimitError creates a rate limit error
func NewRateLimitError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewUpstreamError creates a transient upstream-service error
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstream,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewPlaybackError creates a playback-provider error
func NewPlaybackError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypePlayback,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewNotFoundError creates a not-found error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewInternalError creates an internal server error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// Retryable reports whether the error is worth retrying. The mapping is the
// retry policy for the whole application: transient transport conditions
// retry, everything the caller got wrong does not. Untyped errors are
// treated as transient, matching the behavior of the upstream SDKs which
// surface plain errors on connection failures.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeLLM, ErrorTypeUpstream:
			return true
		default:
			return false
		}
	}

	return true
}

// ------------------------------------------------------------------------------------------------------
// GetHTTPStatusCode returns the appropriate HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// ------------------------------------------------------------------------------------------------------
// ErrorResponse represents the JSON error response structure
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ------------------------------------------------------------------------------------------------------
// ErrorDetail contains error details
type ErrorDetail struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
}

// ------------------------------------------------------------------------------------------------------
// NewErrorResponse creates a standardized error response
func NewErrorResponse(err error) ErrorResponse {
	var appErr *AppError

	if errors.As(err, &appErr) {
		return ErrorResponse{
			Error: ErrorDetail{
				Type:    appErr.Type,
				Message: appErr.Message,
				Code:    string(appErr.Type),
			},
		}
	}

	return ErrorResponse{
		Error: ErrorDetail{
			Type:    ErrorTypeInternal,
			Message: err.Error(),
			Code:    string(ErrorTypeInternal),
		},
	}
}

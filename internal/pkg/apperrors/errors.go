package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrRateLimited    ErrorType = "RATE_LIMITED"
	ErrUpstream       ErrorType = "UPSTREAM_ERROR"
	ErrInvalidConfig  ErrorType = "INVALID_CONFIG"
	ErrInvalidRequest ErrorType = "INVALID_REQUEST"
	ErrCalculation    ErrorType = "CALCULATION_FAILED"
	ErrInternal       ErrorType = "INTERNAL_ERROR"
)

// AppError is the standard error struct for the application
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	RetryAfter int       `json:"retry_after_seconds,omitempty"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

// NewRateLimited reports a denied admission; waitSeconds is the estimate until the next slot frees up.
func NewRateLimited(waitSeconds int) *AppError {
	err := New(ErrRateLimited, fmt.Sprintf("rate limit reached, wait %ds", waitSeconds), nil)
	err.RetryAfter = waitSeconds
	return err
}

func NewUpstream(msg string, cause error) *AppError {
	return New(ErrUpstream, msg, cause)
}

func NewInvalidConfig(msg string) *AppError {
	return New(ErrInvalidConfig, msg, nil)
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

// Is reports whether err carries an AppError of the given type.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidConfig, ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrUpstream:
		return http.StatusBadGateway
	case ErrCalculation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrRateLimited:
		return "Wait for the reported number of seconds before refreshing again."
	case ErrUpstream:
		return "The price API is unavailable; the next scheduled refresh will try again."
	case ErrInvalidConfig:
		return "Use a refresh interval of at least 30 seconds."
	case ErrCalculation:
		return "Check the position size, entry price and collateral."
	default:
		return ""
	}
}

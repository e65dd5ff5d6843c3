package errors

import (
	"fmt"
)

// NewValidationError creates a validation error with field context
func NewValidationError(field, message string) *AppError {
	return New(ErrCodeValidationFailed, message).
		WithContext("field", field).
		WithUserMessage(fmt.Sprintf("Invalid %s: %s", field, message))
}

// NewConfigError creates a configuration error
func NewConfigError(key, message string) *AppError {
	return New(ErrCodeInvalidConfig, message).
		WithContext("config_key", key).
		WithUserMessage("Configuration error")
}

// NewDatabaseError creates a database error with operation context
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithContext("operation", operation).
		WithUserMessage("Database operation failed")
}

// NewSendChannelError creates an error for a failed send-channel call. The
// user message carries the channel's response body verbatim so the dashboard
// can show it as-is.
func NewSendChannelError(statusCode int, body string, err error) *AppError {
	appErr := Wrap(err, ErrCodeSendChannelAPI, "send channel call failed").
		WithContext("status_code", statusCode)

	if body != "" {
		appErr = appErr.WithUserMessage(body)
	} else {
		appErr = appErr.WithUserMessage("Message delivery failed")
	}

	// 5xx and throttling responses could succeed on a later trigger
	appErr.Retryable = statusCode >= 500 || statusCode == 429 || statusCode == 408

	return appErr
}

// NewNotFoundError creates a not found error with resource context
func NewNotFoundError(resource, identifier string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithContext("resource", resource).
		WithContext("identifier", identifier).
		WithUserMessage(fmt.Sprintf("%s not found", resource))
}

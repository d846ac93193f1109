// Package errors provides standardized error handling for the variant box service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Validation errors surfaced inline to the submitting user.
const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidProduct   ErrorCode = "INVALID_PRODUCT"
	ErrCodeInvalidToken     ErrorCode = "INVALID_TOKEN"
)

// Persistence and lookup errors.
const (
	ErrCodeDatabaseQueryFailed  ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeProductNotFound      ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeRequestNotFound      ErrorCode = "REQUEST_NOT_FOUND"
)

// Best-effort side channels. Never surfaced to the submitting user.
const (
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeIndexingFailed         ErrorCode = "INDEXING_FAILED"
)

// StandardError is the error shape passed between layers.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation builds a non-retryable validation error.
func NewValidation(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

// NewPersistence builds a retryable store error. Retried only by the user
// resubmitting, never automatically.
func NewPersistence(code ErrorCode, message string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now(),
	}
}

// CodeOf extracts the ErrorCode from err, or empty if err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsValidation reports whether err carries one of the validation codes.
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidationFailed, ErrCodeInvalidEmail, ErrCodeInvalidProduct, ErrCodeInvalidToken:
		return true
	}
	return false
}

package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentAmount = errors.New("payment amount must be a positive whole number")
	ErrInvalidDate          = errors.New("invalid calendar date")
	ErrInvalidBackup        = errors.New("invalid backup payload")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeParticipantNotFound = "PARTICIPANT_NOT_FOUND"
	ErrCodePaymentNotFound     = "PAYMENT_NOT_FOUND"
	ErrCodeStorageError        = "STORAGE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
	ErrCodeInvalidBackup       = "INVALID_BACKUP"
)

// Wrap common errors with business context
func WrapValidation(message string, err error) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, err)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		fmt.Sprintf("invalid payment amount %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapParticipantNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeParticipantNotFound,
		fmt.Sprintf("participant with ID %s not found", id),
		ErrParticipantNotFound,
	)
}

func WrapPaymentNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("payment with ID %s not found", id),
		ErrPaymentNotFound,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"storage operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}

func WrapInvalidBackup(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidBackup,
		reason,
		ErrInvalidBackup,
	)
}

// IsValidation reports whether err is a caller-input error.
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation) || hasCode(err, ErrCodeInvalidBackup)
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeParticipantNotFound) || hasCode(err, ErrCodePaymentNotFound)
}

func hasCode(err error, code string) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by DomainError.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeRequestFailed    = "REQUEST_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeTooManyRequests  = "TOO_MANY_REQUESTS"
	CodeInternal         = "INTERNAL_ERROR"
)

// InternalErrorMessage is the envelope message for unhandled failures.
const InternalErrorMessage = "An error occurred while processing your request."

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Errors     []string
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, errs []string) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Errors: errs}
}

// NewValidationError reports field rule failures. It maps to HTTP 400.
func NewValidationError(errs []string) error {
	return NewDomainError(CodeValidationFailed, "Validation failed", http.StatusBadRequest, errs)
}

// NewFailure reports a business-level failure. The transport status stays 200 and
// the envelope carries success=false.
func NewFailure(message string) error {
	return NewDomainError(CodeRequestFailed, message, http.StatusOK, nil)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewTooManyRequests(message string) error {
	return NewDomainError(CodeTooManyRequests, message, http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    InternalErrorMessage,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	de := NewInternalError(err).(*DomainError)
	de.Errors = []string{err.Error()}
	return de
}

// IsFailure reports whether err is a business-level failure with the given message.
func IsFailure(err error, message string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == CodeRequestFailed && domainErr.Message == message
}

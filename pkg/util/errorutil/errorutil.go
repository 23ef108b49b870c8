package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

// Error codes surfaced to API callers.
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeConflict            = "CONFLICT"
	CodeNoActionsAvailable  = "NO_ACTIONS_AVAILABLE"
	CodeNotFound            = "NOT_FOUND"
	CodeBackendPrecondition = "BACKEND_PRECONDITION"
	CodeIntegration         = "INTEGRATION_FAILED"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
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
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewUnauthenticated reports a missing or unusable credential.
func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

// NewForbidden reports a valid identity without the required role.
func NewForbidden(message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return NewDomainError(CodeUnauthorized, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewInvalidTransition reports a status change outside the transition table.
func NewInvalidTransition(message string, details map[string]any) error {
	return NewDomainError(CodeNoActionsAvailable, message, http.StatusConflict, details)
}

// NewBackendPrecondition wraps a store configuration fault such as a missing
// composite index. The message shown to callers never carries the cause.
func NewBackendPrecondition(err error) error {
	return &DomainError{
		Code:       CodeBackendPrecondition,
		Message:    "Something went wrong. Please try again later.",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewIntegrationError(err error) error {
	return &DomainError{
		Code:       CodeIntegration,
		Message:    "integration call failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
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
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewNotFound("resource", nil).(*DomainError)
	case errors.Is(err, repository.ErrDuplicate):
		return NewConflict("resource already exists", nil).(*DomainError)
	case errors.Is(err, repository.ErrReferenced):
		return NewConflict("resource is still in use", nil).(*DomainError)
	case errors.Is(err, repository.ErrJobClosed):
		return NewConflict("This job is no longer open for applications.", nil).(*DomainError)
	case errors.Is(err, repository.ErrStale):
		return NewConflict("resource was modified concurrently, reload and retry", nil).(*DomainError)
	case errors.Is(err, repository.ErrIndexRequired):
		return NewBackendPrecondition(err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// Is reports whether err carries the given domain error code.
func Is(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

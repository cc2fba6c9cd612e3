package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeCookie          ErrorType = "cookie"
	ErrorTypeSave            ErrorType = "save"
	ErrorTypeAuditWrite      ErrorType = "audit_write"
	ErrorTypeAggregationItem ErrorType = "aggregation_item"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeInternal        ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Cookie Errors
	ErrMissingSession = NewDomainError(ErrorTypeCookie, "session cookie missing", nil)
	ErrInvalidSession = NewDomainError(ErrorTypeCookie, "session invalid", nil)

	// Not Found Errors
	ErrUserNotFound  = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrEventNotFound = NewDomainError(ErrorTypeNotFound, "event not found", nil)
	ErrGroupNotFound = NewDomainError(ErrorTypeNotFound, "group not found", nil)

	// Validation Errors
	ErrInvalidInput     = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidGroupType = NewDomainError(ErrorTypeValidation, "invalid group type", nil)
	ErrInvalidGroupID   = NewDomainError(ErrorTypeValidation, "invalid group id", nil)

	// Internal Errors
	ErrInternal      = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "database error", nil)
)

// NewCookieError marks a configuration or authentication failure that
// aborts the bootstrap
func NewCookieError(err error) *DomainError {
	return NewDomainError(ErrorTypeCookie, "session could not be established", err)
}

// NewSaveError marks a failed persistence of staged edits
func NewSaveError(err error) *DomainError {
	return NewDomainError(ErrorTypeSave, "failed to save changes", err)
}

// NewAuditWriteError marks a failed audit insert after a successful save
func NewAuditWriteError(err error) *DomainError {
	return NewDomainError(ErrorTypeAuditWrite, "failed to write audit record", err)
}

// NewAggregationItemError marks a single failed metric fetch for one group
func NewAggregationItemError(groupID int, fetch string, err error) *DomainError {
	return NewDomainError(ErrorTypeAggregationItem, fmt.Sprintf("%s fetch failed", fetch), err).
		WithDetail("group_id", groupID).
		WithDetail("fetch", fetch)
}

// Error type checking helper functions

// IsCookieError checks if an error is a cookie error
func IsCookieError(err error) bool {
	return GetErrorType(err) == ErrorTypeCookie
}

// IsSaveError checks if an error is a save error
func IsSaveError(err error) bool {
	return GetErrorType(err) == ErrorTypeSave
}

// IsAuditWriteError checks if an error is an audit write error
func IsAuditWriteError(err error) bool {
	return GetErrorType(err) == ErrorTypeAuditWrite
}

// IsAggregationItemError checks if an error is an aggregation item error
func IsAggregationItemError(err error) bool {
	return GetErrorType(err) == ErrorTypeAggregationItem
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapValidation wraps an error as a validation error
func WrapValidation(message string, err error) error {
	return NewDomainError(ErrorTypeValidation, message, err)
}

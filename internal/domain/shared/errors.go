package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError so callers can decide how to surface it.
type ErrorKind string

const (
	KindValidation  ErrorKind = "VALIDATION"
	KindNotFound    ErrorKind = "NOT_FOUND"
	KindConflict    ErrorKind = "CONFLICT"
	KindPersistence ErrorKind = "PERSISTENCE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another DomainError by code, so sentinel values work with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an error for input that fails a field rule
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewNotFoundError creates an error for a referenced record that no longer exists
func NewNotFoundError(resource, id string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

// NewConflictError creates an error for a duplicate record
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewPersistenceError wraps a failure of the underlying record store
func NewPersistenceError(key string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindPersistence,
		Code:    "PERSISTENCE_ERROR",
		Message: fmt.Sprintf("record store failed for key %q", key),
		Cause:   cause,
	}
}

// KindOf returns the kind of err when it is (or wraps) a DomainError.
// Anything else is reported as a persistence failure.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

// IsNotFound reports whether err is a NotFound domain error
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsValidation reports whether err is a Validation domain error
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// Common domain errors
var (
	ErrNotFound          = &DomainError{Kind: KindNotFound, Code: "NOT_FOUND", Message: "Resource not found"}
	ErrAlreadyExists     = &DomainError{Kind: KindConflict, Code: "ALREADY_EXISTS", Message: "Resource already exists"}
	ErrInvalidInput      = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidQuantity   = NewValidationError("INVALID_QUANTITY", "Quantity must be greater than zero")
	ErrInvalidPrice      = NewValidationError("INVALID_PRICE", "Price cannot be negative")
	ErrInvalidDiscount   = NewValidationError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	ErrInvalidMarkup     = NewValidationError("INVALID_MARKUP", "Markup cannot be negative")
	ErrInsufficientStock = NewValidationError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidCNIC       = NewValidationError("INVALID_CNIC", "CNIC must have 13 digits")
	ErrInvalidPhone      = NewValidationError("INVALID_PHONE", "Phone number is not valid")
)

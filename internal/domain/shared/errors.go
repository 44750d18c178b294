package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped variants with a
// more specific message still match the sentinel values below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewBusinessRuleError creates an error for a violated business rule
func NewBusinessRuleError(message string) *DomainError {
	return NewDomainError(CodeBusinessRule, message)
}

// NewInvalidInputError creates an invalid input error with a specific message
func NewInvalidInputError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidInput, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a not found error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// NewUpstreamError creates an error for a failed call to an external system.
// The message is shown to API clients, so it must not carry internals.
func NewUpstreamError(system, message string) *DomainError {
	return NewDomainError(CodeUpstream, fmt.Sprintf("%s: %s", system, message))
}

// Domain error codes
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidState        = "INVALID_STATE"
	CodeBusinessRule        = "BUSINESS_RULE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeUpstream            = "UPSTREAM_ERROR"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrBusinessRule        = NewDomainError(CodeBusinessRule, "Business rule violated")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUpstream            = NewDomainError(CodeUpstream, "External system request failed")
)

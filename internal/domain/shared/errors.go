package shared

import (
	"fmt"
	"sort"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// ValidationError reports a single malformed field. It aborts the pending
// write and surfaces as a field-level message to the caller.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IntegrityViolation reports a derived-state invariant that cannot be
// satisfied (for example a required ambient actor that is missing). It aborts
// the surrounding transaction.
type IntegrityViolation struct {
	Entity  string `json:"entity"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *IntegrityViolation) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

// NewIntegrityViolation creates an integrity violation for an entity kind
func NewIntegrityViolation(entity, message string) *IntegrityViolation {
	return &IntegrityViolation{Entity: entity, Message: message}
}

// RegistrationError reports listener domains whose hooks failed to attach.
// Whether it is startup-fatal is decided by configuration.
type RegistrationError struct {
	Domains []string
	Reasons map[string]error
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("listener registration failed for: %s", strings.Join(e.Domains, ", "))
}

// NewRegistrationError creates a registration error from per-domain failures
func NewRegistrationError(reasons map[string]error) *RegistrationError {
	domains := make([]string, 0, len(reasons))
	for d := range reasons {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return &RegistrationError{Domains: domains, Reasons: reasons}
}

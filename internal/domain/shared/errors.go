package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Session errors

type SessionNotFoundError struct {
	*DomainError
	SessionID string
}

func NewSessionNotFoundError(sessionID string) *SessionNotFoundError {
	return &SessionNotFoundError{
		DomainError: NewDomainError(fmt.Sprintf("session not found: %s", sessionID)),
		SessionID:   sessionID,
	}
}

// CatalogDefectError signals a broken resource catalog: an unknown tier, a
// resource missing from its tier, or a recipe table that is not a strict
// binary-merge tree. The catalog is closed and static, so this is never the
// result of player input.
type CatalogDefectError struct {
	*DomainError
	Resource string
	Tier     int
}

func NewCatalogDefectError(resource string, tier int, reason string) *CatalogDefectError {
	msg := fmt.Sprintf("catalog defect: %s", reason)
	if resource != "" {
		msg = fmt.Sprintf("catalog defect for %q (tier %d): %s", resource, tier, reason)
	}
	return &CatalogDefectError{
		DomainError: NewDomainError(msg),
		Resource:    resource,
		Tier:        tier,
	}
}

package service

import (
	"errors"
	"fmt"

	"github.com/webdir/client-provider-api/internal/store"
)

// Sentinel errors surfaced by the directory service. The HTTP boundary
// maps these to status codes and user-facing messages; anything else is a
// storage failure.
var (
	// ErrClientNotFound indicates that the referenced client does not exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrProviderNotFound indicates that the referenced provider does not exist.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrInvalidAssociation indicates that at least one provider id in a
	// client create/update payload does not resolve to an existing provider.
	// The whole operation is rejected; no partial association is persisted.
	ErrInvalidAssociation = errors.New("trying to associate a non-existent provider")
)

// ServiceError wraps errors from the directory service with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_client", "update_provider")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("directory service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("directory service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// Known sentinel errors pass through unwrapped so callers can match them
// with errors.Is; store-level not-found errors are mapped to their
// service-level equivalents.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrProviderNotFound) ||
		errors.Is(err, ErrInvalidAssociation) {
		return err
	}

	if errors.Is(err, store.ErrClientNotFound) {
		return ErrClientNotFound
	}
	if errors.Is(err, store.ErrProviderNotFound) {
		return ErrProviderNotFound
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

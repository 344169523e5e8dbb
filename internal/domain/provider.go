package domain

import (
	"errors"
	"strings"
)

// Common validation errors for Provider
var (
	ErrEmptyProviderName   = errors.New("provider name cannot be empty")
	ErrProviderNameTooLong = errors.New("provider name cannot exceed 50 characters")
)

// Provider is a named entity that can be associated with any number of
// clients. The ID is assigned by the store on creation and is immutable
// afterwards.
type Provider struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewProvider creates a Provider with the given name, leaving the ID
// zero for the store to assign.
// Returns an error if validation fails.
func NewProvider(name string) (*Provider, error) {
	provider := &Provider{
		Name: name,
	}

	if err := provider.Validate(); err != nil {
		return nil, err
	}

	return provider, nil
}

// Validate checks if the Provider has valid data.
// Returns an error if any field fails validation.
func (p *Provider) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProviderName
	}
	if len(p.Name) > MaxNameLength {
		return ErrProviderNameTooLong
	}

	return nil
}

package domain

import (
	"errors"
	"regexp"
	"strings"
)

// Common validation errors for Client
var (
	ErrEmptyClientName    = errors.New("client name cannot be empty")
	ErrClientNameTooLong  = errors.New("client name cannot exceed 50 characters")
	ErrEmptyClientEmail   = errors.New("client email cannot be empty")
	ErrClientEmailTooLong = errors.New("client email cannot exceed 50 characters")
	ErrInvalidClientEmail = errors.New("client email is not a valid email address")
	ErrEmptyClientPhone   = errors.New("client phone cannot be empty")
	ErrInvalidClientPhone = errors.New("client phone must match the pattern NNN-NNN-NNNN")
)

// phonePattern is the only accepted phone format, e.g. "123-123-1234".
var phonePattern = regexp.MustCompile(`^[0-9]{3}-[0-9]{3}-[0-9]{4}$`)

// emailPattern is a deliberately permissive syntax check; full RFC 5322
// parsing is not a goal, matching the boundary layer's schema rule.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MaxNameLength bounds the name and email columns of both entities.
const MaxNameLength = 50

// ProviderRef is a reference to a provider by id, as carried inside a
// client's provider list on create and update requests and responses.
type ProviderRef struct {
	ID int64 `json:"id"`
}

// Client represents a customer with contact fields and zero or more
// associated providers. The ID is assigned by the store on creation and
// is immutable afterwards.
type Client struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Providers []ProviderRef `json:"providers"`
}

// NewClient creates a Client from its scalar fields and provider
// references. The ID is left zero for the store to assign.
// Returns an error if validation fails.
func NewClient(name, email, phone string, providers []ProviderRef) (*Client, error) {
	client := &Client{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Providers: providers,
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	return client, nil
}

// Validate checks if the Client has valid data.
// Returns an error if any field fails validation.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyClientName
	}
	if len(c.Name) > MaxNameLength {
		return ErrClientNameTooLong
	}

	if c.Email == "" {
		return ErrEmptyClientEmail
	}
	if len(c.Email) > MaxNameLength {
		return ErrClientEmailTooLong
	}
	if !emailPattern.MatchString(c.Email) {
		return ErrInvalidClientEmail
	}

	if c.Phone == "" {
		return ErrEmptyClientPhone
	}
	if !phonePattern.MatchString(c.Phone) {
		return ErrInvalidClientPhone
	}

	return nil
}

// ProviderIDs returns the ids of the client's provider references in
// request order, duplicates included.
func (c *Client) ProviderIDs() []int64 {
	ids := make([]int64, 0, len(c.Providers))
	for _, ref := range c.Providers {
		ids = append(ids, ref.ID)
	}
	return ids
}

// ValidPhone reports whether the given string matches the accepted
// phone format. Exposed for the HTTP boundary's validator registration.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

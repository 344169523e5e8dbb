package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	t.Parallel()
	client, err := NewClient("Client 1", "client1@gmail.com", "123-123-1234", []ProviderRef{{ID: 1}, {ID: 2}})

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if client.ID != 0 {
		t.Errorf("Expected zero ID before persistence, got %d", client.ID)
	}

	if client.Name != "Client 1" {
		t.Errorf("Expected name %q, got %q", "Client 1", client.Name)
	}

	if len(client.Providers) != 2 {
		t.Errorf("Expected 2 provider refs, got %d", len(client.Providers))
	}
}

func TestClientValidate(t *testing.T) {
	t.Parallel()
	validClient := Client{
		Name:  "Client 1",
		Email: "client1@gmail.com",
		Phone: "123-123-1234",
	}

	if err := validClient.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(c *Client)
		wantErr error
	}{
		{"empty name", func(c *Client) { c.Name = "" }, ErrEmptyClientName},
		{"blank name", func(c *Client) { c.Name = "   " }, ErrEmptyClientName},
		{"name too long", func(c *Client) { c.Name = strings.Repeat("a", 51) }, ErrClientNameTooLong},
		{"empty email", func(c *Client) { c.Email = "" }, ErrEmptyClientEmail},
		{"email too long", func(c *Client) { c.Email = strings.Repeat("a", 45) + "@x.com" }, ErrClientEmailTooLong},
		{"email missing at", func(c *Client) { c.Email = "client1.gmail.com" }, ErrInvalidClientEmail},
		{"email missing domain", func(c *Client) { c.Email = "client1@" }, ErrInvalidClientEmail},
		{"empty phone", func(c *Client) { c.Phone = "" }, ErrEmptyClientPhone},
		{"phone wrong shape", func(c *Client) { c.Phone = "12-123-1234" }, ErrInvalidClientPhone},
		{"phone with letters", func(c *Client) { c.Phone = "abc-def-ghij" }, ErrInvalidClientPhone},
		{"phone with plus prefix", func(c *Client) { c.Phone = "+54-9291-4444441" }, ErrInvalidClientPhone},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			invalid := validClient
			tc.mutate(&invalid)
			if err := invalid.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestClientProviderIDs(t *testing.T) {
	t.Parallel()
	client := Client{
		Name:      "Client 1",
		Email:     "client1@gmail.com",
		Phone:     "123-123-1234",
		Providers: []ProviderRef{{ID: 3}, {ID: 1}, {ID: 3}},
	}

	ids := client.ProviderIDs()
	if len(ids) != 3 {
		t.Fatalf("Expected 3 ids (duplicates included), got %d", len(ids))
	}
	if ids[0] != 3 || ids[1] != 1 || ids[2] != 3 {
		t.Errorf("Expected ids in request order [3 1 3], got %v", ids)
	}

	client.Providers = nil
	if got := client.ProviderIDs(); len(got) != 0 {
		t.Errorf("Expected empty slice for nil providers, got %v", got)
	}
}

func TestValidPhone(t *testing.T) {
	t.Parallel()
	if !ValidPhone("000-000-0000") {
		t.Error("Expected 000-000-0000 to be valid")
	}
	if ValidPhone("0000-000-0000") {
		t.Error("Expected 0000-000-0000 to be invalid")
	}
	if ValidPhone("123 123 1234") {
		t.Error("Expected space-separated phone to be invalid")
	}
}

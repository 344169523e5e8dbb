package api

import (
	"github.com/webdir/client-provider-api/internal/domain"
	"github.com/webdir/client-provider-api/internal/service"
)

// ProviderRefRequest is a provider reference inside a client payload.
type ProviderRefRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// ClientRequest represents the request body for creating or updating a client.
type ClientRequest struct {
	Name      string               `json:"name"      validate:"required,max=50"`
	Email     string               `json:"email"     validate:"required,email,max=50"`
	Phone     string               `json:"phone"     validate:"required,max=50,phone"`
	Providers []ProviderRefRequest `json:"providers" validate:"omitempty,dive"`
}

// ClientResponse represents the response data for a client.
type ClientResponse struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Phone     string               `json:"phone"`
	Providers []ProviderRefRequest `json:"providers"`
}

// ProviderRequest represents the request body for creating or updating a provider.
type ProviderRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// ProviderResponse represents the response data for a provider.
type ProviderResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// toClientData converts a validated request body into the service payload.
func (req *ClientRequest) toClientData() service.ClientData {
	providers := make([]domain.ProviderRef, 0, len(req.Providers))
	for _, ref := range req.Providers {
		providers = append(providers, domain.ProviderRef{ID: ref.ID})
	}
	return service.ClientData{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Providers: providers,
	}
}

// clientToResponse converts a domain.Client to a ClientResponse.
func clientToResponse(client *domain.Client) ClientResponse {
	providers := make([]ProviderRefRequest, 0, len(client.Providers))
	for _, ref := range client.Providers {
		providers = append(providers, ProviderRefRequest{ID: ref.ID})
	}
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Providers: providers,
	}
}

// providerToResponse converts a domain.Provider to a ProviderResponse.
func providerToResponse(provider *domain.Provider) ProviderResponse {
	return ProviderResponse{
		ID:   provider.ID,
		Name: provider.Name,
	}
}

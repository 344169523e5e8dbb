package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdir/client-provider-api/internal/api/shared"
	"github.com/webdir/client-provider-api/internal/domain"
	"github.com/webdir/client-provider-api/internal/service"
)

// fakeDirectoryService lets each test stub exactly the operations the
// handler under test calls. Unstubbed operations fail the test.
type fakeDirectoryService struct {
	t *testing.T

	listClientsFn  func(ctx context.Context) ([]*domain.Client, error)
	getClientFn    func(ctx context.Context, id int64) (*domain.Client, error)
	createClientFn func(ctx context.Context, data service.ClientData) (*domain.Client, error)
	updateClientFn func(ctx context.Context, id int64, data service.ClientData) (*domain.Client, error)
	deleteClientFn func(ctx context.Context, id int64) error

	listProvidersFn  func(ctx context.Context) ([]*domain.Provider, error)
	createProviderFn func(ctx context.Context, data service.ProviderData) (*domain.Provider, error)
	updateProviderFn func(ctx context.Context, id int64, data service.ProviderData) (*domain.Provider, error)
	deleteProviderFn func(ctx context.Context, id int64) error
}

func (f *fakeDirectoryService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	if f.listClientsFn == nil {
		f.t.Fatal("unexpected call to ListClients")
	}
	return f.listClientsFn(ctx)
}

func (f *fakeDirectoryService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	if f.getClientFn == nil {
		f.t.Fatal("unexpected call to GetClient")
	}
	return f.getClientFn(ctx, id)
}

func (f *fakeDirectoryService) CreateClientWithProviders(ctx context.Context, data service.ClientData) (*domain.Client, error) {
	if f.createClientFn == nil {
		f.t.Fatal("unexpected call to CreateClientWithProviders")
	}
	return f.createClientFn(ctx, data)
}

func (f *fakeDirectoryService) UpdateClientWithProviders(ctx context.Context, id int64, data service.ClientData) (*domain.Client, error) {
	if f.updateClientFn == nil {
		f.t.Fatal("unexpected call to UpdateClientWithProviders")
	}
	return f.updateClientFn(ctx, id, data)
}

func (f *fakeDirectoryService) DeleteClient(ctx context.Context, id int64) error {
	if f.deleteClientFn == nil {
		f.t.Fatal("unexpected call to DeleteClient")
	}
	return f.deleteClientFn(ctx, id)
}

func (f *fakeDirectoryService) ListProviders(ctx context.Context) ([]*domain.Provider, error) {
	if f.listProvidersFn == nil {
		f.t.Fatal("unexpected call to ListProviders")
	}
	return f.listProvidersFn(ctx)
}

func (f *fakeDirectoryService) CreateProvider(ctx context.Context, data service.ProviderData) (*domain.Provider, error) {
	if f.createProviderFn == nil {
		f.t.Fatal("unexpected call to CreateProvider")
	}
	return f.createProviderFn(ctx, data)
}

func (f *fakeDirectoryService) UpdateProvider(ctx context.Context, id int64, data service.ProviderData) (*domain.Provider, error) {
	if f.updateProviderFn == nil {
		f.t.Fatal("unexpected call to UpdateProvider")
	}
	return f.updateProviderFn(ctx, id, data)
}

func (f *fakeDirectoryService) DeleteProvider(ctx context.Context, id int64) error {
	if f.deleteProviderFn == nil {
		f.t.Fatal("unexpected call to DeleteProvider")
	}
	return f.deleteProviderFn(ctx, id)
}

// clientRouter mounts the client routes the way the server does, so URL
// parameters resolve through chi.
func clientRouter(directory service.DirectoryService) http.Handler {
	handler := NewClientHandler(directory, nil)

	r := chi.NewRouter()
	r.Get("/client", handler.ListClients)
	r.Post("/client", handler.AddClient)
	r.Get("/client/{id}", handler.GetClient)
	r.Put("/client/{id}", handler.UpdateClient)
	r.Delete("/client/{id}", handler.DeleteClient)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp.Message
}

func validClientRequest(providerIDs ...int64) map[string]any {
	providers := make([]map[string]any, 0, len(providerIDs))
	for _, id := range providerIDs {
		providers = append(providers, map[string]any{"id": id})
	}
	return map[string]any{
		"name":      "Britney",
		"email":     "britney@spears.com",
		"phone":     "929-144-4441",
		"providers": providers,
	}
}

func TestListClientsEndpoint(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		listClientsFn: func(ctx context.Context) ([]*domain.Client, error) {
			return []*domain.Client{
				{
					ID: 1, Name: "Britney", Email: "britney@spears.com", Phone: "929-144-4441",
					Providers: []domain.ProviderRef{{ID: 2}, {ID: 5}},
				},
			}, nil
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodGet, "/client", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var clients []ClientResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &clients))
	require.Len(t, clients, 1)
	assert.Equal(t, int64(1), clients[0].ID)
	assert.Equal(t, []ProviderRefRequest{{ID: 2}, {ID: 5}}, clients[0].Providers)
}

func TestGetClientEndpoint(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		getClientFn: func(ctx context.Context, id int64) (*domain.Client, error) {
			assert.Equal(t, int64(1), id)
			return &domain.Client{
				ID: 1, Name: "Britney", Email: "britney@spears.com", Phone: "929-144-4441",
			}, nil
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodGet, "/client/1", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var client ClientResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &client))
	assert.Equal(t, "Britney", client.Name)
	assert.NotNil(t, client.Providers)
}

func TestGetClientEndpointNotFound(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		getClientFn: func(ctx context.Context, id int64) (*domain.Client, error) {
			return nil, service.ErrClientNotFound
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodGet, "/client/42", nil)

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Client not found", decodeErrorMessage(t, recorder))
}

func TestGetClientEndpointInvalidID(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{t: t}

	recorder := doJSON(t, clientRouter(directory), http.MethodGet, "/client/abc", nil)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Invalid client ID", decodeErrorMessage(t, recorder))
}

func TestAddClientEndpoint(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		createClientFn: func(ctx context.Context, data service.ClientData) (*domain.Client, error) {
			assert.Equal(t, "Britney", data.Name)
			assert.Equal(t, []domain.ProviderRef{{ID: 1}, {ID: 3}}, data.Providers)
			return &domain.Client{
				ID: 9, Name: data.Name, Email: data.Email, Phone: data.Phone,
				Providers: data.Providers,
			}, nil
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodPost, "/client", validClientRequest(1, 3))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var client ClientResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &client))
	assert.Equal(t, int64(9), client.ID)
	assert.Equal(t, []ProviderRefRequest{{ID: 1}, {ID: 3}}, client.Providers)
}

func TestAddClientEndpointUnknownProvider(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		createClientFn: func(ctx context.Context, data service.ClientData) (*domain.Client, error) {
			return nil, service.ErrInvalidAssociation
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodPost, "/client", validClientRequest(99))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Trying to associate a non-existent provider", decodeErrorMessage(t, recorder))
}

func TestAddClientEndpointValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(body map[string]any)
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(body map[string]any) { delete(body, "name") },
			message: "Invalid Name: required field",
		},
		{
			name:    "bad email",
			mutate:  func(body map[string]any) { body["email"] = "not-an-email" },
			message: "Invalid Email: invalid email format",
		},
		{
			name:    "bad phone",
			mutate:  func(body map[string]any) { body["phone"] = "12345" },
			message: "Invalid Phone: must match the pattern NNN-NNN-NNNN",
		},
		{
			name:    "zero provider id",
			mutate:  func(body map[string]any) { body["providers"] = []map[string]any{{"id": 0}} },
			message: "Invalid ID: required field",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// No service calls expected; validation fails first.
			directory := &fakeDirectoryService{t: t}

			body := validClientRequest()
			tc.mutate(body)

			recorder := doJSON(t, clientRouter(directory), http.MethodPost, "/client", body)

			require.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, tc.message, decodeErrorMessage(t, recorder))
		})
	}
}

func TestAddClientEndpointMalformedJSON(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{t: t}

	req := httptest.NewRequest(http.MethodPost, "/client", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	clientRouter(directory).ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Invalid request format", decodeErrorMessage(t, recorder))
}

func TestUpdateClientEndpoint(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		updateClientFn: func(ctx context.Context, id int64, data service.ClientData) (*domain.Client, error) {
			assert.Equal(t, int64(1), id)
			return &domain.Client{
				ID: 1, Name: data.Name, Email: data.Email, Phone: data.Phone,
				Providers: []domain.ProviderRef{{ID: 2}},
			}, nil
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodPut, "/client/1", validClientRequest(2))

	require.Equal(t, http.StatusOK, recorder.Code)

	var client ClientResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &client))
	assert.Equal(t, []ProviderRefRequest{{ID: 2}}, client.Providers)
}

func TestUpdateClientEndpointNotFound(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		updateClientFn: func(ctx context.Context, id int64, data service.ClientData) (*domain.Client, error) {
			return nil, service.ErrClientNotFound
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodPut, "/client/42", validClientRequest())

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Trying to update a non-existent client", decodeErrorMessage(t, recorder))
}

func TestUpdateClientEndpointUnknownProvider(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		updateClientFn: func(ctx context.Context, id int64, data service.ClientData) (*domain.Client, error) {
			return nil, service.ErrInvalidAssociation
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodPut, "/client/1", validClientRequest(99))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Trying to associate a non-existent provider", decodeErrorMessage(t, recorder))
}

func TestDeleteClientEndpoint(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		deleteClientFn: func(ctx context.Context, id int64) error {
			assert.Equal(t, int64(1), id)
			return nil
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodDelete, "/client/1", nil)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.Bytes())
}

func TestDeleteClientEndpointNotFound(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		deleteClientFn: func(ctx context.Context, id int64) error {
			return service.ErrClientNotFound
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodDelete, "/client/42", nil)

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Client not found", decodeErrorMessage(t, recorder))
}

func TestListClientsEndpointStorageFailure(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectoryService{
		t: t,
		listClientsFn: func(ctx context.Context) ([]*domain.Client, error) {
			return nil, errors.New("connection reset")
		},
	}

	recorder := doJSON(t, clientRouter(directory), http.MethodGet, "/client", nil)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "Failed to list clients", decodeErrorMessage(t, recorder))
}

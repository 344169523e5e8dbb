package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/webdir/client-provider-api/internal/domain"
	"github.com/webdir/client-provider-api/internal/store"
)

// ClientData carries the fields of a client create/update request after the
// HTTP boundary has schema-validated presence and format.
type ClientData struct {
	Name      string
	Email     string
	Phone     string
	Providers []domain.ProviderRef
}

// ProviderData carries the fields of a provider create/update request.
type ProviderData struct {
	Name string
}

// DirectoryService provides client and provider operations, guaranteeing
// that a client's provider associations are internally consistent before
// and during persistence.
type DirectoryService interface {
	// ListClients retrieves all clients including their provider ids.
	ListClients(ctx context.Context) ([]*domain.Client, error)

	// GetClient retrieves a single client by id.
	// Returns ErrClientNotFound if the client does not exist.
	GetClient(ctx context.Context, id int64) (*domain.Client, error)

	// CreateClientWithProviders creates a new client together with its
	// provider associations. Every provider id in data.Providers must
	// resolve to an existing provider; otherwise the call fails with
	// ErrInvalidAssociation and nothing is written. The existence check
	// and the writes run in one transaction.
	CreateClientWithProviders(ctx context.Context, data ClientData) (*domain.Client, error)

	// UpdateClientWithProviders updates the client's scalar fields and
	// replaces its association set wholesale with the resolved provider
	// list. Returns ErrClientNotFound if the client does not exist and
	// ErrInvalidAssociation if any provider id does not resolve; in both
	// cases no mutation is performed.
	UpdateClientWithProviders(ctx context.Context, id int64, data ClientData) (*domain.Client, error)

	// DeleteClient removes a client; its association rows go with it.
	// Returns ErrClientNotFound if the client does not exist.
	DeleteClient(ctx context.Context, id int64) error

	// ListProviders retrieves all providers.
	ListProviders(ctx context.Context) ([]*domain.Provider, error)

	// CreateProvider creates a new provider.
	CreateProvider(ctx context.Context, data ProviderData) (*domain.Provider, error)

	// UpdateProvider updates an existing provider's fields.
	// Returns ErrProviderNotFound if the provider does not exist.
	UpdateProvider(ctx context.Context, id int64, data ProviderData) (*domain.Provider, error)

	// DeleteProvider removes a provider; association rows referencing it
	// go with it while the associated clients stay intact.
	// Returns ErrProviderNotFound if the provider does not exist.
	DeleteProvider(ctx context.Context, id int64) error
}

// directoryServiceImpl implements the DirectoryService interface.
type directoryServiceImpl struct {
	db            *sql.DB
	clientStore   store.ClientStore
	providerStore store.ProviderStore
	logger        *slog.Logger
}

// NewDirectoryService creates a new DirectoryService.
// It returns an error if any of the required dependencies are nil.
func NewDirectoryService(
	db *sql.DB,
	clientStore store.ClientStore,
	providerStore store.ProviderStore,
	logger *slog.Logger,
) (DirectoryService, error) {
	if db == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if clientStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "clientStore cannot be nil",
		}
	}
	if providerStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "providerStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &directoryServiceImpl{
		db:            db,
		clientStore:   clientStore,
		providerStore: providerStore,
		logger:        logger.With("component", "directory_service"),
	}, nil
}

// ListClients retrieves all clients including their provider ids.
func (s *directoryServiceImpl) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clientStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list clients", "error", err)
		return nil, NewServiceError("list_clients", "failed to list clients", err)
	}
	return clients, nil
}

// GetClient retrieves a single client by id.
func (s *directoryServiceImpl) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.clientStore.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to retrieve client", "error", err, "client_id", id)
		}
		return nil, NewServiceError("get_client", "failed to retrieve client", err)
	}
	return client, nil
}

// CreateClientWithProviders creates a client and its association rows in a
// single transaction, after confirming every referenced provider exists.
func (s *directoryServiceImpl) CreateClientWithProviders(
	ctx context.Context,
	data ClientData,
) (*domain.Client, error) {
	client, err := domain.NewClient(data.Name, data.Email, data.Phone, data.Providers)
	if err != nil {
		s.logger.Warn("invalid client data on create", "error", err)
		return nil, NewServiceError("create_client", "invalid client data", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txClients := s.clientStore.WithTx(tx)
		txProviders := s.providerStore.WithTx(tx)

		resolvedIDs, err := s.resolveProviders(ctx, txProviders, client.ProviderIDs())
		if err != nil {
			return err
		}

		if err := txClients.Create(ctx, client); err != nil {
			return NewServiceError("create_client", "failed to save client", err)
		}

		if len(resolvedIDs) > 0 {
			if err := txClients.ReplaceProviders(ctx, client.ID, resolvedIDs); err != nil {
				return NewServiceError("create_client", "failed to save associations", err)
			}
		}

		// Read the association set back so the result reflects storage.
		return s.loadProviders(ctx, txClients, client)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("client created",
		"client_id", client.ID,
		"provider_count", len(client.Providers))
	return client, nil
}

// UpdateClientWithProviders updates the client's scalar fields and replaces
// its association set wholesale, all in one transaction.
func (s *directoryServiceImpl) UpdateClientWithProviders(
	ctx context.Context,
	id int64,
	data ClientData,
) (*domain.Client, error) {
	client := &domain.Client{
		ID:        id,
		Name:      data.Name,
		Email:     data.Email,
		Phone:     data.Phone,
		Providers: data.Providers,
	}
	if err := client.Validate(); err != nil {
		s.logger.Warn("invalid client data on update", "error", err, "client_id", id)
		return nil, NewServiceError("update_client", "invalid client data", err)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txClients := s.clientStore.WithTx(tx)
		txProviders := s.providerStore.WithTx(tx)

		// Look the client up first: a missing client is reported as
		// not-found even when the payload also has unknown providers.
		if _, err := txClients.GetByID(ctx, id); err != nil {
			if !store.IsNotFoundError(err) {
				s.logger.Error("failed to look up client for update", "error", err, "client_id", id)
			}
			return NewServiceError("update_client", "failed to look up client", err)
		}

		resolvedIDs, err := s.resolveProviders(ctx, txProviders, client.ProviderIDs())
		if err != nil {
			return err
		}

		if err := txClients.Update(ctx, client); err != nil {
			return NewServiceError("update_client", "failed to update client", err)
		}

		// Set-replacement: stale associations go, new ones come, retained
		// ones are left untouched. An empty list clears the set.
		if err := txClients.ReplaceProviders(ctx, id, resolvedIDs); err != nil {
			return NewServiceError("update_client", "failed to replace associations", err)
		}

		return s.loadProviders(ctx, txClients, client)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("client updated",
		"client_id", id,
		"provider_count", len(client.Providers))
	return client, nil
}

// DeleteClient removes a client by id.
func (s *directoryServiceImpl) DeleteClient(ctx context.Context, id int64) error {
	if err := s.clientStore.Delete(ctx, id); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to delete client", "error", err, "client_id", id)
		}
		return NewServiceError("delete_client", "failed to delete client", err)
	}
	s.logger.Info("client deleted", "client_id", id)
	return nil
}

// ListProviders retrieves all providers.
func (s *directoryServiceImpl) ListProviders(ctx context.Context) ([]*domain.Provider, error) {
	providers, err := s.providerStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list providers", "error", err)
		return nil, NewServiceError("list_providers", "failed to list providers", err)
	}
	return providers, nil
}

// CreateProvider creates a new provider.
func (s *directoryServiceImpl) CreateProvider(
	ctx context.Context,
	data ProviderData,
) (*domain.Provider, error) {
	provider, err := domain.NewProvider(data.Name)
	if err != nil {
		s.logger.Warn("invalid provider data on create", "error", err)
		return nil, NewServiceError("create_provider", "invalid provider data", err)
	}

	if err := s.providerStore.Create(ctx, provider); err != nil {
		s.logger.Error("failed to create provider", "error", err)
		return nil, NewServiceError("create_provider", "failed to save provider", err)
	}

	s.logger.Info("provider created", "provider_id", provider.ID)
	return provider, nil
}

// UpdateProvider updates an existing provider's fields.
func (s *directoryServiceImpl) UpdateProvider(
	ctx context.Context,
	id int64,
	data ProviderData,
) (*domain.Provider, error) {
	provider := &domain.Provider{ID: id, Name: data.Name}
	if err := provider.Validate(); err != nil {
		s.logger.Warn("invalid provider data on update", "error", err, "provider_id", id)
		return nil, NewServiceError("update_provider", "invalid provider data", err)
	}

	if err := s.providerStore.Update(ctx, provider); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to update provider", "error", err, "provider_id", id)
		}
		return nil, NewServiceError("update_provider", "failed to update provider", err)
	}

	s.logger.Info("provider updated", "provider_id", id)
	return provider, nil
}

// DeleteProvider removes a provider by id.
func (s *directoryServiceImpl) DeleteProvider(ctx context.Context, id int64) error {
	if err := s.providerStore.Delete(ctx, id); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to delete provider", "error", err, "provider_id", id)
		}
		return NewServiceError("delete_provider", "failed to delete provider", err)
	}
	s.logger.Info("provider deleted", "provider_id", id)
	return nil
}

// resolveProviders resolves the requested provider ids against the store.
// A resolved count that differs from the requested count means at least
// one id does not exist (a duplicated id in the request also trips this,
// since resolution collapses duplicates), and the operation is rejected
// with ErrInvalidAssociation before anything is written.
func (s *directoryServiceImpl) resolveProviders(
	ctx context.Context,
	providers store.ProviderStore,
	requested []int64,
) ([]int64, error) {
	if len(requested) == 0 {
		return nil, nil
	}

	resolved, err := providers.GetByIDs(ctx, requested)
	if err != nil {
		s.logger.Error("failed to resolve providers", "error", err)
		return nil, NewServiceError("resolve_providers", "failed to resolve providers", err)
	}

	if len(resolved) != len(requested) {
		s.logger.Warn("association references non-existent providers",
			"requested", len(requested),
			"resolved", len(resolved))
		return nil, ErrInvalidAssociation
	}

	ids := make([]int64, 0, len(resolved))
	for _, provider := range resolved {
		ids = append(ids, provider.ID)
	}
	return ids, nil
}

// loadProviders refreshes the client's provider list from storage so the
// returned entity matches what was committed.
func (s *directoryServiceImpl) loadProviders(
	ctx context.Context,
	clients store.ClientStore,
	client *domain.Client,
) error {
	ids, err := clients.GetProviderIDs(ctx, client.ID)
	if err != nil {
		return NewServiceError("load_providers", "failed to load associations", err)
	}

	client.Providers = make([]domain.ProviderRef, 0, len(ids))
	for _, id := range ids {
		client.Providers = append(client.Providers, domain.ProviderRef{ID: id})
	}
	return nil
}

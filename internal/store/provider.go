package store

import (
	"context"
	"database/sql"

	"github.com/webdir/client-provider-api/internal/domain"
)

// ProviderStore defines the interface for provider data persistence.
type ProviderStore interface {
	// List retrieves all providers.
	// Returns an empty slice when the store holds no providers.
	List(ctx context.Context) ([]*domain.Provider, error)

	// GetByID retrieves a provider by its unique ID.
	// Returns ErrProviderNotFound if the provider does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)

	// GetByIDs retrieves the providers whose ids appear in the given list.
	// Unknown ids are simply absent from the result; callers compare the
	// resolved count against the requested count to detect them.
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Provider, error)

	// Create inserts a new provider row and assigns the generated ID back
	// onto the entity.
	Create(ctx context.Context, provider *domain.Provider) error

	// Update modifies an existing provider's scalar fields.
	// Returns ErrProviderNotFound if the provider does not exist.
	Update(ctx context.Context, provider *domain.Provider) error

	// Delete removes a provider from the store by its ID.
	// Returns ErrProviderNotFound if the provider does not exist.
	//
	// Association rows are removed by the schema's ON DELETE CASCADE
	// constraint; associated clients are left intact.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new ProviderStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) ProviderStore
}

package store

import (
	"context"
	"database/sql"

	"github.com/webdir/client-provider-api/internal/domain"
)

// ClientStore defines the interface for client data persistence.
type ClientStore interface {
	// List retrieves all clients including their associated provider ids.
	// Returns an empty slice when the store holds no clients.
	List(ctx context.Context) ([]*domain.Client, error)

	// GetByID retrieves a client by its unique ID, including its
	// associated provider ids.
	// Returns ErrClientNotFound if the client does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Client, error)

	// Create inserts a new client row from the entity's scalar fields and
	// assigns the generated ID back onto the entity. Association rows are
	// not written here; use ReplaceProviders within the same transaction.
	Create(ctx context.Context, client *domain.Client) error

	// Update modifies an existing client's scalar fields.
	// Returns ErrClientNotFound if the client does not exist.
	Update(ctx context.Context, client *domain.Client) error

	// Delete removes a client from the store by its ID.
	// Returns ErrClientNotFound if the client does not exist.
	//
	// Association rows are removed by the schema's ON DELETE CASCADE
	// constraint, not by application code.
	Delete(ctx context.Context, id int64) error

	// ReplaceProviders makes the client's association set exactly equal to
	// providerIDs: stale rows are deleted, missing rows are inserted, and
	// rows that are both present and requested are left untouched.
	// MUST be run within a transaction together with the client write so a
	// failure leaves no partial association state.
	ReplaceProviders(ctx context.Context, clientID int64, providerIDs []int64) error

	// GetProviderIDs retrieves the ids of the providers currently
	// associated with the given client, in ascending order.
	GetProviderIDs(ctx context.Context, clientID int64) ([]int64, error)

	// WithTx returns a new ClientStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) ClientStore
}

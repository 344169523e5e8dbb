package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/webdir/client-provider-api/internal/domain"
	"github.com/webdir/client-provider-api/internal/platform/logger"
	"github.com/webdir/client-provider-api/internal/store"
)

// PostgresClientStore implements the store.ClientStore interface
// using a PostgreSQL database as the storage backend.
type PostgresClientStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresClientStore creates a new PostgreSQL implementation of the ClientStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresClientStore(db store.DBTX, logger *slog.Logger) *PostgresClientStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresClientStore{
		db:     db,
		logger: logger.With(slog.String("component", "client_store")),
	}
}

// Ensure PostgresClientStore implements store.ClientStore interface
var _ store.ClientStore = (*PostgresClientStore)(nil)

// WithTx implements store.ClientStore.WithTx
func (s *PostgresClientStore) WithTx(tx *sql.Tx) store.ClientStore {
	return &PostgresClientStore{
		db:     tx,
		logger: s.logger,
	}
}

// List implements store.ClientStore.List
// It retrieves all clients with their associated provider ids, ordered by id.
func (s *PostgresClientStore) List(ctx context.Context) ([]*domain.Client, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, email, phone
		FROM client
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query clients", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	clients := []*domain.Client{}
	byID := make(map[int64]*domain.Client)
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.Phone); err != nil {
			log.Error("failed to scan client row", slog.String("error", err.Error()))
			return nil, err
		}
		client.Providers = []domain.ProviderRef{}
		clients = append(clients, &client)
		byID[client.ID] = &client
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning client rows", slog.String("error", err.Error()))
		return nil, err
	}

	if len(clients) == 0 {
		return clients, nil
	}

	assocQuery := `
		SELECT client_id, provider_id
		FROM client_provider
		ORDER BY client_id, provider_id
	`

	assocRows, err := s.db.QueryContext(ctx, assocQuery)
	if err != nil {
		log.Error("failed to query client associations", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := assocRows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for assocRows.Next() {
		var clientID, providerID int64
		if err := assocRows.Scan(&clientID, &providerID); err != nil {
			log.Error("failed to scan association row", slog.String("error", err.Error()))
			return nil, err
		}
		if client, ok := byID[clientID]; ok {
			client.Providers = append(client.Providers, domain.ProviderRef{ID: providerID})
		}
	}
	if err := assocRows.Err(); err != nil {
		log.Error("error after scanning association rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed clients", slog.Int("count", len(clients)))
	return clients, nil
}

// GetByID implements store.ClientStore.GetByID
// It retrieves a client by its unique ID including its provider ids.
// Returns store.ErrClientNotFound if the client does not exist.
func (s *PostgresClientStore) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, email, phone
		FROM client
		WHERE id = $1
	`

	var client domain.Client
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("client not found", slog.Int64("client_id", id))
			return nil, store.ErrClientNotFound
		}
		log.Error("failed to get client by ID",
			slog.String("error", err.Error()),
			slog.Int64("client_id", id))
		return nil, err
	}

	providerIDs, err := s.GetProviderIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Providers = make([]domain.ProviderRef, 0, len(providerIDs))
	for _, providerID := range providerIDs {
		client.Providers = append(client.Providers, domain.ProviderRef{ID: providerID})
	}

	return &client, nil
}

// Create implements store.ClientStore.Create
// It inserts the client's scalar fields and assigns the generated id back
// onto the entity. Association rows are written by ReplaceProviders.
func (s *PostgresClientStore) Create(ctx context.Context, client *domain.Client) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := client.Validate(); err != nil {
		log.Warn("client validation failed during create",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO client (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, client.Name, client.Email, client.Phone).
		Scan(&client.ID)
	if err != nil {
		log.Error("failed to create client",
			slog.String("error", err.Error()),
			slog.String("name", client.Name))
		return err
	}

	log.Info("client created successfully", slog.Int64("client_id", client.ID))
	return nil
}

// Update implements store.ClientStore.Update
// It modifies an existing client's scalar fields.
// Returns store.ErrClientNotFound if the client does not exist.
func (s *PostgresClientStore) Update(ctx context.Context, client *domain.Client) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := client.Validate(); err != nil {
		log.Warn("client validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("client_id", client.ID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE client
		SET name = $1, email = $2, phone = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, client.Name, client.Email, client.Phone, client.ID)
	if err != nil {
		log.Error("failed to update client",
			slog.String("error", err.Error()),
			slog.Int64("client_id", client.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("client_id", client.ID))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("client not found for update", slog.Int64("client_id", client.ID))
		return store.ErrClientNotFound
	}

	log.Info("client updated successfully", slog.Int64("client_id", client.ID))
	return nil
}

// Delete implements store.ClientStore.Delete
// It removes a client by its ID; the schema's ON DELETE CASCADE constraint
// removes the client's association rows.
// Returns store.ErrClientNotFound if the client does not exist.
func (s *PostgresClientStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM client
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete client",
			slog.String("error", err.Error()),
			slog.Int64("client_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("client_id", id))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("client not found for delete", slog.Int64("client_id", id))
		return store.ErrClientNotFound
	}

	log.Info("client deleted successfully", slog.Int64("client_id", id))
	return nil
}

// ReplaceProviders implements store.ClientStore.ReplaceProviders
// It makes the client's association set exactly equal to providerIDs:
// stale rows are deleted, missing rows are inserted, retained rows are
// left untouched. Run it inside a transaction with the client write.
func (s *PostgresClientStore) ReplaceProviders(ctx context.Context, clientID int64, providerIDs []int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(providerIDs) == 0 {
		query := `DELETE FROM client_provider WHERE client_id = $1`
		if _, err := s.db.ExecContext(ctx, query, clientID); err != nil {
			log.Error("failed to clear client associations",
				slog.String("error", err.Error()),
				slog.Int64("client_id", clientID))
			return err
		}
		return nil
	}

	// Remove associations that are no longer requested.
	placeholders := make([]string, 0, len(providerIDs))
	deleteArgs := make([]any, 0, len(providerIDs)+1)
	deleteArgs = append(deleteArgs, clientID)
	for i, providerID := range providerIDs {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		deleteArgs = append(deleteArgs, providerID)
	}

	deleteQuery := fmt.Sprintf(
		`DELETE FROM client_provider WHERE client_id = $1 AND provider_id NOT IN (%s)`,
		strings.Join(placeholders, ", "),
	)
	if _, err := s.db.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		log.Error("failed to delete stale client associations",
			slog.String("error", err.Error()),
			slog.Int64("client_id", clientID))
		return err
	}

	// Insert the requested associations, keeping rows that already exist.
	values := make([]string, 0, len(providerIDs))
	insertArgs := make([]any, 0, len(providerIDs)+1)
	insertArgs = append(insertArgs, clientID)
	for i, providerID := range providerIDs {
		values = append(values, fmt.Sprintf("($1, $%d)", i+2))
		insertArgs = append(insertArgs, providerID)
	}

	insertQuery := fmt.Sprintf(
		`INSERT INTO client_provider (client_id, provider_id) VALUES %s ON CONFLICT DO NOTHING`,
		strings.Join(values, ", "),
	)
	if _, err := s.db.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("association references a missing entity",
				slog.String("error", err.Error()),
				slog.Int64("client_id", clientID))
			return fmt.Errorf("%w: client %d or one of providers %v",
				store.ErrForeignKeyViolation, clientID, providerIDs)
		}
		log.Error("failed to insert client associations",
			slog.String("error", err.Error()),
			slog.Int64("client_id", clientID))
		return err
	}

	log.Debug("client associations replaced",
		slog.Int64("client_id", clientID),
		slog.Int("provider_count", len(providerIDs)))
	return nil
}

// GetProviderIDs implements store.ClientStore.GetProviderIDs
// It retrieves the ids of the providers associated with the client in
// ascending order.
func (s *PostgresClientStore) GetProviderIDs(ctx context.Context, clientID int64) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT provider_id
		FROM client_provider
		WHERE client_id = $1
		ORDER BY provider_id
	`

	rows, err := s.db.QueryContext(ctx, query, clientID)
	if err != nil {
		log.Error("failed to query client provider ids",
			slog.String("error", err.Error()),
			slog.Int64("client_id", clientID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	ids := []int64{}
	for rows.Next() {
		var providerID int64
		if err := rows.Scan(&providerID); err != nil {
			log.Error("failed to scan provider id row",
				slog.String("error", err.Error()),
				slog.Int64("client_id", clientID))
			return nil, err
		}
		ids = append(ids, providerID)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning provider id rows",
			slog.String("error", err.Error()),
			slog.Int64("client_id", clientID))
		return nil, err
	}

	return ids, nil
}

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

// PostgresProviderStore implements the store.ProviderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProviderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProviderStore creates a new PostgreSQL implementation of the ProviderStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProviderStore(db store.DBTX, logger *slog.Logger) *PostgresProviderStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProviderStore{
		db:     db,
		logger: logger.With(slog.String("component", "provider_store")),
	}
}

// Ensure PostgresProviderStore implements store.ProviderStore interface
var _ store.ProviderStore = (*PostgresProviderStore)(nil)

// WithTx implements store.ProviderStore.WithTx
func (s *PostgresProviderStore) WithTx(tx *sql.Tx) store.ProviderStore {
	return &PostgresProviderStore{
		db:     tx,
		logger: s.logger,
	}
}

// List implements store.ProviderStore.List
// It retrieves all providers ordered by id.
func (s *PostgresProviderStore) List(ctx context.Context) ([]*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name
		FROM provider
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query providers", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	providers := []*domain.Provider{}
	for rows.Next() {
		var provider domain.Provider
		if err := rows.Scan(&provider.ID, &provider.Name); err != nil {
			log.Error("failed to scan provider row", slog.String("error", err.Error()))
			return nil, err
		}
		providers = append(providers, &provider)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning provider rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed providers", slog.Int("count", len(providers)))
	return providers, nil
}

// GetByID implements store.ProviderStore.GetByID
// Returns store.ErrProviderNotFound if the provider does not exist.
func (s *PostgresProviderStore) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name
		FROM provider
		WHERE id = $1
	`

	var provider domain.Provider
	err := s.db.QueryRowContext(ctx, query, id).Scan(&provider.ID, &provider.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("provider not found", slog.Int64("provider_id", id))
			return nil, store.ErrProviderNotFound
		}
		log.Error("failed to get provider by ID",
			slog.String("error", err.Error()),
			slog.Int64("provider_id", id))
		return nil, err
	}

	return &provider, nil
}

// GetByIDs implements store.ProviderStore.GetByIDs
// Unknown ids are absent from the result; callers detect them by comparing
// the resolved count against the requested count.
func (s *PostgresProviderStore) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Provider{}, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`SELECT id, name FROM provider WHERE id IN (%s) ORDER BY id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query providers by ids", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	providers := []*domain.Provider{}
	for rows.Next() {
		var provider domain.Provider
		if err := rows.Scan(&provider.ID, &provider.Name); err != nil {
			log.Error("failed to scan provider row", slog.String("error", err.Error()))
			return nil, err
		}
		providers = append(providers, &provider)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning provider rows", slog.String("error", err.Error()))
		return nil, err
	}

	return providers, nil
}

// Create implements store.ProviderStore.Create
// It inserts the provider and assigns the generated id back onto the entity.
func (s *PostgresProviderStore) Create(ctx context.Context, provider *domain.Provider) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := provider.Validate(); err != nil {
		log.Warn("provider validation failed during create",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO provider (name)
		VALUES ($1)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, provider.Name).Scan(&provider.ID)
	if err != nil {
		log.Error("failed to create provider",
			slog.String("error", err.Error()),
			slog.String("name", provider.Name))
		return err
	}

	log.Info("provider created successfully", slog.Int64("provider_id", provider.ID))
	return nil
}

// Update implements store.ProviderStore.Update
// Returns store.ErrProviderNotFound if the provider does not exist.
func (s *PostgresProviderStore) Update(ctx context.Context, provider *domain.Provider) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := provider.Validate(); err != nil {
		log.Warn("provider validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("provider_id", provider.ID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE provider
		SET name = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, provider.Name, provider.ID)
	if err != nil {
		log.Error("failed to update provider",
			slog.String("error", err.Error()),
			slog.Int64("provider_id", provider.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("provider_id", provider.ID))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("provider not found for update", slog.Int64("provider_id", provider.ID))
		return store.ErrProviderNotFound
	}

	log.Info("provider updated successfully", slog.Int64("provider_id", provider.ID))
	return nil
}

// Delete implements store.ProviderStore.Delete
// It removes a provider by its ID; the schema's ON DELETE CASCADE
// constraint removes the provider's association rows while clients stay
// untouched.
// Returns store.ErrProviderNotFound if the provider does not exist.
func (s *PostgresProviderStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM provider
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete provider",
			slog.String("error", err.Error()),
			slog.Int64("provider_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("provider_id", id))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("provider not found for delete", slog.Int64("provider_id", id))
		return store.ErrProviderNotFound
	}

	log.Info("provider deleted successfully", slog.Int64("provider_id", id))
	return nil
}

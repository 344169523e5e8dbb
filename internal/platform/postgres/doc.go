// Package postgres contains the PostgreSQL implementations of the store
// interfaces. Stores operate on a store.DBTX so the same implementation
// serves both pooled connections and transactions; referential integrity
// of the client_provider join table is enforced by the schema's foreign
// keys with ON DELETE CASCADE.
package postgres

// Package store defines the persistence interfaces for the directory's
// entities, the sentinel errors shared by all implementations, and the
// transaction helper used by the service layer to run check-then-write
// sequences atomically.
package store

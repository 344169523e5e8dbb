// Package api provides the HTTP handlers for the client/provider
// directory: CRUD routes for both entities, request decoding and schema
// validation, and the mapping from service errors to HTTP status codes
// and safe user-facing messages.
package api

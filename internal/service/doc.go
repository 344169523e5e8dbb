// Package service contains the directory's business logic. Its center is
// the association-consistency rule: a client may only be created or updated
// with provider references that all resolve to existing providers, and the
// existence check plus the writes run inside a single transaction so a
// failure partway leaves no partial association state.
package service

// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to application settings needed by different components while keeping
// configuration details separate from business logic. The loaded Config is an
// explicit value injected into constructors; no component reads ambient
// global configuration state.
package config

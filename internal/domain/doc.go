// Package domain contains the core entities of the client/provider
// directory: clients, providers, and the rules that make an instance of
// either valid. The package has no dependencies on storage or transport;
// validation here is the last line of defense behind the HTTP boundary's
// schema validation.
package domain

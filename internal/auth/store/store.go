// Package store defines the data access interfaces for the client registry
// and the token store. Concrete drivers live under drivers/; the default is
// the JSON file driver, which rewrites its backing documents wholesale on
// every mutation.
package store

import (
	"context"
	"errors"

	"github.com/inkpress/draftgate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. It exposes sub-repositories to
// keep concerns tidy and testable.
type Store interface {
	Clients() Clients
	Tokens() Tokens

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing storage is reachable and writable.
	Ping(ctx context.Context) error
}

type Clients interface {
	// GetClientByID fetches a registered client. The persisted set is loaded
	// lazily on first access per process lifetime and cached in memory.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// CreateClient inserts a new client and immediately re-persists the full
	// set (overwrite, not append).
	CreateClient(ctx context.Context, c domain.Client) error

	// ListClients returns all registered clients.
	ListClients(ctx context.Context) ([]domain.Client, error)
}

type Tokens interface {
	// GetToken fetches a token by its exact value.
	GetToken(ctx context.Context, value string) (domain.Token, error)

	// ReplaceTokens removes every value in deletes and installs every token
	// in puts as a single mutation with one durable write. Values absent
	// from the store are ignored, so a double delete is harmless.
	ReplaceTokens(ctx context.Context, deletes []string, puts []domain.Token) error

	// ListTokens returns all live tokens currently in the store.
	ListTokens(ctx context.Context) ([]domain.Token, error)
}

// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never driver or wire types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Every query is parameterized; adapters never splice user input into SQL
package ports

import (
	"context"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
)

// AccountRepository is the durable credential and profile store.
//
// Implementations MUST enforce username uniqueness at the storage layer.
// The application checks for an existing username before inserting, but two
// concurrent registrations can both pass that check; only the store can
// reject the second insert.
type AccountRepository interface {
	// FindByUsername returns the account for username.
	// Returns domain.ErrNotFound if no account exists.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)

	// Create inserts a new account with profile_complete = false.
	// Returns domain.ErrConflict if the username is already taken.
	Create(ctx context.Context, username, passwordHash string) (*domain.Account, error)

	// CompleteProfile stores every profile field and marks the profile complete
	// in a single update.
	// Returns domain.ErrNotFound if no account exists.
	CompleteProfile(ctx context.Context, username string, profile domain.Profile) error

	// UpdateProfile overwrites the profile fields without touching profile_complete.
	// Returns domain.ErrNotFound if no account exists.
	UpdateProfile(ctx context.Context, username string, profile domain.Profile) error
}

// QuoteRepository is the durable quote store.
type QuoteRepository interface {
	// CountForUser returns how many quotes userID already owns.
	CountForUser(ctx context.Context, userID int64) (int, error)

	// Insert persists quote and returns it with ID and CreatedAt assigned.
	Insert(ctx context.Context, quote *domain.Quote) (*domain.Quote, error)

	// ListForUser returns every quote owned by userID, most recent first.
	ListForUser(ctx context.Context, userID int64) ([]domain.Quote, error)
}

// PasswordHasher is a one-way password hash capability.
type PasswordHasher interface {
	// Hash returns an encoded hash of plaintext.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. Malformed hashes never match.
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints and checks opaque session tokens bound to a username.
// The signing scheme is an adapter concern.
type TokenIssuer interface {
	// Issue returns a token for username valid for the issuer's fixed lifetime.
	Issue(username string) (string, error)

	// Verify returns the username bound to token.
	// Returns domain.ErrUnauthorized for expired, malformed or forged tokens.
	Verify(token string) (string, error)
}

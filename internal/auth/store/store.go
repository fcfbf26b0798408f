package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and only the root store can open a transaction.
type Store interface {
	Users() Users
	ResetCodes() ResetCodes

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx exposes the repositories bound to one open transaction.
type Tx interface {
	Users() Users
	ResetCodes() ResetCodes
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is an exact, case-sensitive match.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A taken username returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string, at time.Time) error

	// UpdateStatus sets the account status and bumps updated_at.
	UpdateStatus(ctx context.Context, userID string, status string, at time.Time) error
}

type ResetCodes interface {
	// CreateResetCode inserts a new unused code.
	CreateResetCode(ctx context.Context, c domain.ResetCode) error

	// DeleteUnusedResetCodes removes every unused code for email.
	DeleteUnusedResetCodes(ctx context.Context, email string) error

	// GetUnusedResetCode returns the unused code matching email and hash.
	GetUnusedResetCode(ctx context.Context, email, codeHash string) (domain.ResetCode, error)

	// MarkResetCodeUsed sets used. Marking an already used code succeeds.
	MarkResetCodeUsed(ctx context.Context, id string) error

	// DeleteStaleResetCodes removes used codes and codes created before
	// cutoff, returning how many rows went.
	DeleteStaleResetCodes(ctx context.Context, cutoff time.Time) (int64, error)
}

// Package store defines the persistence ports for users and transactions.
// Adapters live in the sqlite and memory subpackages.
package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotFound      = errors.New("transaction not found")
)

// User is an account holder. PasswordHash is a bcrypt digest; the plaintext
// never reaches this layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

type (
	// TransactionStore holds transactions per user. Appends are atomic:
	// a failed insert leaves nothing visible to subsequent reads.
	TransactionStore interface {
		// Append persists a transaction and returns its assigned ID.
		Append(ctx context.Context, tx core.Transaction) (int64, error)

		// ListByUser returns all of a user's transactions, date descending.
		ListByUser(ctx context.Context, userID int64) ([]core.Transaction, error)

		// ListByUserBetween returns a user's transactions with
		// from <= date <= to, date descending.
		ListByUserBetween(ctx context.Context, userID int64, from, to core.Date) ([]core.Transaction, error)
	}

	// UserStore holds account credentials for the auth layer.
	UserStore interface {
		// CreateUser registers a user; ErrUsernameTaken on duplicates.
		CreateUser(ctx context.Context, username, passwordHash string) (User, error)

		// GetUserByUsername resolves a login name; ErrUserNotFound if absent.
		GetUserByUsername(ctx context.Context, username string) (User, error)

		// GetUserByID resolves a session's user id; ErrUserNotFound if absent.
		GetUserByID(ctx context.Context, id int64) (User, error)
	}
)

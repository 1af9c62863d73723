package storage

import (
	"context"

	"github.com/relaychat/relaychat/internal/model"
)

// Store defines the interface for account persistence.
//
// CreateAccount must be atomic per username: when two registrations race on
// the same new name, exactly one succeeds and the other observes
// model.ErrAccountExists.
type Store interface {
	// CreateAccount persists a new account, failing with
	// model.ErrAccountExists if the username is already taken.
	CreateAccount(ctx context.Context, account *model.Account) error

	// GetAccount returns the account for a username, or
	// model.ErrAccountNotFound.
	GetAccount(ctx context.Context, username string) (*model.Account, error)

	// AccountExists reports whether a username is taken.
	AccountExists(ctx context.Context, username string) (bool, error)
}

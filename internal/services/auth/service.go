package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/relaychat/relaychat/internal/dependencies/clock"
	"github.com/relaychat/relaychat/internal/model"
	"github.com/relaychat/relaychat/internal/storage"
)

// Errors
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrUnknownUser    = errors.New("unknown user")
	ErrBadPassword    = errors.New("wrong password")
)

// Service handles credential validation and persistence.
// It never touches the client registry; the caller decides whether a
// successful login or registration results in an online session.
type Service struct {
	store  storage.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new auth Service
func New(store storage.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger.With(slog.String("component", "auth")),
	}
}

// Register creates a new account. The username length is validated before
// any store lookup; uniqueness is enforced by the store's atomic create.
// No password strength rules are applied.
func (s *Service) Register(ctx context.Context, username, password string) (*model.Account, error) {
	if !model.ValidUsername(username) {
		return nil, model.ErrInvalidUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, model.ErrAccountExists) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	s.logger.Info("account registered", slog.String("username", username))
	return account, nil
}

// UsernameTaken reports whether a username is already registered in the
// account store (not merely online).
func (s *Service) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.store.AccountExists(ctx, username)
}

// Login checks a username/password pair against the store.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Account, error) {
	if !model.ValidUsername(username) {
		return nil, model.ErrInvalidUsername
	}

	account, err := s.store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadPassword
	}

	s.logger.Info("login succeeded", slog.String("username", username))
	return account, nil
}

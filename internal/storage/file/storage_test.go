package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/relaychat/relaychat/internal/model"
)

type StorageSuite struct {
	suite.Suite
	path    string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "users.json")

	storage, err := New(s.path)
	s.Require().NoError(err)
	s.storage = storage
	s.ctx = context.Background()
}

func (s *StorageSuite) TestNewCreatesEmptyStoreFile() {
	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.JSONEq(`{}`, string(data))
}

func (s *StorageSuite) TestCreateAndGetAccount() {
	account := &model.Account{
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	err := s.storage.CreateAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash123", retrieved.PasswordHash)
	s.True(account.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestCreateAccountRejectsDuplicate() {
	_ = s.storage.CreateAccount(s.ctx, &model.Account{Username: "alice", PasswordHash: "hash123"})

	err := s.storage.CreateAccount(s.ctx, &model.Account{Username: "alice", PasswordHash: "other"})
	s.ErrorIs(err, model.ErrAccountExists)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestAccountExists() {
	_ = s.storage.CreateAccount(s.ctx, &model.Account{Username: "alice", PasswordHash: "hash123"})

	exists, err := s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.AccountExists(s.ctx, "nonexistent")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestAccountsSurviveReopen() {
	_ = s.storage.CreateAccount(s.ctx, &model.Account{Username: "alice", PasswordHash: "hash123"})

	reopened, err := New(s.path)
	s.Require().NoError(err)

	retrieved, err := reopened.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("hash123", retrieved.PasswordHash)
}

func (s *StorageSuite) TestReopenDoesNotTruncateExistingFile() {
	_ = s.storage.CreateAccount(s.ctx, &model.Account{Username: "alice", PasswordHash: "hash123"})

	_, err := New(s.path)
	s.Require().NoError(err)

	exists, err := s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}

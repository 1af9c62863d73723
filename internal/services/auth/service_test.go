package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/relaychat/relaychat/internal/dependencies/mocks"
	"github.com/relaychat/relaychat/internal/model"
	"github.com/relaychat/relaychat/internal/storage/memory"
	"github.com/relaychat/relaychat/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	account, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.Equal("alice", account.Username)
	s.Equal(s.clock.CurrentTime, account.CreatedAt)
}

func (s *ServiceSuite) TestRegisterPersistsHashedPassword() {
	_, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	stored, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(stored.PasswordHash)
	s.NotEqual("password123", stored.PasswordHash)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameExists() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	_, err := s.service.Register(s.ctx, "alice", "different")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterRejectsShortUsername() {
	_, err := s.service.Register(s.ctx, "abc", "password123")
	s.ErrorIs(err, model.ErrInvalidUsername)
}

func (s *ServiceSuite) TestRegisterRejectsLongUsername() {
	_, err := s.service.Register(s.ctx, "averylongusername", "password123")
	s.ErrorIs(err, model.ErrInvalidUsername)
}

func (s *ServiceSuite) TestRegisterValidatesLengthBeforeUniqueness() {
	// The invalid name never reaches the store, so no account appears
	_, err := s.service.Register(s.ctx, "abc", "password123")
	s.ErrorIs(err, model.ErrInvalidUsername)

	exists, err := s.storage.AccountExists(s.ctx, "abc")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ServiceSuite) TestRegisterDoesNotCheckPasswordStrength() {
	_, err := s.service.Register(s.ctx, "alice", "x")
	s.NoError(err)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceedsAfterRegister() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	account, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal("alice", account.Username)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrBadPassword)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrUnknownUser)
}

func (s *ServiceSuite) TestLoginRejectsInvalidUsernameBeforeLookup() {
	_, err := s.service.Login(s.ctx, "abc", "password123")
	s.ErrorIs(err, model.ErrInvalidUsername)
}

func (s *ServiceSuite) TestUsernamesAreCaseSensitive() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	_, err := s.service.Login(s.ctx, "Alice", "password123")
	s.ErrorIs(err, ErrUnknownUser)
}

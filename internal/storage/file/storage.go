package file

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/relaychat/relaychat/internal/model"
	"github.com/relaychat/relaychat/internal/storage"
)

// Storage is a JSON-file-backed implementation of the account store.
//
// The file holds a flat mapping of username to account record and is
// re-read before every lookup and rewritten after every successful
// registration, so edits made while the server is stopped are picked up.
// All file access is serialized under a single mutex, which makes
// CreateAccount's check-then-insert atomic per process.
type Storage struct {
	mu   sync.Mutex
	path string
}

// record is the on-disk shape of one account
type record struct {
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// New creates a file storage instance, creating an empty store file
// if one does not exist yet.
func New(path string) (*Storage, error) {
	s := &Storage{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(map[string]record{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := records[account.Username]; ok {
		return model.ErrAccountExists
	}

	records[account.Username] = record{
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
	}
	return s.save(records)
}

func (s *Storage) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	rec, ok := records[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}

	return &model.Account{
		Username:     username,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := records[username]
	return ok, nil
}

func (s *Storage) load() (map[string]record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	records := make(map[string]record)
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Storage) save(records map[string]record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

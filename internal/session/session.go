// Package session tracks the single identity driving the client. It stores
// only the account id and resolves the account from the directory on every
// read, so the session can never hold a stale copy of a balance.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
)

// Directory is the part of the ledger the session needs.
type Directory interface {
	Authenticate(ctx context.Context, username, password string) (models.Account, error)
	Account(ctx context.Context, id string) (models.Account, error)
}

var ErrNoSession = errors.New("no active session")

type Session struct {
	dir Directory

	mu        sync.RWMutex
	accountID string
}

func New(dir Directory) *Session {
	return &Session{dir: dir}
}

// Login replaces the current session on success. A failed login clears it.
func (s *Session) Login(ctx context.Context, username, password string) (models.Account, error) {
	account, err := s.dir.Authenticate(ctx, username, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.accountID = ""
		return models.Account{}, err
	}
	s.accountID = account.ID
	return account, nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.accountID = ""
	s.mu.Unlock()
}

// AccountID returns the session key, or "" when nobody is logged in.
func (s *Session) AccountID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountID
}

// Current resolves the logged-in account from the directory.
func (s *Session) Current(ctx context.Context) (models.Account, error) {
	id := s.AccountID()
	if id == "" {
		return models.Account{}, ErrNoSession
	}
	return s.dir.Account(ctx, id)
}

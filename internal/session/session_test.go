package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sheikh-saqib/apb-demo-bank/internal/ledger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/seed"
	"github.com/sheikh-saqib/apb-demo-bank/internal/session"
	"github.com/sheikh-saqib/apb-demo-bank/internal/storage/memory"
	"github.com/shopspring/decimal"
)

func newSession(t *testing.T) (*session.Session, *ledger.Ledger) {
	t.Helper()
	store := memory.NewMemoryLedgerStore()
	if err := seed.Run(context.Background(), store, time.Now()); err != nil {
		t.Fatal(err)
	}
	l := ledger.NewLedger(store)
	return session.New(l), l
}

func TestLoginLogout(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	if _, err := s.Current(ctx); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("fresh session err = %v", err)
	}
	if _, err := s.Login(ctx, seed.CustomerUsername, seed.CustomerPassword); err != nil {
		t.Fatal(err)
	}
	if s.AccountID() != "u1" {
		t.Fatalf("account id = %q", s.AccountID())
	}
	s.Logout()
	if s.AccountID() != "" {
		t.Fatal("logout kept the session")
	}
}

func TestFailedLoginLeavesSessionEmpty(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	if _, err := s.Login(ctx, seed.CustomerUsername, seed.CustomerPassword); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Login(ctx, seed.CustomerUsername, "nope"); !errors.Is(err, ledger.ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
	if s.AccountID() != "" {
		t.Fatal("failed login kept previous session")
	}
}

func TestCurrentTracksDirectoryMutations(t *testing.T) {
	s, l := newSession(t)
	ctx := context.Background()

	if _, err := s.Login(ctx, seed.CustomerUsername, seed.CustomerPassword); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AdjustBalance(ctx, "u1", ledger.AdminStep); err != nil {
		t.Fatal(err)
	}
	current, err := s.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !current.Balance.Equal(decimal.NewFromInt(1750)) {
		t.Fatalf("session sees balance %s, want 1750", current.Balance)
	}
}

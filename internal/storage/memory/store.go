package memory

import (
	"context"
	"fmt"
	"sync"

	interfaces "github.com/sheikh-saqib/apb-demo-bank/internal/interfaces"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// Accounts are keyed by id; order keeps directory insertion order for
// listings and first-match lookups. Every value handed out is a copy.
type MemoryLedgerStore struct {
	mu           sync.Mutex                // protects everything below
	accounts     map[string]models.Account // id -> account
	order        []string                  // account ids in insertion order
	transactions []models.Transaction      // newest first
}

// NewMemoryLedgerStore creates and returns an empty MemoryLedgerStore
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		accounts:     make(map[string]models.Account),
		order:        make([]string, 0),
		transactions: make([]models.Transaction, 0),
	}
}

func (m *MemoryLedgerStore) InsertAccount(ctx context.Context, account models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[account.ID]; exists {
		return fmt.Errorf("account %s already exists", account.ID)
	}
	m.accounts[account.ID] = account.Clone()
	m.order = append(m.order, account.ID)
	return nil
}

func (m *MemoryLedgerStore) GetAccount(ctx context.Context, id string) (models.Account, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return models.Account{}, false, nil
	}
	return a.Clone(), true, nil
}

// FindAccountByNumber returns the first account, in insertion order, holding
// the number. Numbers are not guaranteed unique.
func (m *MemoryLedgerStore) FindAccountByNumber(ctx context.Context, accountNumber string) (models.Account, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		if a := m.accounts[id]; a.AccountNumber == accountNumber {
			return a.Clone(), true, nil
		}
	}
	return models.Account{}, false, nil
}

func (m *MemoryLedgerStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Account, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.accounts[id].Clone())
	}
	return out, nil
}

func (m *MemoryLedgerStore) Commit(ctx context.Context, accounts []models.Account, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// validate first so a missing account leaves the store untouched
	for _, a := range accounts {
		if _, ok := m.accounts[a.ID]; !ok {
			return fmt.Errorf("commit: account %s does not exist", a.ID)
		}
	}
	for _, a := range accounts {
		m.accounts[a.ID] = a.Clone()
	}
	if tx != nil {
		m.transactions = append([]models.Transaction{*tx}, m.transactions...)
	}
	return nil
}

// ListTransactions returns a copy of the log, newest first.
func (m *MemoryLedgerStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Transaction, len(m.transactions))
	copy(copied, m.transactions)
	return copied, nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)

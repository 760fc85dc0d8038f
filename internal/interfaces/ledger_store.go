package interfaces

import (
	"context"

	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
)

// LedgerStore owns the account directory and the transaction log.
// Lookups report a missing account through the bool, not an error.
type LedgerStore interface {
	InsertAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, id string) (models.Account, bool, error)
	FindAccountByNumber(ctx context.Context, accountNumber string) (models.Account, bool, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// Commit replaces the given accounts and, when tx is non-nil, prepends it
	// to the log. Either everything is applied or nothing is.
	Commit(ctx context.Context, accounts []models.Account, tx *models.Transaction) error
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
}

// TransactionJournal mirrors committed transactions somewhere durable.
type TransactionJournal interface {
	SaveTransaction(ctx context.Context, tx models.Transaction) error
}

// Recorder is notified after every committed transaction. Implementations
// must not block the caller.
type Recorder interface {
	Record(tx models.Transaction)
}

package ledger

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	interfaces "github.com/sheikh-saqib/apb-demo-bank/internal/interfaces"
	"github.com/sheikh-saqib/apb-demo-bank/internal/logger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// SystemLabel is the counterparty shown on loan credits and repayments.
	SystemLabel = "APB System"
	// StoreLabel is the counterparty shown on market purchases.
	StoreLabel = "APB Store"
)

var (
	// LoanLimit caps a single loan request; there is no cumulative cap.
	LoanLimit = decimal.NewFromInt(5000)
	// AdminStep is the increment the admin panel applies per click.
	AdminStep = decimal.NewFromInt(500)
)

// Ledger is the main struct representing the bank.
// It holds the store and serialises every mutating command through mu so
// that each check-then-write runs to completion before the next starts.
type Ledger struct {
	store    interfaces.LedgerStore
	recorder interfaces.Recorder
	log      *logger.Logger
	now      func() time.Time
	numbers  func() string

	mu sync.Mutex
}

type Option func(*Ledger)

// WithRecorder forwards every committed transaction to r.
func WithRecorder(r interfaces.Recorder) Option {
	return func(l *Ledger) { l.recorder = r }
}

func WithLogger(log *logger.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithAccountNumbers replaces the random account number generator.
func WithAccountNumbers(next func() string) Option {
	return func(l *Ledger) { l.numbers = next }
}

// NewLedger creates a Ledger over any LedgerStore implementation
func NewLedger(store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		log:     logger.Nop(),
		now:     time.Now,
		numbers: RandomAccountNumber,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RandomAccountNumber returns a 10-digit number. Collisions are not checked.
func RandomAccountNumber() string {
	return strconv.FormatInt(1_000_000_000+rand.Int63n(9_000_000_000), 10)
}

// Authenticate scans the directory in insertion order for an exact
// username and plaintext password match.
func (l *Ledger) Authenticate(ctx context.Context, username, password string) (models.Account, error) {
	accounts, err := l.store.ListAccounts(ctx)
	if err != nil {
		return models.Account{}, err
	}
	for _, a := range accounts {
		if a.Username == username && a.Password == password {
			return a, nil
		}
	}
	return models.Account{}, ErrInvalidCredentials
}

func (l *Ledger) Account(ctx context.Context, id string) (models.Account, error) {
	a, ok, err := l.store.GetAccount(ctx, id)
	if err != nil {
		return models.Account{}, err
	}
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (l *Ledger) Accounts(ctx context.Context) ([]models.Account, error) {
	return l.store.ListAccounts(ctx)
}

// Transactions returns the whole log, newest first.
func (l *Ledger) Transactions(ctx context.Context) ([]models.Transaction, error) {
	return l.store.ListTransactions(ctx)
}

// RecentActivity returns up to limit transactions naming the account's
// display name as sender or receiver, newest first.
func (l *Ledger) RecentActivity(ctx context.Context, accountID string, limit int) ([]models.Transaction, error) {
	account, err := l.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	txs, err := l.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	limit = max(limit, 0)
	out := make([]models.Transaction, 0, limit)
	for _, tx := range txs {
		if len(out) == limit {
			break
		}
		if tx.Involves(account.Name) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Stats sums balances and loans across the directory.
func (l *Ledger) Stats(ctx context.Context) (models.Stats, error) {
	accounts, err := l.store.ListAccounts(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	stats := models.Stats{
		TotalLiquidity: decimal.Zero,
		TotalDebt:      decimal.Zero,
		EntityCount:    len(accounts),
	}
	for _, a := range accounts {
		stats.TotalLiquidity = stats.TotalLiquidity.Add(a.Balance)
		stats.TotalDebt = stats.TotalDebt.Add(a.Loan)
	}
	return stats, nil
}

// Transfer moves amount from the account fromID to the account holding
// toAccountNumber.
func (l *Ledger) Transfer(ctx context.Context, fromID, toAccountNumber string, amount decimal.Decimal) (models.Transaction, error) {
	if err := checkPositive(amount); err != nil {
		return models.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from, err := l.Account(ctx, fromID)
	if err != nil {
		return models.Transaction{}, err
	}
	if amount.GreaterThan(from.Balance) {
		return models.Transaction{}, ErrInsufficientFunds
	}
	to, ok, err := l.store.FindAccountByNumber(ctx, toAccountNumber)
	if err != nil {
		return models.Transaction{}, err
	}
	if !ok {
		return models.Transaction{}, ErrAccountNotFound
	}
	if to.ID == from.ID {
		return models.Transaction{}, ErrSelfTransfer
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	tx := l.newTransaction(models.TxTransfer, amount, from.Name, to.Name, "")
	if err := l.commit(ctx, &tx, from, to); err != nil {
		return models.Transaction{}, fmt.Errorf("transfer: %w", err)
	}
	return tx, nil
}

// RequestLoan credits the account and adds amount to its outstanding loan.
func (l *Ledger) RequestLoan(ctx context.Context, accountID string, amount decimal.Decimal) (models.Transaction, error) {
	if err := checkPositive(amount); err != nil {
		return models.Transaction{}, err
	}
	if amount.GreaterThan(LoanLimit) {
		return models.Transaction{}, ErrLoanLimitExceeded
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.Account(ctx, accountID)
	if err != nil {
		return models.Transaction{}, err
	}
	account.Balance = account.Balance.Add(amount)
	account.Loan = account.Loan.Add(amount)

	tx := l.newTransaction(models.TxLoanCredit, amount, SystemLabel, account.Name, "")
	if err := l.commit(ctx, &tx, account); err != nil {
		return models.Transaction{}, fmt.Errorf("request loan: %w", err)
	}
	return tx, nil
}

// RepayLoan clears the whole outstanding loan. Partial repayment is not
// supported.
func (l *Ledger) RepayLoan(ctx context.Context, accountID string) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.Account(ctx, accountID)
	if err != nil {
		return models.Transaction{}, err
	}
	loan := account.Loan
	if !loan.IsPositive() {
		return models.Transaction{}, ErrNoActiveLoan
	}
	if account.Balance.LessThan(loan) {
		return models.Transaction{}, ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(loan)
	account.Loan = decimal.Zero

	tx := l.newTransaction(models.TxLoanRepayment, loan, account.Name, SystemLabel, "")
	if err := l.commit(ctx, &tx, account); err != nil {
		return models.Transaction{}, fmt.Errorf("repay loan: %w", err)
	}
	return tx, nil
}

// PurchaseItem buys a catalogue item. Each item can be owned once.
func (l *Ledger) PurchaseItem(ctx context.Context, accountID, itemID string) (models.Transaction, error) {
	item, ok := LookupItem(itemID)
	if !ok {
		return models.Transaction{}, ErrUnknownItem
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.Account(ctx, accountID)
	if err != nil {
		return models.Transaction{}, err
	}
	if account.Owns(item.Name) {
		return models.Transaction{}, ErrAlreadyOwned
	}
	if account.Balance.LessThan(item.Price) {
		return models.Transaction{}, ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(item.Price)
	account.Inventory = append(account.Inventory, item.Name)

	tx := l.newTransaction(models.TxMarketPurchase, item.Price, account.Name, StoreLabel, "Item: "+item.Name)
	if err := l.commit(ctx, &tx, account); err != nil {
		return models.Transaction{}, fmt.Errorf("purchase item: %w", err)
	}
	return tx, nil
}

// NewAccount carries the onboarding form fields.
type NewAccount struct {
	Username string
	Password string
	Name     string
	Balance  decimal.Decimal
}

// CreateAccount registers a customer account. Opening balances are not
// logged as transactions.
func (l *Ledger) CreateAccount(ctx context.Context, in NewAccount) (models.Account, error) {
	required := []struct{ field, value string }{
		{"username", in.Username},
		{"password", in.Password},
		{"name", in.Name},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return models.Account{}, fmt.Errorf("%w: %s", ErrMissingField, r.field)
		}
	}
	if err := ValidateAmount(in.Balance); err != nil {
		return models.Account{}, err
	}

	account := models.Account{
		ID:             uuid.New().String(),
		Username:       in.Username,
		Password:       in.Password,
		Name:           in.Name,
		AccountNumber:  l.numbers(),
		Role:           models.RoleUser,
		StaffRole:      models.StaffNone,
		Balance:        in.Balance,
		SavingsBalance: decimal.Zero,
		Loan:           decimal.Zero,
		Status:         models.StatusActive,
		Inventory:      []string{},
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.InsertAccount(ctx, account); err != nil {
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	l.log.Info("account created", "account_id", account.ID, "account_number", account.AccountNumber)
	return account, nil
}

// AdjustBalance adds delta to the account balance without any floor. It does
// not write to the transaction log; the change only shows up in the audit
// log line.
func (l *Ledger) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) (models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.Account(ctx, accountID)
	if err != nil {
		return models.Account{}, err
	}
	account.Balance = account.Balance.Add(delta)
	if err := l.commit(ctx, nil, account); err != nil {
		return models.Account{}, fmt.Errorf("adjust balance: %w", err)
	}
	l.log.Info("admin balance adjustment",
		"account_id", account.ID,
		"delta", delta.String(),
		"balance", account.Balance.String(),
	)
	return account, nil
}

// SetStaffRole updates the roster label of an account.
func (l *Ledger) SetStaffRole(ctx context.Context, accountID string, role models.StaffRole) (models.Account, error) {
	if _, err := models.ParseStaffRole(string(role)); err != nil {
		return models.Account{}, fmt.Errorf("%w: %q", ErrUnknownStaffRole, role)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.Account(ctx, accountID)
	if err != nil {
		return models.Account{}, err
	}
	account.StaffRole = role
	if err := l.commit(ctx, nil, account); err != nil {
		return models.Account{}, fmt.Errorf("set staff role: %w", err)
	}
	return account, nil
}

func (l *Ledger) newTransaction(kind models.TransactionType, amount decimal.Decimal, sender, receiver, note string) models.Transaction {
	createdAt := l.now()
	return models.Transaction{
		ID:        NewTransactionID(),
		Type:      kind,
		Amount:    amount,
		Sender:    sender,
		Receiver:  receiver,
		Timestamp: createdAt.Format(models.TimestampLayout),
		Note:      note,
		CreatedAt: createdAt,
	}
}

// commit writes the accounts and the optional transaction, then hands the
// transaction to the recorder.
func (l *Ledger) commit(ctx context.Context, tx *models.Transaction, accounts ...models.Account) error {
	if err := l.store.Commit(ctx, accounts, tx); err != nil {
		return err
	}
	if tx != nil && l.recorder != nil {
		l.recorder.Record(*tx)
	}
	return nil
}

// NewTransactionID returns a time-ordered (v7) uuid.
func NewTransactionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

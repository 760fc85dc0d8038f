package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sheikh-saqib/apb-demo-bank/internal/ledger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/sheikh-saqib/apb-demo-bank/internal/seed"
	"github.com/sheikh-saqib/apb-demo-bank/internal/storage/memory"
	"github.com/shopspring/decimal"
)

type captureRecorder struct {
	mu  sync.Mutex
	txs []models.Transaction
}

func (c *captureRecorder) Record(tx models.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txs = append(c.txs, tx)
}

func newSeededLedger(t *testing.T, opts ...ledger.Option) (*ledger.Ledger, *memory.MemoryLedgerStore) {
	t.Helper()
	store := memory.NewMemoryLedgerStore()
	if err := seed.Run(context.Background(), store, time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ledger.NewLedger(store, opts...), store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustBalance(t *testing.T, l *ledger.Ledger, id string) decimal.Decimal {
	t.Helper()
	a, err := l.Account(context.Background(), id)
	if err != nil {
		t.Fatalf("account %s: %v", id, err)
	}
	return a.Balance
}

func txCount(t *testing.T, l *ledger.Ledger) int {
	t.Helper()
	txs, err := l.Transactions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return len(txs)
}

// newCustomer creates an account with the given balance and returns its id.
func newCustomer(t *testing.T, l *ledger.Ledger, name, balance string) models.Account {
	t.Helper()
	a, err := l.CreateAccount(context.Background(), ledger.NewAccount{
		Username: name, Password: "pw", Name: name, Balance: dec(balance),
	})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return a
}

func TestAuthenticate(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()

	a, err := l.Authenticate(ctx, seed.CustomerUsername, seed.CustomerPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if a.Name != "John Doe" || a.Role != models.RoleUser {
		t.Fatalf("unexpected account %+v", a)
	}

	if _, err := l.Authenticate(ctx, seed.CustomerUsername, "wrong"); !errors.Is(err, ledger.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := l.Authenticate(ctx, "nobody", seed.CustomerPassword); !errors.Is(err, ledger.ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestTransferRejections(t *testing.T) {
	tests := []struct {
		name   string
		to     string
		amount string
		want   error
	}{
		{"more than balance", "ADMIN-001", "1250.01", ledger.ErrInsufficientFunds},
		{"unknown destination", "0000000000", "10", ledger.ErrAccountNotFound},
		{"self transfer", seed.CustomerNumber, "10", ledger.ErrSelfTransfer},
		{"zero amount", "ADMIN-001", "0", ledger.ErrInvalidAmount},
		{"negative amount", "ADMIN-001", "-5", ledger.ErrInvalidAmount},
		{"insufficient checked before lookup", "0000000000", "5000", ledger.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newSeededLedger(t)
			before := txCount(t, l)

			_, err := l.Transfer(context.Background(), "u1", tt.to, dec(tt.amount))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := mustBalance(t, l, "u1"); !got.Equal(dec("1250")) {
				t.Fatalf("balance changed to %s", got)
			}
			if got := txCount(t, l); got != before {
				t.Fatalf("transaction appended on failure: %d -> %d", before, got)
			}
		})
	}
}

func TestSeedScenarioTransferToOwnNumberOverBalance(t *testing.T) {
	l, _ := newSeededLedger(t)
	before := txCount(t, l)

	_, err := l.Transfer(context.Background(), "u1", seed.CustomerNumber, dec("1250.01"))
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}
	if !mustBalance(t, l, "u1").Equal(dec("1250")) || txCount(t, l) != before {
		t.Fatal("state changed on rejected transfer")
	}
}

func TestTransferConservesLiquidity(t *testing.T) {
	rec := &captureRecorder{}
	l, _ := newSeededLedger(t, ledger.WithRecorder(rec))
	ctx := context.Background()
	other := newCustomer(t, l, "Jane Roe", "100")

	before, _ := l.Stats(ctx)

	moves := []struct {
		from, to string
		amount   string
	}{
		{"u1", other.AccountNumber, "200.50"},
		{other.ID, seed.CustomerNumber, "50.25"},
		{"u1", other.AccountNumber, "0.75"},
	}
	for _, m := range moves {
		if _, err := l.Transfer(ctx, m.from, m.to, dec(m.amount)); err != nil {
			t.Fatalf("transfer %+v: %v", m, err)
		}
	}

	// 1250 - 200.50 + 50.25 - 0.75
	if got := mustBalance(t, l, "u1"); !got.Equal(dec("1099")) {
		t.Fatalf("John balance = %s, want 1099", got)
	}
	// 100 + 200.50 - 50.25 + 0.75
	if got := mustBalance(t, l, other.ID); !got.Equal(dec("251")) {
		t.Fatalf("Jane balance = %s, want 251", got)
	}

	after, _ := l.Stats(ctx)
	if !before.TotalLiquidity.Equal(after.TotalLiquidity) {
		t.Fatalf("liquidity %s -> %s", before.TotalLiquidity, after.TotalLiquidity)
	}

	if len(rec.txs) != len(moves) {
		t.Fatalf("recorder saw %d transactions, want %d", len(rec.txs), len(moves))
	}
	first := rec.txs[0]
	if first.Type != models.TxTransfer || first.Sender != "John Doe" || first.Receiver != "Jane Roe" {
		t.Fatalf("unexpected transfer record %+v", first)
	}
}

func TestRequestLoanLimit(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()

	if _, err := l.RequestLoan(ctx, "u1", dec("5000.01")); !errors.Is(err, ledger.ErrLoanLimitExceeded) {
		t.Fatalf("err = %v, want loan limit", err)
	}
	tx, err := l.RequestLoan(ctx, "u1", dec("5000"))
	if err != nil {
		t.Fatalf("5000 loan: %v", err)
	}
	if tx.Type != models.TxLoanCredit || tx.Sender != ledger.SystemLabel || tx.Receiver != "John Doe" {
		t.Fatalf("unexpected loan record %+v", tx)
	}

	// the cap is per request, not cumulative
	if _, err := l.RequestLoan(ctx, "u1", dec("5000")); err != nil {
		t.Fatalf("second loan: %v", err)
	}
	a, _ := l.Account(ctx, "u1")
	if !a.Loan.Equal(dec("10000")) || !a.Balance.Equal(dec("11250")) {
		t.Fatalf("loan=%s balance=%s", a.Loan, a.Balance)
	}
	if _, err := l.RequestLoan(ctx, "u1", dec("0")); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("zero loan err = %v", err)
	}
}

func TestRepayLoanAllOrNothing(t *testing.T) {
	ctx := context.Background()

	t.Run("exact balance clears both", func(t *testing.T) {
		l, _ := newSeededLedger(t)
		c := newCustomer(t, l, "Borrower", "0")
		if _, err := l.RequestLoan(ctx, c.ID, dec("300")); err != nil {
			t.Fatal(err)
		}
		tx, err := l.RepayLoan(ctx, c.ID)
		if err != nil {
			t.Fatalf("repay: %v", err)
		}
		if !tx.Amount.Equal(dec("300")) || tx.Type != models.TxLoanRepayment || tx.Receiver != ledger.SystemLabel {
			t.Fatalf("unexpected repayment record %+v", tx)
		}
		a, _ := l.Account(ctx, c.ID)
		if !a.Loan.IsZero() || !a.Balance.IsZero() {
			t.Fatalf("loan=%s balance=%s, want both zero", a.Loan, a.Balance)
		}
	})

	t.Run("short by one leaves state unchanged", func(t *testing.T) {
		l, _ := newSeededLedger(t)
		c := newCustomer(t, l, "Borrower", "0")
		if _, err := l.RequestLoan(ctx, c.ID, dec("300")); err != nil {
			t.Fatal(err)
		}
		if _, err := l.Transfer(ctx, c.ID, seed.CustomerNumber, dec("1")); err != nil {
			t.Fatal(err)
		}
		before := txCount(t, l)

		if _, err := l.RepayLoan(ctx, c.ID); !errors.Is(err, ledger.ErrInsufficientFunds) {
			t.Fatalf("err = %v, want insufficient funds", err)
		}
		a, _ := l.Account(ctx, c.ID)
		if !a.Loan.Equal(dec("300")) || !a.Balance.Equal(dec("299")) {
			t.Fatalf("loan=%s balance=%s changed", a.Loan, a.Balance)
		}
		if txCount(t, l) != before {
			t.Fatal("transaction appended on failed repayment")
		}
	})

	t.Run("no loan", func(t *testing.T) {
		l, _ := newSeededLedger(t)
		if _, err := l.RepayLoan(ctx, "u1"); !errors.Is(err, ledger.ErrNoActiveLoan) {
			t.Fatalf("err = %v, want no active loan", err)
		}
	})
}

func TestPurchaseItemOnlyOnce(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()

	tx, err := l.PurchaseItem(ctx, "u1", "item2")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if tx.Note != "Item: Priority Support" || tx.Receiver != ledger.StoreLabel {
		t.Fatalf("unexpected purchase record %+v", tx)
	}
	before := txCount(t, l)

	if _, err := l.PurchaseItem(ctx, "u1", "item2"); !errors.Is(err, ledger.ErrAlreadyOwned) {
		t.Fatalf("second purchase err = %v", err)
	}
	a, _ := l.Account(ctx, "u1")
	if !a.Balance.Equal(dec("750")) {
		t.Fatalf("balance = %s, want 750", a.Balance)
	}
	if len(a.Inventory) != 1 || a.Inventory[0] != "Priority Support" {
		t.Fatalf("inventory = %v", a.Inventory)
	}
	if txCount(t, l) != before {
		t.Fatal("duplicate purchase logged")
	}
}

func TestPurchaseItemRejections(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()

	if _, err := l.PurchaseItem(ctx, "u1", "item4"); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("yacht err = %v", err)
	}
	if _, err := l.PurchaseItem(ctx, "u1", "item9"); !errors.Is(err, ledger.ErrUnknownItem) {
		t.Fatalf("unknown item err = %v", err)
	}
	if _, err := l.PurchaseItem(ctx, "missing", "item1"); !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Fatalf("missing account err = %v", err)
	}
}

func TestAdjustBalanceBypassesLog(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()
	before := txCount(t, l)

	for i := 0; i < 2; i++ {
		if _, err := l.AdjustBalance(ctx, "u1", ledger.AdminStep); err != nil {
			t.Fatal(err)
		}
	}
	if got := mustBalance(t, l, "u1"); !got.Equal(dec("2250")) {
		t.Fatalf("balance = %s, want 2250", got)
	}
	if txCount(t, l) != before {
		t.Fatal("admin adjustment wrote to the transaction log")
	}

	// no floor
	for i := 0; i < 5; i++ {
		if _, err := l.AdjustBalance(ctx, "u1", ledger.AdminStep.Neg()); err != nil {
			t.Fatal(err)
		}
	}
	if got := mustBalance(t, l, "u1"); !got.Equal(dec("-250")) {
		t.Fatalf("balance = %s, want -250", got)
	}
}

func TestSetStaffRole(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()

	a, err := l.SetStaffRole(ctx, "u1", models.StaffSecurityOfficer)
	if err != nil {
		t.Fatal(err)
	}
	if a.StaffRole != models.StaffSecurityOfficer {
		t.Fatalf("staff role = %q", a.StaffRole)
	}
	if _, err := l.SetStaffRole(ctx, "u1", models.StaffRole("Janitor")); !errors.Is(err, ledger.ErrUnknownStaffRole) {
		t.Fatalf("err = %v, want unknown staff role", err)
	}
	stored, _ := l.Account(ctx, "u1")
	if stored.StaffRole != models.StaffSecurityOfficer {
		t.Fatalf("rejected role was stored: %q", stored.StaffRole)
	}
}

func TestCreateAccount(t *testing.T) {
	l, _ := newSeededLedger(t, ledger.WithAccountNumbers(func() string { return "5555555555" }))
	ctx := context.Background()

	a, err := l.CreateAccount(ctx, ledger.NewAccount{Username: "jr", Password: "pw", Name: "Jane Roe", Balance: dec("42.10")})
	if err != nil {
		t.Fatal(err)
	}
	if a.AccountNumber != "5555555555" || a.Role != models.RoleUser || a.StaffRole != models.StaffNone {
		t.Fatalf("unexpected account %+v", a)
	}
	if !a.Loan.IsZero() || len(a.Inventory) != 0 || a.Status != models.StatusActive {
		t.Fatalf("unexpected defaults %+v", a)
	}
	if _, err := l.Authenticate(ctx, "jr", "pw"); err != nil {
		t.Fatalf("new account cannot log in: %v", err)
	}

	_, err = l.CreateAccount(ctx, ledger.NewAccount{Username: "x", Password: " ", Name: "X"})
	if !errors.Is(err, ledger.ErrMissingField) {
		t.Fatalf("err = %v, want missing field", err)
	}

	stats, _ := l.Stats(ctx)
	if stats.EntityCount != 3 {
		t.Fatalf("entity count = %d, want 3", stats.EntityCount)
	}
}

func TestRandomAccountNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := ledger.RandomAccountNumber()
		if len(n) != 10 || n[0] == '0' {
			t.Fatalf("bad account number %q", n)
		}
	}
}

func TestStats(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()
	if _, err := l.RequestLoan(ctx, "u1", dec("250")); err != nil {
		t.Fatal(err)
	}
	stats, err := l.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.TotalLiquidity.Equal(dec("10001499")) {
		t.Fatalf("liquidity = %s", stats.TotalLiquidity)
	}
	if !stats.TotalDebt.Equal(dec("250")) || stats.EntityCount != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRecentActivity(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()
	other := newCustomer(t, l, "Jane Roe", "10")

	// unrelated traffic must not show up for John
	if _, err := l.RequestLoan(ctx, other.ID, dec("1")); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		if _, err := l.Transfer(ctx, "u1", other.AccountNumber, dec("1")); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := l.RecentActivity(ctx, "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 5 {
		t.Fatalf("got %d entries, want 5", len(recent))
	}
	for _, tx := range recent {
		if tx.Type != models.TxTransfer || tx.Sender != "John Doe" {
			t.Fatalf("unexpected entry %+v", tx)
		}
	}

	all, _ := l.RecentActivity(ctx, "u1", 50)
	// six transfers plus the seed deposit
	if len(all) != 7 || all[len(all)-1].Type != models.TxDeposit {
		t.Fatalf("full activity = %+v", all)
	}
}

func TestRecentActivityNegativeLimit(t *testing.T) {
	l, _ := newSeededLedger(t)
	recent, err := l.RecentActivity(context.Background(), "u1", -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Fatalf("got %d entries, want none", len(recent))
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		ok     bool
	}{
		{"cents", dec("12.34"), true},
		{"trailing zeros", dec("12.3400"), true},
		{"zero", decimal.Zero, true},
		{"ceiling", ledger.MaxAmount, true},
		{"sub cent", dec("0.001"), false},
		{"tiny exponent", decimal.New(1, -9), false},
		{"huge exponent", decimal.New(1, 200000000), false},
		{"negative huge exponent", decimal.New(-1, 200000000), false},
		{"far below a cent", decimal.New(1, -200000000), false},
		{"above ceiling", ledger.MaxAmount.Add(dec("0.01")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.ValidateAmount(tt.amount)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ledger.ErrInvalidAmount) {
				t.Fatalf("err = %v, want ErrInvalidAmount", err)
			}
		})
	}
}

func TestOutOfRangeAmountsLeaveLedgerUsable(t *testing.T) {
	l, _ := newSeededLedger(t)
	ctx := context.Background()
	huge := decimal.New(1, 200000000)

	if _, err := l.Transfer(ctx, "u1", "ADMIN-001", huge); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("transfer err = %v", err)
	}
	if _, err := l.RequestLoan(ctx, "u1", huge); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("loan err = %v", err)
	}
	if _, err := l.RequestLoan(ctx, "u1", dec("0.001")); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("sub-cent loan err = %v", err)
	}
	_, err := l.CreateAccount(ctx, ledger.NewAccount{Username: "jr", Password: "pw", Name: "Jane Roe", Balance: huge})
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("create account err = %v", err)
	}

	if _, err := l.Transfer(ctx, "u1", "ADMIN-001", dec("1")); err != nil {
		t.Fatalf("ledger stuck after rejected amounts: %v", err)
	}
	if got := mustBalance(t, l, "u1"); !got.Equal(dec("1249")) {
		t.Fatalf("balance = %s", got)
	}
}

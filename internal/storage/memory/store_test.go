package memory

import (
	"context"
	"testing"

	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/shopspring/decimal"
)

func TestInsertAndGetReturnCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()

	acc := models.Account{ID: "a1", Name: "Ann", Inventory: []string{"VIP Status"}}
	if err := store.InsertAccount(ctx, acc); err != nil {
		t.Fatalf("insert: %v", err)
	}
	acc.Inventory[0] = "mutated"

	got, ok, err := store.GetAccount(ctx, "a1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Inventory[0] != "VIP Status" {
		t.Fatalf("store shares inventory with caller: %v", got.Inventory)
	}

	got.Inventory[0] = "mutated again"
	again, _, _ := store.GetAccount(ctx, "a1")
	if again.Inventory[0] != "VIP Status" {
		t.Fatalf("returned account aliases store state: %v", again.Inventory)
	}
}

func TestInsertDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	if err := store.InsertAccount(ctx, models.Account{ID: "a1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertAccount(ctx, models.Account{ID: "a1"}); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
}

func TestFindAccountByNumberFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	_ = store.InsertAccount(ctx, models.Account{ID: "first", AccountNumber: "1111111111"})
	_ = store.InsertAccount(ctx, models.Account{ID: "second", AccountNumber: "1111111111"})

	got, ok, _ := store.FindAccountByNumber(ctx, "1111111111")
	if !ok || got.ID != "first" {
		t.Fatalf("got %q ok=%v, want first", got.ID, ok)
	}
	if _, ok, _ := store.FindAccountByNumber(ctx, "0000000000"); ok {
		t.Fatal("expected no match")
	}
}

func TestCommitPrependsTransactionsAndIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	_ = store.InsertAccount(ctx, models.Account{ID: "a1", Balance: decimal.NewFromInt(10)})

	first := models.Transaction{ID: "t1"}
	second := models.Transaction{ID: "t2"}
	if err := store.Commit(ctx, nil, &first); err != nil {
		t.Fatal(err)
	}
	if err := store.Commit(ctx, nil, &second); err != nil {
		t.Fatal(err)
	}
	txs, _ := store.ListTransactions(ctx)
	if len(txs) != 2 || txs[0].ID != "t2" || txs[1].ID != "t1" {
		t.Fatalf("log not newest-first: %+v", txs)
	}

	updated := models.Account{ID: "a1", Balance: decimal.NewFromInt(99)}
	ghost := models.Account{ID: "ghost"}
	third := models.Transaction{ID: "t3"}
	if err := store.Commit(ctx, []models.Account{updated, ghost}, &third); err == nil {
		t.Fatal("expected commit with unknown account to fail")
	}
	a1, _, _ := store.GetAccount(ctx, "a1")
	if !a1.Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("partial commit applied: balance %s", a1.Balance)
	}
	if txs, _ := store.ListTransactions(ctx); len(txs) != 2 {
		t.Fatalf("partial commit appended transaction: %d", len(txs))
	}
}

func TestListAccountsKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	for _, id := range []string{"c", "a", "b"} {
		_ = store.InsertAccount(ctx, models.Account{ID: id})
	}
	list, _ := store.ListAccounts(ctx)
	var ids string
	for _, a := range list {
		ids += a.ID
	}
	if ids != "cab" {
		t.Fatalf("order = %q, want cab", ids)
	}
}

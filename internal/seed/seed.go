// Package seed loads the demo directory every process starts with.
package seed

import (
	"context"
	"fmt"
	"time"

	interfaces "github.com/sheikh-saqib/apb-demo-bank/internal/interfaces"
	"github.com/sheikh-saqib/apb-demo-bank/internal/ledger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/shopspring/decimal"
)

const (
	AdminUsername    = "clerk_admin"
	AdminPassword    = "admin"
	CustomerUsername = "user1"
	CustomerPassword = "password"
	CustomerNumber   = "1234567890"
)

// Accounts returns the seed directory: one admin and one customer.
func Accounts() []models.Account {
	return []models.Account{
		{
			ID:             "admin1",
			Username:       AdminUsername,
			Password:       AdminPassword,
			Name:           "Alpha One",
			AccountNumber:  "ADMIN-001",
			Role:           models.RoleAdmin,
			StaffRole:      models.StaffHeadClerk,
			Balance:        decimal.NewFromInt(9999999),
			SavingsBalance: decimal.Zero,
			Loan:           decimal.Zero,
			Status:         models.StatusActive,
			Inventory:      []string{},
		},
		{
			ID:             "u1",
			Username:       CustomerUsername,
			Password:       CustomerPassword,
			Name:           "John Doe",
			AccountNumber:  CustomerNumber,
			Role:           models.RoleUser,
			StaffRole:      models.StaffNone,
			Balance:        decimal.NewFromInt(1250),
			SavingsBalance: decimal.NewFromInt(500),
			Loan:           decimal.Zero,
			Status:         models.StatusActive,
			Card:           &models.Card{Number: "4242 8812 9901 2341", CVV: "123", Expiry: "12/29"},
			Inventory:      []string{},
		},
	}
}

// Run inserts the seed accounts and the opening deposit of the customer.
func Run(ctx context.Context, store interfaces.LedgerStore, now time.Time) error {
	for _, a := range Accounts() {
		if err := store.InsertAccount(ctx, a); err != nil {
			return fmt.Errorf("seed account %s: %w", a.ID, err)
		}
	}
	opening := models.Transaction{
		ID:        ledger.NewTransactionID(),
		Type:      models.TxDeposit,
		Amount:    decimal.NewFromInt(1250),
		Sender:    "System",
		Receiver:  "John Doe",
		Timestamp: now.Format(models.TimestampLayout),
		CreatedAt: now,
	}
	if err := store.Commit(ctx, nil, &opening); err != nil {
		return fmt.Errorf("seed opening deposit: %w", err)
	}
	return nil
}

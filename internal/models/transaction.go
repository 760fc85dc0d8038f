package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType names the command that produced a transaction
type TransactionType string

const (
	TxDeposit        TransactionType = "Deposit"
	TxTransfer       TransactionType = "Transfer"
	TxLoanCredit     TransactionType = "Loan Credit"
	TxLoanRepayment  TransactionType = "Loan Repayment"
	TxMarketPurchase TransactionType = "Market Purchase"
)

// TimestampLayout renders CreatedAt the way an en-US locale string looks.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Transaction is an immutable ledger record.
// Sender and Receiver are display labels, not account references.
type Transaction struct {
	ID        string          `json:"id"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Sender    string          `json:"sender"`
	Receiver  string          `json:"receiver"`
	Timestamp string          `json:"timestamp"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Involves reports whether the display name appears on either side.
func (t Transaction) Involves(name string) bool {
	return t.Sender == name || t.Receiver == name
}

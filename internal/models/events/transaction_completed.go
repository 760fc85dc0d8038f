package events

import (
	"time"

	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/shopspring/decimal"
)

type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Sender        string          `json:"sender"`
	Receiver      string          `json:"receiver"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty"`
	AppID         string          `json:"app_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewTransactionCompleted builds the event published for a committed
// transaction.
func NewTransactionCompleted(tx models.Transaction, appID string) TransactionCompleted {
	return TransactionCompleted{
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		Sender:        tx.Sender,
		Receiver:      tx.Receiver,
		Amount:        tx.Amount,
		Note:          tx.Note,
		AppID:         appID,
		OccurredAt:    tx.CreatedAt,
	}
}

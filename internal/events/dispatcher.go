// Package events forwards committed transactions to optional external
// sinks. Delivery is best effort: the queue is bounded, a full queue drops
// the record, and sink errors are only logged.
package events

import (
	"context"
	"time"

	interfaces "github.com/sheikh-saqib/apb-demo-bank/internal/interfaces"
	"github.com/sheikh-saqib/apb-demo-bank/internal/logger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models/events"
)

const DefaultBuffer = 256

type Dispatcher struct {
	queue     chan models.Transaction
	publisher interfaces.EventPublisher
	journal   interfaces.TransactionJournal
	appID     string
	timeout   time.Duration
	log       *logger.Logger
}

// NewDispatcher wires the sinks; either may be nil.
func NewDispatcher(publisher interfaces.EventPublisher, journal interfaces.TransactionJournal, appID string, buffer int, log *logger.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		queue:     make(chan models.Transaction, buffer),
		publisher: publisher,
		journal:   journal,
		appID:     appID,
		timeout:   5 * time.Second,
		log:       log,
	}
}

// Record queues tx without blocking.
func (d *Dispatcher) Record(tx models.Transaction) {
	if d.publisher == nil && d.journal == nil {
		return
	}
	select {
	case d.queue <- tx:
	default:
		d.log.Warn("event queue full, dropping transaction", "transaction_id", tx.ID, "type", tx.Type)
	}
}

// Run delivers queued transactions until ctx is done, then drains whatever
// is still queued.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case tx := <-d.queue:
			d.deliver(tx)
		case <-ctx.Done():
			for {
				select {
				case tx := <-d.queue:
					d.deliver(tx)
				default:
					return nil
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(tx models.Transaction) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, tx.ID, events.NewTransactionCompleted(tx, d.appID)); err != nil {
			d.log.Warn("publish transaction event", "transaction_id", tx.ID, "error", err)
		}
	}
	if d.journal != nil {
		if err := d.journal.SaveTransaction(ctx, tx); err != nil {
			d.log.Warn("journal transaction", "transaction_id", tx.ID, "error", err)
		}
	}
}

var _ interfaces.Recorder = (*Dispatcher)(nil)

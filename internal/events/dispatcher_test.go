package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models/events"
)

type fakePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []any
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.events = append(f.events, event)
	return f.err
}

type fakeJournal struct {
	mu  sync.Mutex
	ids []string
}

func (f *fakeJournal) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, tx.ID)
	return nil
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	journal := &fakeJournal{}
	d := NewDispatcher(pub, journal, "apb", 8, nil)

	d.Record(models.Transaction{ID: "t1", Type: models.TxTransfer})
	d.Record(models.Transaction{ID: "t2", Type: models.TxLoanCredit})

	// a cancelled context makes Run drain the queue and return
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if len(pub.keys) != 2 || pub.keys[0] != "t1" {
		t.Fatalf("published keys = %v", pub.keys)
	}
	ev, ok := pub.events[1].(events.TransactionCompleted)
	if !ok || ev.Type != "Loan Credit" || ev.AppID != "apb" {
		t.Fatalf("event = %#v", pub.events[1])
	}
	// a failing publisher must not stop the journal
	if len(journal.ids) != 2 {
		t.Fatalf("journaled = %v", journal.ids)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	journal := &fakeJournal{}
	d := NewDispatcher(nil, journal, "apb", 1, nil)

	d.Record(models.Transaction{ID: "kept"})
	d.Record(models.Transaction{ID: "dropped"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = d.Run(ctx)

	if len(journal.ids) != 1 || journal.ids[0] != "kept" {
		t.Fatalf("journaled = %v", journal.ids)
	}
}

func TestDispatcherWithoutSinksIgnoresRecords(t *testing.T) {
	d := NewDispatcher(nil, nil, "apb", 1, nil)
	d.Record(models.Transaction{ID: "t1"})
	if len(d.queue) != 0 {
		t.Fatal("record queued with no sinks configured")
	}
}

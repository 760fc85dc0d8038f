package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	interfaces "github.com/sheikh-saqib/apb-demo-bank/internal/interfaces"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
)

// PostgresJournal mirrors committed transactions into an audit table. It is
// write-only: the in-memory directory stays the source of truth.
type PostgresJournal struct {
	db *sql.DB
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresJournal(db *sql.DB) *PostgresJournal {
	return &PostgresJournal{
		db: db,
	}
}

const createTransactionsTable = `CREATE TABLE IF NOT EXISTS transactions (
	id         text PRIMARY KEY,
	type       text NOT NULL,
	amount     numeric NOT NULL,
	sender     text NOT NULL,
	receiver   text NOT NULL,
	note       text NOT NULL DEFAULT '',
	created_at timestamptz NOT NULL
)`

// EnsureSchema creates the audit table when it is missing.
func (p *PostgresJournal) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, createTransactionsTable)
	return err
}

func (p *PostgresJournal) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	const query = `INSERT INTO transactions (id, type, amount, sender, receiver, note, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)
	ON CONFLICT (id) DO NOTHING`

	_, err := p.db.ExecContext(ctx, query, tx.ID, string(tx.Type), tx.Amount, tx.Sender, tx.Receiver, tx.Note, tx.CreatedAt)
	return err
}

func (p *PostgresJournal) Close() error {
	return p.db.Close()
}

var _ interfaces.TransactionJournal = (*PostgresJournal)(nil)

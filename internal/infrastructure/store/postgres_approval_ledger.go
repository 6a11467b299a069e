package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
)

const approvalSchema = `
CREATE TABLE IF NOT EXISTS approval_sagas (
	order_id            TEXT PRIMARY KEY,
	status_applied      BOOLEAN NOT NULL DEFAULT FALSE,
	stock_items_applied INTEGER NOT NULL DEFAULT 0,
	stock_applied       BOOLEAN NOT NULL DEFAULT FALSE,
	shipment_id         TEXT NOT NULL DEFAULT '',
	attempts            INTEGER NOT NULL DEFAULT 0,
	last_error          TEXT NOT NULL DEFAULT '',
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
)`

// PostgresApprovalLedger stores approval records in PostgreSQL
type PostgresApprovalLedger struct {
	db *sql.DB
}

func NewPostgresApprovalLedger(db *sql.DB) *PostgresApprovalLedger {
	return &PostgresApprovalLedger{db: db}
}

// EnsureSchema creates the approval_sagas table if missing
func (l *PostgresApprovalLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, approvalSchema)
	return err
}

func (l *PostgresApprovalLedger) Get(ctx context.Context, orderID string) (*ApprovalRecord, error) {
	var rec ApprovalRecord
	err := l.db.QueryRowContext(ctx,
		`SELECT order_id, status_applied, stock_items_applied, stock_applied, shipment_id,
		        attempts, last_error, created_at, updated_at
		 FROM approval_sagas WHERE order_id = $1`,
		orderID,
	).Scan(
		&rec.OrderID,
		&rec.StatusApplied,
		&rec.StockItemsApplied,
		&rec.StockApplied,
		&rec.ShipmentID,
		&rec.Attempts,
		&rec.LastError,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (l *PostgresApprovalLedger) Save(ctx context.Context, record *ApprovalRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO approval_sagas (order_id, status_applied, stock_items_applied, stock_applied,
		                            shipment_id, attempts, last_error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (order_id) DO UPDATE SET
		    status_applied = EXCLUDED.status_applied,
		    stock_items_applied = EXCLUDED.stock_items_applied,
		    stock_applied = EXCLUDED.stock_applied,
		    shipment_id = EXCLUDED.shipment_id,
		    attempts = EXCLUDED.attempts,
		    last_error = EXCLUDED.last_error,
		    updated_at = EXCLUDED.updated_at`,
		record.OrderID,
		record.StatusApplied,
		record.StockItemsApplied,
		record.StockApplied,
		record.ShipmentID,
		record.Attempts,
		record.LastError,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

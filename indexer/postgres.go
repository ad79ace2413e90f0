package indexer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS pinservice_events (
	id          UUID PRIMARY KEY,
	height      BIGINT NOT NULL,
	block_time  TIMESTAMPTZ NOT NULL,
	event_type  TEXT NOT NULL,
	attributes  JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS pinservice_events_height_idx ON pinservice_events (height);
CREATE INDEX IF NOT EXISTS pinservice_events_type_idx ON pinservice_events (event_type);
`

// PostgresSink stores events in the pinservice_events table.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink connects to dsn and creates the events table if missing.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &PostgresSink{db: db}, nil
}

// Index inserts events in one transaction.
func (s *PostgresSink) Index(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pinservice_events (id, height, block_time, event_type, attributes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		attrs, err := json.Marshal(e.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal attributes: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Height, e.Time, e.Type, attrs); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.Type, err)
		}
	}
	return tx.Commit()
}

// ByHeight returns the events indexed for one block, oldest first.
func (s *PostgresSink) ByHeight(ctx context.Context, height int64) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, height, block_time, event_type, attributes
		FROM pinservice_events WHERE height = $1 ORDER BY block_time, id`, height)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e     Event
			attrs []byte
		)
		if err := rows.Scan(&e.ID, &e.Height, &e.Time, &e.Type, &attrs); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal(attrs, &e.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode attributes: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *PostgresSink) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

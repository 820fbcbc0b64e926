package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the Postgres connection pool
type DB struct {
	*sql.DB
}

// NewPostgresDB opens and pings a Postgres database
func NewPostgresDB(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	return &DB{db}, nil
}

// PostgresBackend stores each document as a row of the documents table
type PostgresBackend struct {
	db *DB
}

// NewPostgresBackend wraps an open database
func NewPostgresBackend(db *DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the documents table if needed
func (pb *PostgresBackend) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS documents (
			name       TEXT PRIMARY KEY,
			body       TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pb.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// Read returns the raw contents of a document
func (pb *PostgresBackend) Read(ctx context.Context, name string) ([]byte, error) {
	query := `SELECT body FROM documents WHERE name = $1`

	var body string
	err := pb.db.QueryRowContext(ctx, query, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	return []byte(body), nil
}

// Write replaces a document
func (pb *PostgresBackend) Write(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`
	if _, err := pb.db.ExecContext(ctx, query, name, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Close closes the database
func (pb *PostgresBackend) Close() error {
	return pb.db.Close()
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/patrimony"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL UNIQUE,
	owner   TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS transactions_user ON transactions(owner, seq);
`

// SQLite stores transactions of all users in one table, in the ledger JSON format.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. Use ":memory:" for a transient store.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Load returns the transactions of user in insertion order.
func (s *SQLite) Load(ctx context.Context, user string) ([]patrimony.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, payload FROM transactions WHERE owner = ? ORDER BY seq`, user)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []patrimony.Transaction
	for rows.Next() {
		var (
			seq     int64
			payload string
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, err
		}
		var tx patrimony.Transaction
		if err := json.Unmarshal([]byte(payload), &tx); err != nil {
			return nil, fmt.Errorf("row %d: %w", seq, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Append inserts tx for user.
func (s *SQLite) Append(ctx context.Context, user string, tx patrimony.Transaction) (string, error) {
	tx, err := prepare(tx)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(tx)
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO transactions (id, owner, payload) VALUES (?, ?, ?)`, tx.ID, user, string(payload)); err != nil {
		return "", fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
	}
	return tx.ID, nil
}

// Users lists the users having at least one transaction.
func (s *SQLite) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT owner FROM transactions ORDER BY owner`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

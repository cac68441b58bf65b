// Package store persists user ledgers.
//
// File keeps one JSONL file per user in a directory, SQLite keeps all users
// in one database. Both implement patrimony.LedgerStore and assign a UUID to
// transactions appended without an ID.
package store

import (
	"github.com/etnz/patrimony"
	"github.com/google/uuid"
)

var (
	_ patrimony.LedgerStore = (*File)(nil)
	_ patrimony.LedgerStore = (*SQLite)(nil)
)

// prepare validates tx and gives it an ID if it has none.
func prepare(tx patrimony.Transaction) (patrimony.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return tx, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	return tx, nil
}

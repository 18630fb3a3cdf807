// Package postgres implements the record store over PostgreSQL using
// database/sql. Every method is a single statement; consistency across
// statements is the caller's concern.
package postgres

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"github.com/rehabworks/rehab_backend/internal/store"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// mapErr converts sql.ErrNoRows into the store-level sentinel.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

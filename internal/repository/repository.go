package repository

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

// Repository bundles the raw connection with the goqu wrapper; feature
// repositories embed it rather than owning their own connections.
type Repository struct {
	DB   *sql.DB
	Goqu *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:   db,
		Goqu: goqu.New("postgres", db),
	}
}

// WithTransaction runs fn inside a transaction, committing on success and
// rolling back on error.
func WithTransaction(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	return tx.Wrap(func() error {
		return fn(tx)
	})
}

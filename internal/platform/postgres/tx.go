package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Transaction is a unit of work shared by several repositories.
type Transaction interface {
	Commit() error
	Rollback() error
}

// Transactor opens transactions without exposing database/sql to services.
type Transactor interface {
	BeginTx(ctx context.Context) (Transaction, error)
}

type postgresTransaction struct {
	tx *sql.Tx
}

func (t *postgresTransaction) Commit() error {
	return t.tx.Commit()
}

// Rollback is a no-op after Commit.
func (t *postgresTransaction) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

type transactor struct {
	db *sql.DB
}

func NewTransactor(db *sql.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) BeginTx(ctx context.Context) (Transaction, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &postgresTransaction{tx: tx}, nil
}

func (c *Client) BeginTx(ctx context.Context) (Transaction, error) {
	return NewTransactor(c.db).BeginTx(ctx)
}

// SQLTx returns the *sql.Tx behind a Transaction opened by this package.
func SQLTx(tx Transaction) (*sql.Tx, error) {
	pt, ok := tx.(*postgresTransaction)
	if !ok {
		return nil, fmt.Errorf("invalid transaction type %T", tx)
	}
	return pt.tx, nil
}

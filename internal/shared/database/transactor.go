package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Transactor interface {
	// WithinTx runs fn inside a transaction. fn receives nil when the
	// backing store has no SQL transactions (in-memory store).
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type sqlTransactor struct {
	db *sql.DB
}

func NewSQLTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type noopTransactor struct{}

func NewNoopTransactor() Transactor {
	return noopTransactor{}
}

func (noopTransactor) WithinTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

// Conn returns a gorm handle bound to ctx that executes on tx when one is
// given, so gorm repositories take part in transactions opened on *sql.DB.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx != nil {
		conn.Statement.ConnPool = tx
	}
	return conn
}

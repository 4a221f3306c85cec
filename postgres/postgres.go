// Package postgres implements workflow.Sink on PostgreSQL via pgx.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sink implements workflow.Sink using a pgx connection pool.
// Each key holds exactly one snapshot; writes replace it.
type Sink struct {
	db *pgxpool.Pool
}

// New creates a new Sink backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *Sink {
	return &Sink{db: db}
}

// isNoRows checks if the error is a "no rows" error from pgx.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

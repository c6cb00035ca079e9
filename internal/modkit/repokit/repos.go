// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	perr "ganadero/internal/platform/errors"
	"ganadero/internal/platform/store"
)

type (
	// Queryer is the minimal read and write surface for SQL repos
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// Binder binds a domain repo to a specific Queryer, either the pool or a tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds q, panicking on a nil Queryer since that is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

// TxAttempts bounds how often WithTx runs fn when postgres aborts the tx for contention
const TxAttempts = 3

// WithTx runs fn inside a transaction. Serialization failures, deadlocks and lock
// timeouts roll the whole tx back, so fn is run again from scratch up to TxAttempts times
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	var err error
	for range TxAttempts {
		err = tx.Tx(ctx, fn)
		if err == nil || !perr.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

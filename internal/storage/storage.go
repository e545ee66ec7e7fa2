// Package storage defines the ledger's atomic unit of work and its Postgres
// implementation.
//
// A Writer is one atomic unit: every read made through it observes a
// consistent snapshot of the rows it touches, and nothing written through it
// becomes visible to other readers until Commit succeeds.
package storage

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/carson-networks/finance-ledger/internal/storage/account"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

// ErrConflict is returned by Commit when a concurrent unit changed data this
// unit depended on. The unit had no effect and may be retried.
var ErrConflict = errors.New("storage: conflicting concurrent write")

// Storage hands out read views and atomic write units.
type Storage interface {
	Reader() Reader
	Write(ctx context.Context) (Writer, error)
}

// Reader reads committed state.
type Reader interface {
	Accounts() account.IAccountReader
	Transactions() transaction.ITransactionReader
}

// Writer is a single atomic unit. Exactly one of Commit or Rollback must be
// called once the unit is finished.
type Writer interface {
	Accounts() account.IAccountWriter
	Transactions() transaction.ITransactionWriter
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Postgres error classes that mean the unit was aborted by a concurrent
// writer and can be run again from the start.
var retryableCodes = map[pq.ErrorCode]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"23505": true, // unique_violation, a racing insert under the same idempotency key
}

// IsRetryable reports whether err aborted a unit without effect and the
// unit may be attempted again.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return retryableCodes[pqErr.Code]
	}
	return false
}

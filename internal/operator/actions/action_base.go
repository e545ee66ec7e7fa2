package actions

import (
	"context"

	"github.com/carson-networks/finance-ledger/internal/storage"
)

// IAction is one atomic unit of work. Perform may run more than once when the
// unit is retried, so it must derive all state from what it reads through
// writer and reset any result it exposes.
type IAction interface {
	Perform(ctx context.Context, writer storage.Writer) error
}

package service

import (
	"context"
	"strings"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/money"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

// Processor runs an action as one atomic unit. *operator.Operator satisfies it.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
}

// NewService creates a new Service. Reads go straight to store; every write
// goes through processor.
func NewService(store storage.Storage, processor Processor, normalizer *money.Normalizer) *Service {
	return &Service{
		Transaction: NewTransactionService(store, processor, normalizer),
		Account:     NewAccountService(store, processor),
	}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &ledger.ValidationError{Errors: []ledger.DomainError{{
			Code:    ledger.ErrorInvalidInput,
			Field:   "userId",
			Message: "userId is required",
		}}}
	}
	return nil
}

// normalizeCurrency upper-cases and trims an ISO 4217 code so "usd" and
// " USD" name the same currency at every entry point.
func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

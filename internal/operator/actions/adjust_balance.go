package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
)

// AdjustBalance applies a manual correction to an account balance without
// writing a transaction record.
type AdjustBalance struct {
	UserID    string
	AccountID uuid.UUID
	Delta     decimal.Decimal

	Result *account.Account
}

var _ IAction = (*AdjustBalance)(nil)

func (a *AdjustBalance) Perform(ctx context.Context, writer storage.Writer) error {
	a.Result = nil

	accounts, err := writer.Accounts().FindForUpdate(ctx, a.UserID, a.AccountID)
	if err != nil {
		return err
	}
	acc, ok := accounts[a.AccountID]
	if !ok {
		return ledger.NewDomainError(ledger.ErrorAccountNotFound, "accountId", "account not found")
	}

	next, ok := ledger.NextBalance(acc.Type, acc.CurrentBalance, a.Delta)
	if !ok {
		return ledger.NewDomainError(ledger.ErrorInsufficientFunds, "delta", "adjustment would make the balance negative")
	}

	updated, err := writer.Accounts().UpdateBalance(ctx, a.UserID, acc.ID, next)
	if err != nil {
		return err
	}

	a.Result = updated
	return nil
}

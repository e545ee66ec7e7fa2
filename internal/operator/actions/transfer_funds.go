package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
)

// TransferFunds moves an amount between two accounts of the same currency
// without recording a transaction.
type TransferFunds struct {
	UserID        string
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal

	Result TransferFundsResult
}

type TransferFundsResult struct {
	From *account.Account
	To   *account.Account
}

var _ IAction = (*TransferFunds)(nil)

func (t *TransferFunds) Perform(ctx context.Context, writer storage.Writer) error {
	t.Result = TransferFundsResult{}

	accounts, err := writer.Accounts().FindForUpdate(ctx, t.UserID, t.FromAccountID, t.ToAccountID)
	if err != nil {
		return err
	}

	from, ok := accounts[t.FromAccountID]
	if !ok {
		return ledger.NewDomainError(ledger.ErrorAccountNotFound, "fromAccountId", "source account not found")
	}
	to, ok := accounts[t.ToAccountID]
	if !ok {
		return ledger.NewDomainError(ledger.ErrorAccountNotFound, "toAccountId", "destination account not found")
	}
	if from.Currency != to.Currency {
		return ledger.NewDomainError(ledger.ErrorUnsupportedTransfer, "toAccountId",
			"transfers between "+from.Currency+" and "+to.Currency+" accounts are not supported")
	}

	effect, err := ledger.BalanceEffect(ledger.TransactionTypeTransfer, t.Amount)
	if err != nil {
		return err
	}

	fromBalance, ok := ledger.NextBalance(from.Type, from.CurrentBalance, effect.FromDelta)
	if !ok {
		return ledger.NewDomainError(ledger.ErrorInsufficientFunds, "amount", "insufficient funds in source account")
	}
	toBalance, ok := ledger.NextBalance(to.Type, to.CurrentBalance, effect.ToDelta.Decimal)
	if !ok {
		return ledger.NewDomainError(ledger.ErrorDestinationWouldGoNegative, "toAccountId", "destination account would become negative")
	}

	updatedFrom, err := writer.Accounts().UpdateBalance(ctx, t.UserID, from.ID, fromBalance)
	if err != nil {
		return err
	}
	updatedTo, err := writer.Accounts().UpdateBalance(ctx, t.UserID, to.ID, toBalance)
	if err != nil {
		return err
	}

	t.Result = TransferFundsResult{From: updatedFrom, To: updatedTo}
	return nil
}

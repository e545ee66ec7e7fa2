package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
)

type CreateAccount struct {
	ID             uuid.UUID
	UserID         string
	Name           string
	Type           ledger.AccountType
	Currency       string
	InitialBalance decimal.Decimal

	Result *account.Account
}

var _ IAction = (*CreateAccount)(nil)

func (c *CreateAccount) Perform(ctx context.Context, writer storage.Writer) error {
	c.Result = nil

	if _, ok := ledger.NextBalance(c.Type, decimal.Zero, c.InitialBalance); !ok {
		return ledger.NewDomainError(ledger.ErrorInsufficientFunds, "initialBalance",
			"initial balance cannot be negative for "+string(c.Type)+" accounts")
	}

	created, err := writer.Accounts().Insert(ctx, &account.AccountCreate{
		ID:             c.ID,
		UserID:         c.UserID,
		Name:           c.Name,
		Type:           c.Type,
		Currency:       c.Currency,
		InitialBalance: c.InitialBalance,
	})
	if err != nil {
		return err
	}

	c.Result = created
	return nil
}

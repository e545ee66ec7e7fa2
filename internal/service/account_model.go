package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
)

// Account represents an account in the service layer.
type Account struct {
	ID             uuid.UUID
	Name           string
	Type           ledger.AccountType
	Currency       string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountCreate is the input for CreateAccount. An empty Currency means USD.
type AccountCreate struct {
	Name           string
	Type           ledger.AccountType
	Currency       string
	InitialBalance decimal.Decimal
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// TransferResult holds both accounts after a direct transfer.
type TransferResult struct {
	From Account
	To   Account
}

func accountFromStorage(row *account.Account) Account {
	return Account{
		ID:             row.ID,
		Name:           row.Name,
		Type:           row.Type,
		Currency:       row.Currency,
		InitialBalance: row.InitialBalance,
		CurrentBalance: row.CurrentBalance,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

package account

import (
	"time"

	"github.com/carson-networks/finance-ledger/internal/service"
)

// Account is the API response model for an account.
type Account struct {
	ID             string `json:"id" doc:"Account UUID"`
	Name           string `json:"name" doc:"Account name"`
	Type           string `json:"type" doc:"Account type"`
	Currency       string `json:"currency" doc:"ISO 4217 currency code"`
	InitialBalance string `json:"initialBalance" doc:"Decimal balance at creation"`
	CurrentBalance string `json:"currentBalance" doc:"Decimal current balance"`
	IsActive       bool   `json:"isActive" doc:"Whether the account is active"`
	CreatedAt      string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt      string `json:"updatedAt" doc:"RFC3339 time of the last balance change"`
}

func fromService(acc service.Account) Account {
	return Account{
		ID:             acc.ID.String(),
		Name:           acc.Name,
		Type:           string(acc.Type),
		Currency:       acc.Currency,
		InitialBalance: acc.InitialBalance.String(),
		CurrentBalance: acc.CurrentBalance.String(),
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      acc.UpdatedAt.Format(time.RFC3339),
	}
}

package transaction

import (
	"time"

	"github.com/carson-networks/finance-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string   `json:"id" doc:"Transaction UUID"`
	Type            string   `json:"type" doc:"income, expense, transfer or saving"`
	Amount          string   `json:"amount" doc:"Decimal amount"`
	Currency        string   `json:"currency" doc:"ISO 4217 currency code"`
	AccountID       string   `json:"accountId" doc:"Source account UUID"`
	ToAccountID     string   `json:"toAccountId,omitempty" doc:"Destination account UUID for transfers"`
	CategoryID      string   `json:"categoryId,omitempty"`
	GoalID          string   `json:"goalId,omitempty"`
	Description     string   `json:"description,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	Tags            []string `json:"tags" doc:"Free-form labels"`
	Date            string   `json:"date" doc:"Calendar date (YYYY-MM-DD)"`
	Year            int      `json:"year"`
	Month           int      `json:"month"`
	Day             int      `json:"day"`
	Week            int      `json:"week" doc:"Week of the month, weeks start on Sunday"`
	YearMonth       string   `json:"yearMonth" doc:"YYYY-MM bucket"`
	ExchangeRate    string   `json:"exchangeRate,omitempty" doc:"Units of currency per unit of the reference currency"`
	ReferenceAmount string   `json:"referenceAmount,omitempty" doc:"Amount in the reference currency"`
	IdempotencyKey  string   `json:"idempotencyKey,omitempty"`
	CreatedAt       string   `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromService(tx service.Transaction) Transaction {
	out := Transaction{
		ID:             tx.ID.String(),
		Type:           string(tx.Type),
		Amount:         tx.Amount.String(),
		Currency:       tx.Currency,
		AccountID:      tx.AccountID.String(),
		CategoryID:     tx.CategoryID,
		GoalID:         tx.GoalID,
		Description:    tx.Description,
		Notes:          tx.Notes,
		Tags:           tx.Tags,
		Date:           tx.Date.Format(time.DateOnly),
		Year:           tx.Year,
		Month:          tx.Month,
		Day:            tx.Day,
		Week:           tx.Week,
		YearMonth:      tx.YearMonth,
		IdempotencyKey: tx.IdempotencyKey,
		CreatedAt:      tx.CreatedAt.Format(time.RFC3339),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if tx.ToAccountID.Valid {
		out.ToAccountID = tx.ToAccountID.UUID.String()
	}
	if tx.ExchangeRate.Valid {
		out.ExchangeRate = tx.ExchangeRate.Decimal.String()
	}
	if tx.ReferenceAmount.Valid {
		out.ReferenceAmount = tx.ReferenceAmount.Decimal.String()
	}
	return out
}

package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

// Transaction represents a committed transaction in the service layer.
type Transaction struct {
	ID              uuid.UUID
	Type            ledger.TransactionType
	Amount          decimal.Decimal
	Currency        string
	AccountID       uuid.UUID
	ToAccountID     uuid.NullUUID
	CategoryID      string
	GoalID          string
	Description     string
	Notes           string
	Tags            []string
	Date            time.Time
	Year            int
	Month           int
	Day             int
	Week            int
	YearMonth       string
	ExchangeRate    decimal.NullDecimal
	ReferenceAmount decimal.NullDecimal
	IdempotencyKey  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CommittedTransaction is the result of CreateTransaction.
type CommittedTransaction struct {
	Transaction   Transaction
	SourceBalance decimal.Decimal
	// DestinationBalance is set for transfers only.
	DestinationBalance decimal.NullDecimal
	// Replayed reports that the idempotency key matched an earlier call and
	// no new effect was applied.
	Replayed bool
}

// TransactionFilter narrows ListTransactions. AccountID matches either side
// of a transfer.
type TransactionFilter struct {
	AccountID *uuid.UUID
	YearMonth string
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	tags := make([]string, len(row.Tags))
	copy(tags, row.Tags)

	return Transaction{
		ID:              row.ID,
		Type:            row.Type,
		Amount:          row.Amount,
		Currency:        row.Currency,
		AccountID:       row.AccountID,
		ToAccountID:     row.ToAccountID,
		CategoryID:      row.CategoryID.GetOrZero(),
		GoalID:          row.GoalID.GetOrZero(),
		Description:     row.Description.GetOrZero(),
		Notes:           row.Notes.GetOrZero(),
		Tags:            tags,
		Date:            row.Date,
		Year:            row.Year,
		Month:           row.Month,
		Day:             row.Day,
		Week:            row.Week,
		YearMonth:       row.YearMonth,
		ExchangeRate:    row.ExchangeRate,
		ReferenceAmount: row.ReferenceAmount,
		IdempotencyKey:  row.IdempotencyKey.GetOrZero(),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob/dialect/psql"

	"github.com/carson-networks/finance-ledger/internal/ledger"
)

// TableName is the transactions table.
const TableName = "transactions"

// ErrNotFound is returned when no transaction matches the lookup.
var ErrNotFound = errors.New("transaction not found")

// Transaction represents a committed ledger record. Records are immutable
// once written.
type Transaction struct {
	ID              uuid.UUID              `db:"id"`
	UserID          string                 `db:"user_id"`
	Type            ledger.TransactionType `db:"type"`
	Amount          decimal.Decimal        `db:"amount"`
	Currency        string                 `db:"currency"`
	AccountID       uuid.UUID              `db:"account_id"`
	ToAccountID     uuid.NullUUID          `db:"to_account_id"`
	CategoryID      null.Val[string]       `db:"category_id"`
	GoalID          null.Val[string]       `db:"goal_id"`
	Description     null.Val[string]       `db:"description"`
	Notes           null.Val[string]       `db:"notes"`
	Tags            pq.StringArray         `db:"tags"`
	Date            time.Time              `db:"effective_date"`
	Year            int                    `db:"year"`
	Month           int                    `db:"month"`
	Day             int                    `db:"day"`
	Week            int                    `db:"week"`
	YearMonth       string                 `db:"year_month"`
	ExchangeRate    decimal.NullDecimal    `db:"exchange_rate"`
	ReferenceAmount decimal.NullDecimal    `db:"reference_amount"`
	IdempotencyKey  null.Val[string]       `db:"idempotency_key"`
	CreatedAt       time.Time              `db:"created_at"`
	UpdatedAt       time.Time              `db:"updated_at"`
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	// AccountID matches records where the account is either side of the movement.
	AccountID       *uuid.UUID
	YearMonth       string
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// ITransactionReader defines the read side of transaction storage.
type ITransactionReader interface {
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*Transaction, error)
	FindByIdempotencyKey(ctx context.Context, userID string, key string) (*Transaction, error)
	// List returns up to filter.Limit+1 records, newest first.
	List(ctx context.Context, userID string, filter *TransactionFilter) ([]*Transaction, error)
}

// ITransactionWriter defines transaction operations available inside an
// atomic unit. Insert ignores CreatedAt and UpdatedAt and stamps both with
// the unit's commit clock.
type ITransactionWriter interface {
	ITransactionReader
	Insert(ctx context.Context, record *Transaction) (*Transaction, error)
}

var columns = []any{
	psql.Quote("id"),
	psql.Quote("user_id"),
	psql.Quote("type"),
	psql.Quote("amount"),
	psql.Quote("currency"),
	psql.Quote("account_id"),
	psql.Quote("to_account_id"),
	psql.Quote("category_id"),
	psql.Quote("goal_id"),
	psql.Quote("description"),
	psql.Quote("notes"),
	psql.Quote("tags"),
	psql.Quote("effective_date"),
	psql.Quote("year"),
	psql.Quote("month"),
	psql.Quote("day"),
	psql.Quote("week"),
	psql.Quote("year_month"),
	psql.Quote("exchange_rate"),
	psql.Quote("reference_amount"),
	psql.Quote("idempotency_key"),
	psql.Quote("created_at"),
	psql.Quote("updated_at"),
}

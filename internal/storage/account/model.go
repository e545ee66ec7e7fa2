package account

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob/dialect/psql"

	"github.com/carson-networks/finance-ledger/internal/ledger"
)

// TableName is the accounts table.
const TableName = "accounts"

// ErrNotFound is returned when no account matches the user and id.
var ErrNotFound = errors.New("account not found")

// Account represents an account record.
type Account struct {
	ID             uuid.UUID          `db:"id"`
	UserID         string             `db:"user_id"`
	Name           string             `db:"name"`
	Type           ledger.AccountType `db:"type"`
	Currency       string             `db:"currency"`
	InitialBalance decimal.Decimal    `db:"initial_balance"`
	CurrentBalance decimal.Decimal    `db:"current_balance"`
	IsActive       bool               `db:"is_active"`
	CreatedAt      time.Time          `db:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at"`
}

// AccountCreate is the input for creating a new account.
// CurrentBalance starts at InitialBalance and the account starts active.
type AccountCreate struct {
	ID             uuid.UUID
	UserID         string
	Name           string
	Type           ledger.AccountType
	Currency       string
	InitialBalance decimal.Decimal
}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	Limit  int
	Offset int
}

// IAccountReader defines the read side of account storage. Every lookup is
// scoped to the owning user.
type IAccountReader interface {
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*Account, error)
	// List returns up to filter.Limit+1 accounts ordered by name then id, so
	// callers can tell whether another page exists.
	List(ctx context.Context, userID string, filter *AccountFilter) ([]*Account, error)
}

// IAccountWriter defines account operations available inside an atomic unit.
type IAccountWriter interface {
	IAccountReader
	// FindForUpdate reads the given accounts and holds them against concurrent
	// writers until the unit ends. Accounts that do not exist are absent from
	// the returned map.
	FindForUpdate(ctx context.Context, userID string, ids ...uuid.UUID) (map[uuid.UUID]*Account, error)
	Insert(ctx context.Context, create *AccountCreate) (*Account, error)
	UpdateBalance(ctx context.Context, userID string, id uuid.UUID, balance decimal.Decimal) (*Account, error)
}

var columns = []any{
	psql.Quote("id"),
	psql.Quote("user_id"),
	psql.Quote("name"),
	psql.Quote("type"),
	psql.Quote("currency"),
	psql.Quote("initial_balance"),
	psql.Quote("current_balance"),
	psql.Quote("is_active"),
	psql.Quote("created_at"),
	psql.Quote("updated_at"),
}

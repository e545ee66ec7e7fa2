package account

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"slices"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	Reader
}

var _ IAccountWriter = (*Writer)(nil)

// NewWriter returns a Writer bound to an open transaction.
func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		Reader: Reader{
			exec: tx,
		},
	}
}

// FindForUpdate locks the rows in id order so that two units touching the
// same pair of accounts always acquire their locks in the same sequence.
func (w *Writer) FindForUpdate(ctx context.Context, userID string, ids ...uuid.UUID) (map[uuid.UUID]*Account, error) {
	found := make(map[uuid.UUID]*Account, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return bytes.Compare(a.Bytes(), b.Bytes())
	})
	sorted = slices.Compact(sorted)

	idArgs := make([]bob.Expression, len(sorted))
	for i, id := range sorted {
		idArgs[i] = psql.Arg(id)
	}

	query := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.Where(psql.Quote("id").In(idArgs...)),
		sm.OrderBy(psql.Quote("id")).Asc(),
		sm.ForUpdate(),
	)

	rows, err := bob.All(ctx, w.exec, query, scan.StructMapper[Account]())
	if err != nil {
		return nil, err
	}

	for i := range rows {
		found[rows[i].ID] = &rows[i]
	}
	return found, nil
}

func (w *Writer) Insert(ctx context.Context, create *AccountCreate) (*Account, error) {
	query := psql.Insert(
		im.Into(TableName,
			"id", "user_id", "name", "type", "currency",
			"initial_balance", "current_balance", "is_active",
			"created_at", "updated_at",
		),
		im.Values(
			psql.Arg(create.ID),
			psql.Arg(create.UserID),
			psql.Arg(create.Name),
			psql.Arg(string(create.Type)),
			psql.Arg(create.Currency),
			psql.Arg(create.InitialBalance),
			psql.Arg(create.InitialBalance),
			psql.Arg(true),
			psql.Raw("now()"),
			psql.Raw("now()"),
		),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.exec, query, scan.StructMapper[Account]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateBalance writes the recomputed balance. updated_at takes the
// transaction timestamp so it matches every other row written in the unit.
func (w *Writer) UpdateBalance(ctx context.Context, userID string, id uuid.UUID, balance decimal.Decimal) (*Account, error) {
	query := psql.Update(
		um.Table(TableName),
		um.SetCol("current_balance").ToArg(balance),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(columns...),
	)

	row, err := bob.One(ctx, w.exec, query, scan.StructMapper[Account]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

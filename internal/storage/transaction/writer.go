package transaction

import (
	"context"

	"github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	Reader
}

var _ ITransactionWriter = (*Writer)(nil)

// NewWriter returns a Writer bound to an open transaction.
func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		Reader: Reader{
			exec: tx,
		},
	}
}

// Insert writes the record and returns it as stored. A second insert with the
// same (user_id, idempotency_key) fails with a unique violation.
func (w *Writer) Insert(ctx context.Context, record *Transaction) (*Transaction, error) {
	tags := record.Tags
	if tags == nil {
		tags = pq.StringArray{}
	}

	query := psql.Insert(
		im.Into(TableName,
			"id", "user_id", "type", "amount", "currency",
			"account_id", "to_account_id",
			"category_id", "goal_id", "description", "notes", "tags",
			"effective_date", "year", "month", "day", "week", "year_month",
			"exchange_rate", "reference_amount", "idempotency_key",
			"created_at", "updated_at",
		),
		im.Values(
			psql.Arg(record.ID),
			psql.Arg(record.UserID),
			psql.Arg(string(record.Type)),
			psql.Arg(record.Amount),
			psql.Arg(record.Currency),
			psql.Arg(record.AccountID),
			psql.Arg(record.ToAccountID),
			psql.Arg(record.CategoryID),
			psql.Arg(record.GoalID),
			psql.Arg(record.Description),
			psql.Arg(record.Notes),
			psql.Arg(tags),
			psql.Arg(record.Date),
			psql.Arg(record.Year),
			psql.Arg(record.Month),
			psql.Arg(record.Day),
			psql.Arg(record.Week),
			psql.Arg(record.YearMonth),
			psql.Arg(record.ExchangeRate),
			psql.Arg(record.ReferenceAmount),
			psql.Arg(record.IdempotencyKey),
			psql.Raw("now()"),
			psql.Raw("now()"),
		),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.exec, query, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}

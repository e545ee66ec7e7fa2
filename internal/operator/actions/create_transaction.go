package actions

import (
	"context"
	"errors"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/money"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

// CreateTransaction applies a validated draft: it records the transaction and
// moves the affected balances in the same unit.
type CreateTransaction struct {
	ID     uuid.UUID
	UserID string
	Draft  ledger.Draft
	// Date is the parsed Draft.Date.
	Date       time.Time
	Normalizer *money.Normalizer

	Result CreateTransactionResult
}

type CreateTransactionResult struct {
	Transaction *transaction.Transaction
	Source      *account.Account
	Destination *account.Account
	// Replayed is set when the idempotency key matched an earlier record and
	// nothing was written.
	Replayed bool
}

var _ IAction = (*CreateTransaction)(nil)

func (t *CreateTransaction) Perform(ctx context.Context, writer storage.Writer) error {
	t.Result = CreateTransactionResult{}
	draft := t.Draft

	if draft.IdempotencyKey != "" {
		replayed, err := t.replay(ctx, writer)
		if err != nil || replayed {
			return err
		}
	}

	ids := []uuid.UUID{draft.AccountID}
	isTransfer := draft.Type == ledger.TransactionTypeTransfer
	if isTransfer {
		ids = append(ids, draft.ToAccountID)
	}

	accounts, err := writer.Accounts().FindForUpdate(ctx, t.UserID, ids...)
	if err != nil {
		return err
	}

	source, ok := accounts[draft.AccountID]
	if !ok {
		return ledger.NewDomainError(ledger.ErrorAccountNotFound, "accountId", "source account not found")
	}

	currency := draft.Currency
	if currency == "" {
		currency = source.Currency
	}
	if currency != source.Currency {
		return ledger.NewDomainError(ledger.ErrorCurrencyMismatch, "currency",
			"transaction currency "+currency+" does not match account currency "+source.Currency)
	}

	var destination *account.Account
	if isTransfer {
		destination, ok = accounts[draft.ToAccountID]
		if !ok {
			return ledger.NewDomainError(ledger.ErrorAccountNotFound, "toAccountId", "destination account not found")
		}
		if destination.Currency != source.Currency {
			return ledger.NewDomainError(ledger.ErrorUnsupportedTransfer, "toAccountId",
				"transfers between "+source.Currency+" and "+destination.Currency+" accounts are not supported")
		}
	}

	effect, err := ledger.BalanceEffect(draft.Type, draft.Amount)
	if err != nil {
		return err
	}

	sourceBalance, ok := ledger.NextBalance(source.Type, source.CurrentBalance, effect.FromDelta)
	if !ok {
		return ledger.NewDomainError(ledger.ErrorInsufficientFunds, "amount", "insufficient funds in source account")
	}

	var destinationBalance decimal.Decimal
	if destination != nil {
		destinationBalance, ok = ledger.NextBalance(destination.Type, destination.CurrentBalance, effect.ToDelta.Decimal)
		if !ok {
			return ledger.NewDomainError(ledger.ErrorDestinationWouldGoNegative, "toAccountId", "destination account would become negative")
		}
	}

	record, err := t.buildRecord(currency)
	if err != nil {
		return err
	}

	committed, err := writer.Transactions().Insert(ctx, record)
	if err != nil {
		return err
	}

	updatedSource, err := writer.Accounts().UpdateBalance(ctx, t.UserID, source.ID, sourceBalance)
	if err != nil {
		return err
	}

	var updatedDestination *account.Account
	if destination != nil {
		updatedDestination, err = writer.Accounts().UpdateBalance(ctx, t.UserID, destination.ID, destinationBalance)
		if err != nil {
			return err
		}
	}

	t.Result = CreateTransactionResult{
		Transaction: committed,
		Source:      updatedSource,
		Destination: updatedDestination,
	}
	return nil
}

func (t *CreateTransaction) replay(ctx context.Context, writer storage.Writer) (bool, error) {
	existing, err := writer.Transactions().FindByIdempotencyKey(ctx, t.UserID, t.Draft.IdempotencyKey)
	if errors.Is(err, transaction.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !t.matches(existing) {
		return false, ledger.NewDomainError(ledger.ErrorIdempotencyKeyReused, "idempotencyKey",
			"idempotency key was used for a different transaction")
	}

	result := CreateTransactionResult{Transaction: existing, Replayed: true}
	result.Source, err = writer.Accounts().FindByID(ctx, t.UserID, existing.AccountID)
	if err != nil && !errors.Is(err, account.ErrNotFound) {
		return false, err
	}
	if existing.ToAccountID.Valid {
		result.Destination, err = writer.Accounts().FindByID(ctx, t.UserID, existing.ToAccountID.UUID)
		if err != nil && !errors.Is(err, account.ErrNotFound) {
			return false, err
		}
	}
	t.Result = result
	return true, nil
}

// matches reports whether existing records the same movement of money as the
// draft. Descriptive fields may differ between retries.
func (t *CreateTransaction) matches(existing *transaction.Transaction) bool {
	draft := t.Draft
	if existing.Type != draft.Type || !existing.Amount.Equal(draft.Amount) || existing.AccountID != draft.AccountID {
		return false
	}
	if draft.Currency != "" && draft.Currency != existing.Currency {
		return false
	}
	if draft.Type == ledger.TransactionTypeTransfer {
		return existing.ToAccountID.Valid && existing.ToAccountID.UUID == draft.ToAccountID
	}
	return true
}

func (t *CreateTransaction) buildRecord(currency string) (*transaction.Transaction, error) {
	draft := t.Draft
	parts := ledger.ExtractDateParts(t.Date)

	tags := pq.StringArray{}
	if len(draft.Tags) > 0 {
		tags = append(tags, draft.Tags...)
	}

	record := &transaction.Transaction{
		ID:             t.ID,
		UserID:         t.UserID,
		Type:           draft.Type,
		Amount:         draft.Amount,
		Currency:       currency,
		AccountID:      draft.AccountID,
		CategoryID:     optional(draft.CategoryID),
		GoalID:         optional(draft.GoalID),
		Description:    optional(draft.Description),
		Notes:          optional(draft.Notes),
		Tags:           tags,
		Date:           t.Date,
		Year:           parts.Year,
		Month:          parts.Month,
		Day:            parts.Day,
		Week:           parts.Week,
		YearMonth:      parts.YearMonth,
		ExchangeRate:   draft.ExchangeRate,
		IdempotencyKey: optional(draft.IdempotencyKey),
	}
	if draft.Type == ledger.TransactionTypeTransfer {
		record.ToAccountID = uuid.NullUUID{UUID: draft.ToAccountID, Valid: true}
	}

	if t.Normalizer != nil && (currency == t.Normalizer.Reference() || draft.ExchangeRate.Valid) {
		reference, err := t.Normalizer.ToReferenceCurrency(draft.Amount, currency, draft.ExchangeRate.Decimal)
		if err != nil {
			return nil, ledger.NewDomainError(ledger.ErrorInvalidInput, "exchangeRate", err.Error())
		}
		record.ReferenceAmount = decimal.NewNullDecimal(reference)
	}

	return record, nil
}

func optional(s string) null.Val[string] {
	return null.FromCond(s, s != "")
}

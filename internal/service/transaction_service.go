package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/money"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

const defaultLimit = 20

// TransactionService records financial events and reads the transaction log.
type TransactionService struct {
	storage    storage.Storage
	processor  Processor
	normalizer *money.Normalizer
}

// NewTransactionService creates a new TransactionService. normalizer may be
// nil, in which case no reference amount is recorded.
func NewTransactionService(store storage.Storage, processor Processor, normalizer *money.Normalizer) *TransactionService {
	return &TransactionService{
		storage:    store,
		processor:  processor,
		normalizer: normalizer,
	}
}

// CreateTransaction validates draft and applies it atomically: the record is
// written and the affected balances move together, or nothing changes.
//
// Errors are a *ledger.ValidationError (nothing was read), a
// ledger.DomainError (nothing was written) or a *ledger.CommitError.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, draft ledger.Draft) (*CommittedTransaction, error) {
	draft.Currency = normalizeCurrency(draft.Currency)
	if err := draft.Validate(userID).Err(); err != nil {
		return nil, err
	}

	date, err := ledger.ParseDate(draft.Date)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("uuid.NewV4: %w", err)
	}

	action := &actions.CreateTransaction{
		ID:         id,
		UserID:     userID,
		Draft:      draft,
		Date:       date,
		Normalizer: s.normalizer,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	result := action.Result
	committed := &CommittedTransaction{
		Transaction: transactionFromStorage(result.Transaction),
		Replayed:    result.Replayed,
	}
	if result.Source != nil {
		committed.SourceBalance = result.Source.CurrentBalance
	}
	if result.Destination != nil {
		committed.DestinationBalance.Decimal = result.Destination.CurrentBalance
		committed.DestinationBalance.Valid = true
	}
	return committed, nil
}

// GetTransaction retrieves a committed transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, userID string, id uuid.UUID) (*Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	row, err := s.storage.Reader().Transactions().FindByID(ctx, userID, id)
	if errors.Is(err, transaction.ErrNotFound) {
		return nil, ledger.NewDomainError(ledger.ErrorTransactionNotFound, "transactionId", "transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}

	converted := transactionFromStorage(row)
	return &converted, nil
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string, filter *TransactionFilter, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	if err := requireUser(userID); err != nil {
		return nil, nil, err
	}

	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime = &cursor.MaxCreationTime
		}
	}

	storageFilter := &transaction.TransactionFilter{
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}
	if filter != nil {
		storageFilter.AccountID = filter.AccountID
		storageFilter.YearMonth = filter.YearMonth
	}

	rows, err := s.storage.Reader().Transactions().List(ctx, userID, storageFilter)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := rows[0].CreatedAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	convertedTransactions := make([]Transaction, len(rows))
	for i, row := range rows {
		convertedTransactions[i] = transactionFromStorage(row)
	}

	return convertedTransactions, nextCursor, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
)

const defaultAccountLimit = 20

// AccountService handles account business logic.
type AccountService struct {
	storage   storage.Storage
	processor Processor
}

// NewAccountService creates a new AccountService.
func NewAccountService(store storage.Storage, processor Processor) *AccountService {
	return &AccountService{storage: store, processor: processor}
}

// CreateAccount validates and creates a new active account whose current
// balance starts at the initial balance.
func (s *AccountService) CreateAccount(ctx context.Context, userID string, create AccountCreate) (*Account, error) {
	currency := normalizeCurrency(create.Currency)
	if currency == "" {
		currency = ledger.DefaultCurrency
	}

	var errs []ledger.DomainError
	add := func(field, message string) {
		errs = append(errs, ledger.DomainError{Code: ledger.ErrorInvalidInput, Field: field, Message: message})
	}
	if strings.TrimSpace(userID) == "" {
		add("userId", "userId is required")
	}
	if strings.TrimSpace(create.Name) == "" {
		add("name", "name is required")
	}
	if !create.Type.IsValid() {
		add("type", "invalid account type: "+string(create.Type))
	}
	if !ledger.IsKnownCurrency(currency) {
		add("currency", "unknown currency: "+currency)
	}
	if create.Type.IsValid() {
		if _, ok := ledger.NextBalance(create.Type, decimal.Zero, create.InitialBalance); !ok {
			add("initialBalance", "initial balance cannot be negative for "+string(create.Type)+" accounts")
		}
	}
	if len(errs) > 0 {
		return nil, &ledger.ValidationError{Errors: errs}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("uuid.NewV4: %w", err)
	}

	action := &actions.CreateAccount{
		ID:             id,
		UserID:         userID,
		Name:           strings.TrimSpace(create.Name),
		Type:           create.Type,
		Currency:       currency,
		InitialBalance: create.InitialBalance,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	created := accountFromStorage(action.Result)
	return &created, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, userID string, id uuid.UUID) (*Account, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	row, err := s.storage.Reader().Accounts().FindByID(ctx, userID, id)
	if errors.Is(err, account.ErrNotFound) {
		return nil, ledger.NewDomainError(ledger.ErrorAccountNotFound, "accountId", "account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}

	acc := accountFromStorage(row)
	return &acc, nil
}

// ListAccounts returns a page of accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, userID string, cursor *AccountCursor) ([]Account, *AccountCursor, error) {
	if err := requireUser(userID); err != nil {
		return nil, nil, err
	}

	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	filter := &account.AccountFilter{
		Limit:  limit,
		Offset: offset,
	}

	var nextCursor *AccountCursor
	accounts, err := s.storage.Reader().Accounts().List(ctx, userID, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list accounts: %w", err)
	}

	if len(accounts) == 0 {
		return nil, nil, nil
	}

	if len(accounts) > limit {
		accounts = accounts[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	convertedAccounts := make([]Account, len(accounts))
	for i, row := range accounts {
		convertedAccounts[i] = accountFromStorage(row)
	}

	return convertedAccounts, nextCursor, nil
}

// AdjustBalance adds delta to an account's balance as a manual correction.
// Non-credit accounts cannot be adjusted below zero.
func (s *AccountService) AdjustBalance(ctx context.Context, userID string, id uuid.UUID, delta decimal.Decimal) (*Account, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, &ledger.ValidationError{Errors: []ledger.DomainError{{
			Code:    ledger.ErrorInvalidAmount,
			Field:   "delta",
			Message: "delta must not be zero",
		}}}
	}

	action := &actions.AdjustBalance{
		UserID:    userID,
		AccountID: id,
		Delta:     delta,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	adjusted := accountFromStorage(action.Result)
	return &adjusted, nil
}

// TransferFunds moves amount between two of the user's accounts without
// recording a transaction. Both accounts must share a currency.
func (s *AccountService) TransferFunds(ctx context.Context, userID string, from, to uuid.UUID, amount decimal.Decimal) (*TransferResult, error) {
	var errs []ledger.DomainError
	add := func(code ledger.ErrorCode, field, message string) {
		errs = append(errs, ledger.DomainError{Code: code, Field: field, Message: message})
	}
	if strings.TrimSpace(userID) == "" {
		add(ledger.ErrorInvalidInput, "userId", "userId is required")
	}
	if from == uuid.Nil {
		add(ledger.ErrorInvalidInput, "fromAccountId", "fromAccountId is required")
	}
	if to == uuid.Nil {
		add(ledger.ErrorInvalidInput, "toAccountId", "toAccountId is required")
	} else if to == from {
		add(ledger.ErrorInvalidInput, "toAccountId", "source and destination accounts must be different for a transfer")
	}
	if !amount.IsPositive() {
		add(ledger.ErrorInvalidAmount, "amount", "amount must be a positive number")
	}
	if len(errs) > 0 {
		return nil, &ledger.ValidationError{Errors: errs}
	}

	action := &actions.TransferFunds{
		UserID:        userID,
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	return &TransferResult{
		From: accountFromStorage(action.Result.From),
		To:   accountFromStorage(action.Result.To),
	}, nil
}

package ledger

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const maxIdempotencyKeyLength = 128

// Draft is a user-submitted financial event before it is applied.
type Draft struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string // empty means the source account's currency
	AccountID   uuid.UUID
	ToAccountID uuid.UUID // required iff Type is transfer
	CategoryID  string
	GoalID      string
	Description string
	Notes       string
	Tags        []string
	Date        string

	// ExchangeRate is units of Currency per unit of the reference currency.
	ExchangeRate decimal.NullDecimal

	// IdempotencyKey de-duplicates client retries: a second draft with the same
	// key returns the first transaction instead of applying it again.
	IdempotencyKey string
}

// ValidationResult lists every problem found in a draft.
type ValidationResult struct {
	OK     bool
	Errors []DomainError
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.OK {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// Validate checks the structure of a draft without touching any store.
func (d Draft) Validate(userID string) ValidationResult {
	var errs []DomainError
	add := func(code ErrorCode, field, message string) {
		errs = append(errs, DomainError{Code: code, Field: field, Message: message})
	}

	if strings.TrimSpace(userID) == "" {
		add(ErrorInvalidInput, "userId", "userId is required")
	}

	if !d.Type.IsValid() {
		add(ErrorUnsupportedType, "type", "invalid transaction type: "+string(d.Type))
	}

	if !d.Amount.IsPositive() {
		add(ErrorInvalidAmount, "amount", "amount must be a positive number")
	}

	if d.AccountID == uuid.Nil {
		add(ErrorInvalidInput, "accountId", "accountId is required")
	}

	if d.Type == TransactionTypeTransfer {
		switch {
		case d.ToAccountID == uuid.Nil:
			add(ErrorInvalidInput, "toAccountId", "toAccountId is required for transfer transactions")
		case d.ToAccountID == d.AccountID:
			add(ErrorInvalidInput, "toAccountId", "source and destination accounts must be different for a transfer")
		}
	} else if d.ToAccountID != uuid.Nil {
		add(ErrorInvalidInput, "toAccountId", "toAccountId is only allowed for transfer transactions")
	}

	if _, err := ParseDate(d.Date); err != nil {
		add(ErrorInvalidInput, "date", "invalid date for transaction")
	}

	if d.Currency != "" && !IsKnownCurrency(d.Currency) {
		add(ErrorInvalidInput, "currency", "unknown currency: "+d.Currency)
	}

	if d.ExchangeRate.Valid && !d.ExchangeRate.Decimal.IsPositive() {
		add(ErrorInvalidInput, "exchangeRate", "exchangeRate must be a positive number")
	}

	if len(d.IdempotencyKey) > maxIdempotencyKeyLength {
		add(ErrorInvalidInput, "idempotencyKey", "idempotencyKey is too long")
	}

	return ValidationResult{OK: len(errs) == 0, Errors: errs}
}

// IsKnownCurrency reports whether code is an ISO 4217 currency code.
func IsKnownCurrency(code string) bool {
	return code == strings.ToUpper(code) && money.GetCurrency(code) != nil
}

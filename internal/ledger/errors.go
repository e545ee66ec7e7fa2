package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a domain error code returned by ledger operations.
type ErrorCode string

const (
	// ErrorInvalidInput indicates a draft or request field failed validation.
	ErrorInvalidInput ErrorCode = "1001"
	// ErrorInvalidAmount indicates an amount that is not a finite number greater than zero.
	ErrorInvalidAmount ErrorCode = "1002"
	// ErrorUnsupportedType indicates a transaction type the ledger does not handle.
	ErrorUnsupportedType ErrorCode = "1003"
	// ErrorAccountNotFound indicates a referenced account does not exist for the user.
	ErrorAccountNotFound ErrorCode = "2001"
	// ErrorTransactionNotFound indicates a referenced transaction does not exist for the user.
	ErrorTransactionNotFound ErrorCode = "2002"
	// ErrorCurrencyMismatch indicates the draft currency differs from the source account currency.
	ErrorCurrencyMismatch ErrorCode = "3001"
	// ErrorUnsupportedTransfer indicates a transfer between accounts of different currencies.
	ErrorUnsupportedTransfer ErrorCode = "3002"
	// ErrorInsufficientFunds indicates the source account would go negative.
	ErrorInsufficientFunds ErrorCode = "3003"
	// ErrorDestinationWouldGoNegative indicates the destination account would go negative.
	ErrorDestinationWouldGoNegative ErrorCode = "3004"
	// ErrorIdempotencyKeyReused indicates an idempotency key already recorded a
	// different transaction.
	ErrorIdempotencyKeyReused ErrorCode = "3005"
)

// DomainError is a deterministic rejection produced before anything is committed.
type DomainError struct {
	Code    ErrorCode
	Field   string
	Message string
}

func (e DomainError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// Is matches any DomainError carrying the same code, so callers can compare
// against the sentinels below regardless of field and message.
func (e DomainError) Is(target error) bool {
	var t DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a domain error with code, field, and message.
func NewDomainError(code ErrorCode, field, message string) error {
	return DomainError{Code: code, Field: field, Message: message}
}

var (
	ErrInvalidAmount              = DomainError{Code: ErrorInvalidAmount, Message: "amount must be a positive number"}
	ErrUnsupportedType            = DomainError{Code: ErrorUnsupportedType, Message: "unsupported transaction type"}
	ErrAccountNotFound            = DomainError{Code: ErrorAccountNotFound, Message: "account not found"}
	ErrTransactionNotFound        = DomainError{Code: ErrorTransactionNotFound, Message: "transaction not found"}
	ErrCurrencyMismatch           = DomainError{Code: ErrorCurrencyMismatch, Message: "transaction currency must match source account currency"}
	ErrUnsupportedTransfer        = DomainError{Code: ErrorUnsupportedTransfer, Message: "transfers between accounts with different currencies are not supported"}
	ErrInsufficientFunds          = DomainError{Code: ErrorInsufficientFunds, Message: "insufficient funds in source account"}
	ErrDestinationWouldGoNegative = DomainError{Code: ErrorDestinationWouldGoNegative, Message: "destination account would become negative"}
	ErrIdempotencyKeyReused       = DomainError{Code: ErrorIdempotencyKeyReused, Message: "idempotency key was used for a different transaction"}
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError carries every field error found in a draft or request.
type ValidationError struct {
	Errors []DomainError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fieldErr := range e.Errors {
		msgs[i] = fieldErr.Field + ": " + fieldErr.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrCommit matches every *CommitError.
var ErrCommit = errors.New("commit failed")

// CommitError reports that the atomic unit itself could not complete. The
// caller cannot tell whether an acknowledgement was lost after a commit, so a
// blind retry may apply the effect twice unless an idempotency key is used.
type CommitError struct {
	Attempts int
	Err      error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

func (e *CommitError) Is(target error) bool {
	return target == ErrCommit
}

// IsDomainError reports whether err is a deterministic, pre-commit rejection
// that must not be retried.
func IsDomainError(err error) bool {
	var domainErr DomainError
	return errors.Is(err, ErrValidation) || errors.As(err, &domainErr)
}

package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Effect is the signed change a transaction applies to the accounts it touches.
// ToDelta is only valid for transfers.
type Effect struct {
	FromDelta decimal.Decimal
	ToDelta   decimal.NullDecimal
}

// BalanceEffect returns the balance deltas implied by a transaction of the
// given type and amount. A saving debits the source account exactly like an
// expense; crediting a goal is left to the caller.
func BalanceEffect(txType TransactionType, amount decimal.Decimal) (Effect, error) {
	if !amount.IsPositive() {
		return Effect{}, ErrInvalidAmount
	}

	switch txType {
	case TransactionTypeExpense, TransactionTypeSaving:
		return Effect{FromDelta: amount.Neg()}, nil
	case TransactionTypeIncome:
		return Effect{FromDelta: amount}, nil
	case TransactionTypeTransfer:
		return Effect{
			FromDelta: amount.Neg(),
			ToDelta:   decimal.NewNullDecimal(amount),
		}, nil
	default:
		return Effect{}, DomainError{
			Code:    ErrorUnsupportedType,
			Field:   "type",
			Message: fmt.Sprintf("unsupported transaction type: %q", string(txType)),
		}
	}
}

// NextBalance applies delta to current and reports whether the result is
// allowed for an account of type accountType. Every path that moves a balance
// goes through here so the non-credit floor of zero is enforced identically.
func NextBalance(accountType AccountType, current, delta decimal.Decimal) (decimal.Decimal, bool) {
	next := current.Add(delta)
	if next.IsNegative() && !accountType.AllowsNegativeBalance() {
		return next, false
	}
	return next, true
}

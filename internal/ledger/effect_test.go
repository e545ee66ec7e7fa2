package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceEffect_SignTable(t *testing.T) {
	amount := decimal.RequireFromString("42.50")

	tests := []struct {
		name      string
		txType    TransactionType
		fromDelta string
		hasTo     bool
	}{
		{name: "expense", txType: TransactionTypeExpense, fromDelta: "-42.50"},
		{name: "income", txType: TransactionTypeIncome, fromDelta: "42.50"},
		{name: "saving", txType: TransactionTypeSaving, fromDelta: "-42.50"},
		{name: "transfer", txType: TransactionTypeTransfer, fromDelta: "-42.50", hasTo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect, err := BalanceEffect(tt.txType, amount)
			require.NoError(t, err)

			assert.True(t, effect.FromDelta.Equal(decimal.RequireFromString(tt.fromDelta)), "fromDelta=%s", effect.FromDelta)
			assert.Equal(t, tt.hasTo, effect.ToDelta.Valid)
			if tt.hasTo {
				assert.True(t, effect.ToDelta.Decimal.Equal(effect.FromDelta.Neg()), "toDelta must mirror fromDelta")
			}
		})
	}
}

func TestBalanceEffect_IsReferentiallyTransparent(t *testing.T) {
	amount := decimal.RequireFromString("10")

	first, err := BalanceEffect(TransactionTypeTransfer, amount)
	require.NoError(t, err)
	second, err := BalanceEffect(TransactionTypeTransfer, amount)
	require.NoError(t, err)

	assert.True(t, first.FromDelta.Equal(second.FromDelta))
	assert.True(t, first.ToDelta.Decimal.Equal(second.ToDelta.Decimal))
	assert.True(t, amount.Equal(decimal.RequireFromString("10")), "input amount is not mutated")
}

func TestBalanceEffect_InvalidAmount(t *testing.T) {
	for _, raw := range []string{"0", "-0.01", "-100"} {
		t.Run(raw, func(t *testing.T) {
			_, err := BalanceEffect(TransactionTypeExpense, decimal.RequireFromString(raw))
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestBalanceEffect_InvalidAmountCheckedBeforeType(t *testing.T) {
	_, err := BalanceEffect("refund", decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBalanceEffect_UnsupportedType(t *testing.T) {
	for _, raw := range []string{"", "refund", "EXPENSE", "investment"} {
		t.Run(raw, func(t *testing.T) {
			_, err := BalanceEffect(TransactionType(raw), decimal.NewFromInt(1))
			assert.ErrorIs(t, err, ErrUnsupportedType)

			var domainErr DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, "type", domainErr.Field)
		})
	}
}

func TestNextBalance(t *testing.T) {
	tests := []struct {
		name        string
		accountType AccountType
		current     string
		delta       string
		next        string
		ok          bool
	}{
		{name: "bank debit within balance", accountType: AccountTypeBank, current: "100", delta: "-40", next: "60", ok: true},
		{name: "bank debit to exactly zero", accountType: AccountTypeBank, current: "100", delta: "-100", next: "0", ok: true},
		{name: "bank debit one cent over", accountType: AccountTypeBank, current: "100", delta: "-100.01", next: "-0.01", ok: false},
		{name: "cash credit", accountType: AccountTypeCash, current: "0", delta: "5", next: "5", ok: true},
		{name: "credit card may go negative", accountType: AccountTypeCredit, current: "0", delta: "-500", next: "-500", ok: true},
		{name: "wallet already negative stays rejected", accountType: AccountTypeWallet, current: "-10", delta: "5", next: "-5", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextBalance(tt.accountType, decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.delta))
			assert.Equal(t, tt.ok, ok)
			assert.True(t, next.Equal(decimal.RequireFromString(tt.next)), "next=%s", next)
		})
	}
}

func TestNextBalance_DecimalHasNoFloatDrift(t *testing.T) {
	balance := decimal.Zero
	for i := 0; i < 10; i++ {
		var ok bool
		balance, ok = NextBalance(AccountTypeBank, balance, decimal.RequireFromString("0.1"))
		require.True(t, ok)
	}
	assert.True(t, balance.Equal(decimal.NewFromInt(1)), "ten 0.1 credits sum to exactly 1, got %s", balance)
}

// Package money converts ledger amounts into a common reporting currency.
//
// Conversions never read ambient state: the exchange rate is always passed in
// by the caller, expressed as units of the source currency per one unit of the
// reference currency (for example 40 UYU per USD).
package money

import (
	"errors"
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrInvalidRate     = errors.New("exchange rate must be a positive number")
)

// Normalizer converts amounts to and from a reference currency.
type Normalizer struct {
	reference *gomoney.Currency
}

// NewNormalizer returns a Normalizer for the given ISO 4217 reference currency.
func NewNormalizer(reference string) (*Normalizer, error) {
	cur := gomoney.GetCurrency(reference)
	if cur == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, reference)
	}
	return &Normalizer{reference: cur}, nil
}

// Reference returns the reference currency code.
func (n *Normalizer) Reference() string {
	return n.reference.Code
}

// ToReferenceCurrency converts amount in currency to the reference currency,
// rounded to the reference currency's minor units. The rate is ignored when
// currency already is the reference currency.
func (n *Normalizer) ToReferenceCurrency(amount decimal.Decimal, currency string, rate decimal.Decimal) (decimal.Decimal, error) {
	if currency == n.reference.Code {
		return roundTo(amount, n.reference), nil
	}
	if !IsSupported(currency) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, ErrInvalidRate
	}
	return roundTo(amount.Div(rate), n.reference), nil
}

// IsSupported reports whether code is a known ISO 4217 currency.
func IsSupported(code string) bool {
	return gomoney.GetCurrency(code) != nil
}

func roundTo(amount decimal.Decimal, cur *gomoney.Currency) decimal.Decimal {
	return amount.Round(int32(cur.Fraction))
}

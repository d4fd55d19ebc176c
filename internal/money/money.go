// Package money provides fixed-precision monetary arithmetic.
//
// Amounts are stored as an integer count of minor units (cents for USD)
// together with a currency code. All arithmetic stays in minor units, so
// no amount ever picks up binary floating-point drift. Decimal input and
// output go through shopspring/decimal and are quantized to the currency's
// minor unit on the way in.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch is returned when two operands carry different
	// currency codes. Amounts are never auto-converted.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrDivisionByZero is returned by DivideEvenly for n <= 0.
	ErrDivisionByZero = errors.New("division by zero shares")
)

// Money is an amount in a single currency, held as integer minor units.
// The zero value is an amount of zero with an empty currency code; an
// empty code is treated as compatible with any currency so that zero
// values can seed accumulations.
type Money struct {
	units    int64
	currency string
}

// exponent returns the number of decimal places in the currency's minor
// unit. Everything the wallet supports uses two except yen.
func exponent(currency string) int32 {
	switch currency {
	case "JPY":
		return 0
	default:
		return 2
	}
}

// FromMinorUnits builds a Money from a raw minor-unit count.
func FromMinorUnits(units int64, currency string) Money {
	return Money{units: units, currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{currency: currency}
}

// FromDecimal parses a decimal string such as "12.34" into a Money,
// rounding half away from zero to the currency's minor unit. Values finer
// than the minor unit (e.g. "100.005" in USD) are therefore quantized
// before they become observable.
func FromDecimal(value, currency string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", value, err)
	}
	units := d.Shift(exponent(currency)).Round(0)
	if !units.IsInteger() {
		return Money{}, fmt.Errorf("amount %q does not quantize to %s minor units", value, currency)
	}
	return Money{units: units.IntPart(), currency: currency}, nil
}

// Units returns the raw minor-unit count.
func (m Money) Units() int64 { return m.units }

// Currency returns the currency code.
func (m Money) Currency() string { return m.currency }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.units == 0 }

// Decimal returns the amount as a decimal in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.units, -exponent(m.currency))
}

// String formats the amount in major units without a symbol, e.g. "12.34".
func (m Money) String() string {
	return m.Decimal().StringFixed(exponent(m.currency))
}

// jsonMoney is the wire shape of a Money value.
type jsonMoney struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON encodes the amount as a decimal string plus currency,
// e.g. {"amount":"12.34","currency":"USD"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMoney{Amount: m.String(), Currency: m.currency})
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	var jm jsonMoney
	if err := json.Unmarshal(data, &jm); err != nil {
		return err
	}
	parsed, err := FromDecimal(jm.Amount, jm.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// sameCurrency resolves the common currency of two operands. An empty
// code on either side defers to the other.
func sameCurrency(a, b Money) (string, error) {
	switch {
	case a.currency == b.currency:
		return a.currency, nil
	case a.currency == "":
		return b.currency, nil
	case b.currency == "":
		return a.currency, nil
	default:
		return "", fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, a.currency, b.currency)
	}
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	cur, err := sameCurrency(m, o)
	if err != nil {
		return Money{}, err
	}
	return Money{units: m.units + o.units, currency: cur}, nil
}

// Sub returns m - o.
func (m Money) Sub(o Money) (Money, error) {
	cur, err := sameCurrency(m, o)
	if err != nil {
		return Money{}, err
	}
	return Money{units: m.units - o.units, currency: cur}, nil
}

// MulScalar returns m scaled by an integer factor.
func (m Money) MulScalar(n int64) Money {
	return Money{units: m.units * n, currency: m.currency}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{units: -m.units, currency: m.currency}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.units < 0 {
		return m.Neg()
	}
	return m
}

// Cmp compares two amounts: -1 if m < o, 0 if equal, +1 if m > o.
func (m Money) Cmp(o Money) (int, error) {
	if _, err := sameCurrency(m, o); err != nil {
		return 0, err
	}
	switch {
	case m.units < o.units:
		return -1, nil
	case m.units > o.units:
		return 1, nil
	default:
		return 0, nil
	}
}

// UnitScale returns the number of minor units in one whole unit of the
// currency: 100 for USD, 1 for JPY.
func UnitScale(currency string) int64 {
	scale := int64(1)
	for i := int32(0); i < exponent(currency); i++ {
		scale *= 10
	}
	return scale
}

// DivideEvenly splits the amount into n equal integer shares. It returns
// the per-share quotient and a remainder of 0..n-1 minor units. The
// remainder is never dropped; callers are expected to distribute it
// deterministically. Negative amounts divide toward zero with a matching
// non-positive remainder so that quotient*n + remainder == m always holds.
func (m Money) DivideEvenly(n int) (quotient, remainder Money, err error) {
	if n <= 0 {
		return Money{}, Money{}, ErrDivisionByZero
	}
	q := m.units / int64(n)
	r := m.units - q*int64(n)
	return Money{units: q, currency: m.currency}, Money{units: r, currency: m.currency}, nil
}

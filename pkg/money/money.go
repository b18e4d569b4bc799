// Package money provides currency-safe financial arithmetic using integer cents
// and the Fowler Money pattern. Statement amounts arrive as locale-formatted
// strings (comma decimals, currency symbols, thousands separators), so parsing
// is part of this package's contract.
package money

import (
	"errors"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// EUR is the only currency bank statement exports carry in practice.
const EUR = "EUR"

// ErrUnparseable is returned when a cell holds no recognizable numeric value.
var ErrUnparseable = errors.New("no parseable amount")

// Money represents a monetary value in integer minor units (cents).
// It wraps go-money for safe arithmetic and shopspring/decimal for precision.
type Money struct {
	m *money.Money
}

// New creates a Money value from cents.
func New(amountCents int64) *Money {
	return &Money{m: money.New(amountCents, EUR)}
}

// NewFromDecimal creates Money from a decimal value, rounding to cents.
func NewFromDecimal(amount decimal.Decimal) *Money {
	currency := money.GetCurrency(EUR)
	multiplier := decimal.New(1, int32(currency.Fraction))
	cents := amount.Mul(multiplier).Round(0).IntPart()
	return New(cents)
}

// Zero returns a zero Money value.
func Zero() *Money {
	return New(0)
}

// Parse coerces a locale-formatted cell value into Money.
//
// Everything except digits, '.', ',' and a leading sign is stripped (currency
// symbols, spaces, unit suffixes). A comma is treated as the decimal separator
// when no further ',' or '.' follows it; otherwise commas are thousands
// separators. Returns ErrUnparseable when nothing numeric remains.
func Parse(raw string) (*Money, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ErrUnparseable
	}

	negative := strings.HasPrefix(s, "-") || strings.HasPrefix(s, "(")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return nil, ErrUnparseable
	}

	if idx := strings.LastIndex(s, ","); idx >= 0 {
		if !strings.ContainsAny(s[idx+1:], ",.") {
			// Decimal comma: everything before it is integer digits.
			intPart := strings.Map(keepDigits, s[:idx])
			s = intPart + "." + s[idx+1:]
		} else {
			// Thousands commas only.
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	// Collapse residual thousands dots ("1.234.567" or "1.234,56" prefixes).
	if first, last := strings.Index(s, "."), strings.LastIndex(s, "."); first != last {
		intPart := strings.Map(keepDigits, s[:last])
		s = intPart + s[last:]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrUnparseable
	}
	if negative {
		d = d.Neg()
	}
	return NewFromDecimal(d), nil
}

func keepDigits(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

// Amount returns the value in cents.
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// IsZero returns true if the amount is zero.
func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

// IsPositive returns true if the amount is greater than zero.
func (m *Money) IsPositive() bool {
	return m != nil && m.m != nil && m.m.IsPositive()
}

// IsNegative returns true if the amount is less than zero.
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Abs returns the absolute value.
func (m *Money) Abs() *Money {
	if m == nil || m.m == nil {
		return Zero()
	}
	return &Money{m: m.m.Absolute()}
}

// Negate returns the negated value.
func (m *Money) Negate() *Money {
	if m == nil || m.m == nil {
		return Zero()
	}
	return &Money{m: m.m.Negative()}
}

// Add returns m + other. Single-currency, so this cannot fail.
func (m *Money) Add(other *Money) *Money {
	if m == nil || m.m == nil {
		return other
	}
	if other == nil || other.m == nil {
		return m
	}
	sum, err := m.m.Add(other.m)
	if err != nil {
		panic(err) // unreachable: both operands are EUR
	}
	return &Money{m: sum}
}

// Subtract returns m - other.
func (m *Money) Subtract(other *Money) *Money {
	if other == nil || other.m == nil {
		return m
	}
	return m.Add(other.Negate())
}

// Compare returns -1 if m < other, 0 if equal, 1 if m > other.
func (m *Money) Compare(other *Money) int {
	switch a, b := m.Amount(), other.Amount(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equals returns true if both values are equal.
func (m *Money) Equals(other *Money) bool {
	return m.Amount() == other.Amount()
}

// ToDecimal converts to decimal.Decimal for precise calculations.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(currency.Fraction))
	return d.Div(divisor)
}

// ToFloat64 converts to float64 for display and spreadsheet cells only.
func (m *Money) ToFloat64() float64 {
	return m.ToDecimal().InexactFloat64()
}

// Display returns a formatted string (e.g., "€1,234.56").
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return money.New(0, EUR).Display()
	}
	return m.m.Display()
}

// String returns the amount as a decimal string (e.g., "1234.56").
func (m *Money) String() string {
	return m.ToDecimal().StringFixed(2)
}

// SplitTaxInclusive decomposes a tax-inclusive amount into its base and tax
// parts for the given percentage rate.
//
// base = amount / (1 + rate/100), rounded to cents; tax = amount - base, so
// base + tax reconstructs the gross amount exactly in cents.
func (m *Money) SplitTaxInclusive(ratePercent float64) (base, tax *Money) {
	if m == nil || m.m == nil {
		return Zero(), Zero()
	}

	d := m.ToDecimal()
	rate := decimal.NewFromFloat(ratePercent).Div(decimal.NewFromInt(100))
	divisor := decimal.NewFromInt(1).Add(rate)
	b := NewFromDecimal(d.Div(divisor))
	return b, m.Subtract(b)
}

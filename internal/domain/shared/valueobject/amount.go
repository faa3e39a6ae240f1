package valueobject

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is an immutable monetary value held at two decimal places.
// It serializes as a fixed two-place decimal string ("1600.00") so persisted
// records keep the exact value the calculation produced.
type Amount struct {
	d decimal.Decimal
}

// ZeroAmount is 0.00
var ZeroAmount = Amount{d: decimal.Zero.Round(2)}

// Round2 rounds half away from zero to two decimal places
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NewAmount rounds d to two places
func NewAmount(d decimal.Decimal) Amount {
	return Amount{d: Round2(d)}
}

// NewAmountFromInt creates an Amount from a whole number
func NewAmountFromInt(v int64) Amount {
	return NewAmount(decimal.NewFromInt(v))
}

// NewAmountFromString parses a decimal string such as "120.00"
func NewAmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewAmount(d), nil
}

// MustAmount parses s and panics on failure. Intended for constants and tests.
func MustAmount(s string) Amount {
	a, err := NewAmountFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the underlying decimal value
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// String returns the value with exactly two decimal places
func (a Amount) String() string {
	return a.d.StringFixed(2)
}

// IsZero reports whether the amount is 0.00
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsNegative reports whether the amount is below zero
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// Equal compares two amounts by value
func (a Amount) Equal(other Amount) bool {
	return a.d.Equal(other.d)
}

// GreaterThan reports whether a > other
func (a Amount) GreaterThan(other Amount) bool {
	return a.d.GreaterThan(other.d)
}

// Add returns round2(a + other)
func (a Amount) Add(other Amount) Amount {
	return NewAmount(a.d.Add(other.d))
}

// Sub returns round2(a - other)
func (a Amount) Sub(other Amount) Amount {
	return NewAmount(a.d.Sub(other.d))
}

// MarshalJSON writes the amount as a quoted two-place string
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a quoted decimal string, a bare JSON number or null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ZeroAmount
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*a = ZeroAmount
			return nil
		}
	}
	parsed, err := NewAmountFromString(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner
func (a *Amount) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*a = NewAmount(d)
	return nil
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount stored in minor units (cents).  Clients only ever see
// the major-unit value with two decimals; conversion happens here and
// nowhere else.
type Money int64

var ErrInvalidMoney = errors.New("invalid money amount")

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ParseMoney converts a decimal major-unit string such as "146.59" into
// minor units.  Values with more than two decimals are rounded half away
// from zero.  Amounts whose minor-unit value does not fit in an int64 are
// rejected rather than wrapped.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	minor := d.Round(2).Shift(2)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidMoney, s)
	}
	return Money(minor.IntPart()), nil
}

// MoneyFromMinor wraps a stored minor-unit value.
func MoneyFromMinor(minor int64) Money { return Money(minor) }

// Minor returns the stored minor-unit value.
func (m Money) Minor() int64 { return int64(m) }

// Decimal returns the major-unit value.
func (m Money) Decimal() decimal.Decimal { return decimal.New(int64(m), -2) }

// String formats the major-unit value with exactly two decimals.
func (m Money) String() string { return m.Decimal().StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a JSON number or a numeric string in major
// units.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

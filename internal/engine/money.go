package engine

import (
	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places money is held at.
const MinorUnits = 2

var hundred = decimal.NewFromInt(100)

// Money is an amount in minor currency units. Every calculation inside the
// engine happens on Money; decimal.Decimal is used only at the edges.
type Money int64

// MoneyFromDecimal truncates d toward zero to whole minor units and returns
// the dropped fraction so callers can account for it.
func MoneyFromDecimal(d decimal.Decimal) (Money, decimal.Decimal) {
	whole := d.Shift(MinorUnits).Truncate(0)
	residue := d.Sub(whole.Shift(-MinorUnits))
	return Money(whole.IntPart()), residue
}

// RoundMoney rounds d half away from zero to whole minor units.
func RoundMoney(d decimal.Decimal) Money {
	return Money(d.Shift(MinorUnits).Round(0).IntPart())
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MinorUnits)
}

// Percent returns m * rate / 100, rounded to minor units.
func (m Money) Percent(rate decimal.Decimal) Money {
	return RoundMoney(m.Decimal().Mul(rate).Div(hundred))
}

func (m Money) String() string {
	return m.Decimal().StringFixed(MinorUnits)
}

func minMoney(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

func positive(m Money) Money {
	if m < 0 {
		return 0
	}
	return m
}

package decimal_math

import (
	"github.com/shopspring/decimal"
)

// Pow10 returns 10^n exactly, n may be negative.
func Pow10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}

// DecimalsShift is 10^(decimalsA - decimalsB), the factor between raw and UI prices.
func DecimalsShift(decimalsA, decimalsB uint8) decimal.Decimal {
	return Pow10(int32(decimalsA) - int32(decimalsB))
}

package decimal_math

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var q64 = decimal.NewFromBigInt(new(uint256.Int).Lsh(uint256.NewInt(1), 64).ToBig(), 0)

// FromX64 converts a Q64.64 value to a decimal. Negative places keep full precision.
func FromX64(x *uint256.Int, places int32) decimal.Decimal {
	if x == nil {
		return decimal.Zero
	}
	out := decimal.NewFromBigInt(x.ToBig(), 0).DivRound(q64, 40)
	if places >= 0 {
		return out.Round(places)
	}
	return out
}

// ToX64 converts a non-negative decimal to Q64.64, flooring the fractional remainder.
func ToX64(d decimal.Decimal) (*uint256.Int, error) {
	if d.Sign() < 0 {
		return nil, errors.New("negative value has no Q64.64 form")
	}
	v, overflow := uint256.FromBig(d.Mul(q64).Floor().BigInt())
	if overflow {
		return nil, errors.New("value overflows Q64.64")
	}
	return v, nil
}

package math

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/clmm-go/decimal_math"
	"github.com/krazyTry/clmm-go/quoter/shared"
)

const sqrtPrecision = 256

// SqrtPriceX64ToPrice returns the UI price of token A in token B.
func SqrtPriceX64ToPrice(sqrtPrice *uint256.Int, decimalsA, decimalsB uint8) decimal.Decimal {
	s := decimal_math.FromX64(sqrtPrice, -1)
	return s.Mul(s).Mul(decimal_math.DecimalsShift(decimalsA, decimalsB))
}

func PriceToSqrtPriceX64(price decimal.Decimal, decimalsA, decimalsB uint8) (*uint256.Int, error) {
	raw := price.DivRound(decimal_math.DecimalsShift(decimalsA, decimalsB), 40)
	s, err := decimal_math.Sqrt(raw, sqrtPrecision)
	if err != nil {
		return nil, err
	}
	return decimal_math.ToX64(s)
}

func TickIndexToPrice(tick int32, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	sqrtPrice, err := TickIndexToSqrtPrice(tick)
	if err != nil {
		return decimal.Zero, err
	}
	return SqrtPriceX64ToPrice(sqrtPrice, decimalsA, decimalsB), nil
}

func PriceToTickIndex(price decimal.Decimal, decimalsA, decimalsB uint8) (int32, error) {
	sqrtPrice, err := PriceToSqrtPriceX64(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	if !IsSqrtPriceInBounds(sqrtPrice) {
		return 0, shared.ErrSqrtPriceOutOfBounds
	}
	return SqrtPriceToTickIndex(sqrtPrice)
}

// PriceImpact is |end^2 - start^2| / start^2 in percent.
func PriceImpact(startSqrtPrice, endSqrtPrice *uint256.Int) decimal.Decimal {
	if startSqrtPrice == nil || startSqrtPrice.IsZero() || endSqrtPrice == nil {
		return decimal.Zero
	}
	start := decimal.NewFromBigInt(startSqrtPrice.ToBig(), 0)
	end := decimal.NewFromBigInt(endSqrtPrice.ToBig(), 0)
	den := start.Mul(start)
	return end.Mul(end).Sub(den).Abs().DivRound(den, 18).Mul(decimal.NewFromInt(100))
}

package math

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

func sortPrices(p0, p1 *uint256.Int) (lower, upper *uint256.Int) {
	if p0.Gt(p1) {
		return p1, p0
	}
	return p0, p1
}

// GetAmountDeltaA is liquidity * (upper - lower) << 64 / (upper * lower).
// The result is not downcast so callers can compare it against u64 amounts.
func GetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	lower, upper := sortPrices(sqrtPrice0, sqrtPrice1)
	diff := new(uint256.Int).Sub(upper, lower)

	product, err := CheckedMul(liquidity, diff)
	if err != nil {
		return nil, err
	}
	numerator, err := CheckedShl(product, shared.Resolution)
	if err != nil {
		return nil, err
	}
	denominator, err := CheckedMul(upper, lower)
	if err != nil {
		return nil, err
	}
	return Div(numerator, denominator, rounding(roundUp))
}

// GetAmountDeltaB is liquidity * (upper - lower) >> 64.
func GetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	lower, upper := sortPrices(sqrtPrice0, sqrtPrice1)
	diff := new(uint256.Int).Sub(upper, lower)

	product, err := CheckedMul(liquidity, diff)
	if err != nil {
		return nil, err
	}
	return ShrRoundUp(product, shared.Resolution, rounding(roundUp))
}

// GetNextSqrtPriceFromARoundUp moves the price by an amount of token A.
// Input pushes the price down, output pushes it up.
func GetNextSqrtPriceFromARoundUp(sqrtPrice, liquidity *uint256.Int, amount uint64, amountSpecifiedIsInput bool) (*uint256.Int, error) {
	if amount == 0 {
		return sqrtPrice.Clone(), nil
	}
	product, err := CheckedMul(sqrtPrice, uint256.NewInt(amount))
	if err != nil {
		return nil, err
	}
	numerator, err := CheckedShl(liquidity, shared.Resolution)
	if err != nil {
		return nil, err
	}

	var denominator *uint256.Int
	if amountSpecifiedIsInput {
		if denominator, err = CheckedAdd(numerator, product); err != nil {
			return nil, err
		}
	} else {
		if !numerator.Gt(product) {
			return nil, shared.ErrDivideByZero
		}
		denominator = new(uint256.Int).Sub(numerator, product)
	}

	price, err := MulDiv(numerator, sqrtPrice, denominator, shared.RoundingUp)
	if err != nil {
		return nil, err
	}
	if !IsSqrtPriceInBounds(price) {
		return nil, shared.ErrSqrtPriceOutOfBounds
	}
	return price, nil
}

// GetNextSqrtPriceFromBRoundDown moves the price by an amount of token B.
// Input pushes the price up, output pushes it down.
func GetNextSqrtPriceFromBRoundDown(sqrtPrice, liquidity *uint256.Int, amount uint64, amountSpecifiedIsInput bool) (*uint256.Int, error) {
	amountX64 := new(uint256.Int).Lsh(uint256.NewInt(amount), shared.Resolution)
	delta, err := Div(amountX64, liquidity, rounding(!amountSpecifiedIsInput))
	if err != nil {
		return nil, err
	}

	var price *uint256.Int
	if amountSpecifiedIsInput {
		price, err = CheckedAdd(sqrtPrice, delta)
	} else {
		price, err = CheckedSub(sqrtPrice, delta)
	}
	if err != nil {
		return nil, shared.ErrSqrtPriceOutOfBounds
	}
	if !IsSqrtPriceInBounds(price) {
		return nil, shared.ErrSqrtPriceOutOfBounds
	}
	return price, nil
}

func GetNextSqrtPrice(sqrtPrice, liquidity *uint256.Int, amount uint64, amountSpecifiedIsInput, aToB bool) (*uint256.Int, error) {
	if amountSpecifiedIsInput == aToB {
		return GetNextSqrtPriceFromARoundUp(sqrtPrice, liquidity, amount, amountSpecifiedIsInput)
	}
	return GetNextSqrtPriceFromBRoundDown(sqrtPrice, liquidity, amount, amountSpecifiedIsInput)
}

// GetNextSqrtPriceFromInput returns the price after adding amountIn of the input token.
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity *uint256.Int, amountIn uint64, aToB bool) (*uint256.Int, error) {
	return GetNextSqrtPrice(sqrtPrice, liquidity, amountIn, true, aToB)
}

// GetNextSqrtPriceFromOutput returns the price after removing amountOut of the output token.
func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity *uint256.Int, amountOut uint64, aToB bool) (*uint256.Int, error) {
	return GetNextSqrtPrice(sqrtPrice, liquidity, amountOut, false, aToB)
}

func rounding(up bool) shared.Rounding {
	if up {
		return shared.RoundingUp
	}
	return shared.RoundingDown
}

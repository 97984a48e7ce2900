package math

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// ComputeSwapStep swaps within one price segment [currSqrtPrice, targetSqrtPrice]
// at constant liquidity. The trade sells token A when currSqrtPrice >= targetSqrtPrice.
func ComputeSwapStep(
	amountRemaining uint64,
	feeRate uint32,
	liquidity *uint256.Int,
	currSqrtPrice *uint256.Int,
	targetSqrtPrice *uint256.Int,
	amountSpecifiedIsInput bool,
) (*shared.SwapStepResult, error) {
	if feeRate >= shared.FeeRateDenominator {
		return nil, shared.ErrInvalidFeeRate
	}
	if liquidity.IsZero() {
		return &shared.SwapStepResult{NextSqrtPrice: targetSqrtPrice.Clone()}, nil
	}
	aToB := !currSqrtPrice.Lt(targetSqrtPrice)

	amountCalc := amountRemaining
	if amountSpecifiedIsInput {
		net, err := MulDivU64(amountRemaining, shared.FeeRateDenominator-uint64(feeRate), shared.FeeRateDenominator, shared.RoundingDown)
		if err != nil {
			return nil, err
		}
		amountCalc = net
	}

	// The fixed side is the one the caller specified: input rounds up, output rounds down.
	fixedDelta, err := amountFixedDelta(currSqrtPrice, targetSqrtPrice, liquidity, amountSpecifiedIsInput, aToB)
	if err != nil {
		return nil, err
	}

	var nextSqrtPrice *uint256.Int
	if fixedDelta.Cmp(uint256.NewInt(amountCalc)) <= 0 {
		nextSqrtPrice = targetSqrtPrice.Clone()
	} else if nextSqrtPrice, err = GetNextSqrtPrice(currSqrtPrice, liquidity, amountCalc, amountSpecifiedIsInput, aToB); err != nil {
		return nil, err
	}
	isMaxSwap := nextSqrtPrice.Eq(targetSqrtPrice)

	if !isMaxSwap {
		if fixedDelta, err = amountFixedDelta(currSqrtPrice, nextSqrtPrice, liquidity, amountSpecifiedIsInput, aToB); err != nil {
			return nil, err
		}
	}
	unfixedDelta, err := amountUnfixedDelta(currSqrtPrice, nextSqrtPrice, liquidity, amountSpecifiedIsInput, aToB)
	if err != nil {
		return nil, err
	}

	fixed, err := ToU64(fixedDelta)
	if err != nil {
		return nil, err
	}
	unfixed, err := ToU64(unfixedDelta)
	if err != nil {
		return nil, err
	}

	amountIn, amountOut := fixed, unfixed
	if !amountSpecifiedIsInput {
		amountIn, amountOut = unfixed, fixed
		if amountOut > amountRemaining {
			amountOut = amountRemaining
		}
	}

	var feeAmount uint64
	if amountSpecifiedIsInput && !isMaxSwap {
		if feeAmount, err = SubU64(amountRemaining, amountIn); err != nil {
			return nil, err
		}
	} else {
		if feeAmount, err = MulDivU64(amountIn, uint64(feeRate), shared.FeeRateDenominator-uint64(feeRate), shared.RoundingUp); err != nil {
			return nil, err
		}
	}

	return &shared.SwapStepResult{
		AmountIn:      amountIn,
		AmountOut:     amountOut,
		FeeAmount:     feeAmount,
		NextSqrtPrice: nextSqrtPrice,
	}, nil
}

func amountFixedDelta(curr, target, liquidity *uint256.Int, amountSpecifiedIsInput, aToB bool) (*uint256.Int, error) {
	if aToB == amountSpecifiedIsInput {
		return GetAmountDeltaA(curr, target, liquidity, amountSpecifiedIsInput)
	}
	return GetAmountDeltaB(curr, target, liquidity, amountSpecifiedIsInput)
}

func amountUnfixedDelta(curr, target, liquidity *uint256.Int, amountSpecifiedIsInput, aToB bool) (*uint256.Int, error) {
	if aToB == amountSpecifiedIsInput {
		return GetAmountDeltaB(curr, target, liquidity, !amountSpecifiedIsInput)
	}
	return GetAmountDeltaA(curr, target, liquidity, !amountSpecifiedIsInput)
}

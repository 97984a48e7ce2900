package math

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// StepObserver is called after every completed swap step.
type StepObserver func(step int, tick *shared.NextTick, result *shared.SwapStepResult)

// ValidateSwapInput rejects requests that can never be simulated and resolves the
// effective sqrt price limit.
func ValidateSwapInput(pool *shared.PoolState, params shared.SwapParams) (*uint256.Int, error) {
	if pool == nil {
		return nil, shared.ErrNilPool
	}
	if params.Amount == 0 {
		return nil, shared.ErrZeroTradableAmount
	}
	if pool.TickSpacing == 0 {
		return nil, shared.ErrInvalidTickSpacing
	}
	if pool.FeeRate >= shared.FeeRateDenominator {
		return nil, fmt.Errorf("%w: fee rate %d", shared.ErrInvalidFeeRate, pool.FeeRate)
	}
	referralFeeRate := params.ReferralRate()
	if referralFeeRate > shared.MaxReferralFeeRate {
		return nil, fmt.Errorf("%w: referral %d", shared.ErrInvalidFeeRate, referralFeeRate)
	}
	if uint64(pool.ProtocolFeeRate)+uint64(referralFeeRate) > shared.FeeRateDenominator {
		return nil, fmt.Errorf("%w: protocol %d referral %d", shared.ErrInvalidFeeRate, pool.ProtocolFeeRate, referralFeeRate)
	}
	if pool.SqrtPrice == nil || !IsSqrtPriceInBounds(pool.SqrtPrice) {
		return nil, shared.ErrSqrtPriceOutOfBounds
	}
	if !IsTickInBounds(pool.TickCurrentIndex) {
		return nil, shared.ErrTickOutOfBounds
	}
	if pool.Liquidity != nil && pool.Liquidity.BitLen() > 128 {
		return nil, shared.ErrLiquidityOverflow
	}

	limit := params.SqrtPriceLimit
	if limit == nil {
		if params.AToB {
			limit = shared.MinSqrtPrice
		} else {
			limit = shared.MaxSqrtPrice
		}
	}
	if !IsSqrtPriceInBounds(limit) {
		return nil, fmt.Errorf("%w: limit %s", shared.ErrSqrtPriceOutOfBounds, limit.Dec())
	}
	if params.AToB && limit.Gt(pool.SqrtPrice) || !params.AToB && limit.Lt(pool.SqrtPrice) {
		return nil, fmt.Errorf("%w: limit %s, current %s", shared.ErrInvalidSqrtPriceLimit, limit.Dec(), pool.SqrtPrice.Dec())
	}
	return limit.Clone(), nil
}

// ComputeSwap simulates a swap on a copy of pool. The caller's snapshot is not modified.
func ComputeSwap(pool *shared.PoolState, tickArrays []*shared.TickArray, params shared.SwapParams) (*shared.SwapQuote, error) {
	return ComputeSwapObserved(pool, tickArrays, params, nil)
}

func ComputeSwapObserved(pool *shared.PoolState, tickArrays []*shared.TickArray, params shared.SwapParams, observer StepObserver) (*shared.SwapQuote, error) {
	limit, err := ValidateSwapInput(pool, params)
	if err != nil {
		return nil, err
	}
	state := pool.Clone()
	aToB := params.AToB
	isInput := params.AmountSpecifiedIsInput

	seq, err := NewSwapTickArraySequence(tickArrays, state, aToB)
	if err != nil {
		return nil, err
	}

	var (
		remaining   = params.Amount
		amountIn    uint64
		amountOut   uint64
		feeTotal    uint64
		protocolFee uint64
		referralFee uint64
		steps       int
		status      = shared.SwapStatusStepping
	)

	for remaining > 0 && !state.SqrtPrice.Eq(limit) {
		next, err := seq.NextTickForSwap()
		if err != nil {
			return nil, fmt.Errorf("swap step %d: %w", steps, err)
		}
		if next == nil {
			status = shared.SwapStatusDataExhausted
			break
		}

		tickSqrtPrice, err := TickIndexToSqrtPrice(next.Index)
		if err != nil {
			return nil, fmt.Errorf("swap step %d: %w", steps, err)
		}
		// The loaded data ends at the current price.
		if next.Synthetic && tickSqrtPrice.Eq(state.SqrtPrice) {
			status = shared.SwapStatusDataExhausted
			break
		}
		target := tickSqrtPrice
		if aToB && tickSqrtPrice.Lt(limit) || !aToB && tickSqrtPrice.Gt(limit) {
			target = limit
		}

		step, err := ComputeSwapStep(remaining, state.FeeRate, state.Liquidity, state.SqrtPrice, target, isInput)
		if err != nil {
			return nil, fmt.Errorf("swap step %d: %w", steps, err)
		}
		steps++

		if err := accumulate(&remaining, &amountIn, &amountOut, &feeTotal, step, isInput); err != nil {
			return nil, fmt.Errorf("swap step %d: %w", steps, err)
		}

		split, err := SplitFee(step.FeeAmount, state.ProtocolFeeRate, params.ReferralRate())
		if err != nil {
			return nil, fmt.Errorf("swap step %d: %w", steps, err)
		}
		if protocolFee, err = AddU64(protocolFee, split.ProtocolFee); err != nil {
			return nil, fmt.Errorf("swap step %d: %w", steps, err)
		}
		if referralFee, err = AddU64(referralFee, split.ReferralFee); err != nil {
			return nil, fmt.Errorf("swap step %d: %w", steps, err)
		}
		if aToB {
			state.FeeGrowthGlobalA = NextFeeGrowthGlobal(state.FeeGrowthGlobalA, split.PoolFee, state.Liquidity)
			state.ProtocolFeeOwedA, err = AddU64(state.ProtocolFeeOwedA, split.ProtocolFee)
		} else {
			state.FeeGrowthGlobalB = NextFeeGrowthGlobal(state.FeeGrowthGlobalB, split.PoolFee, state.Liquidity)
			state.ProtocolFeeOwedB, err = AddU64(state.ProtocolFeeOwedB, split.ProtocolFee)
		}
		if err != nil {
			return nil, fmt.Errorf("swap step %d: protocol fee owed: %w", steps, err)
		}

		if step.NextSqrtPrice.Eq(tickSqrtPrice) {
			if next.Initialized {
				if state.Liquidity, err = seq.CrossTick(state.Liquidity, next); err != nil {
					return nil, fmt.Errorf("swap step %d: cross tick %d: %w", steps, next.Index, err)
				}
			}
			// A crossed tick bounds the range below it when selling A.
			if aToB {
				state.TickCurrentIndex = next.Index - 1
			} else {
				state.TickCurrentIndex = next.Index
			}
		} else if !step.NextSqrtPrice.Eq(state.SqrtPrice) {
			if state.TickCurrentIndex, err = SqrtPriceToTickIndex(step.NextSqrtPrice); err != nil {
				return nil, fmt.Errorf("swap step %d: %w", steps, err)
			}
		}
		state.SqrtPrice = step.NextSqrtPrice

		if observer != nil {
			observer(steps, next, step)
		}
	}

	if status == shared.SwapStatusStepping {
		if remaining == 0 {
			status = shared.SwapStatusAmountExhausted
		} else {
			status = shared.SwapStatusLimitReached
		}
	}
	if seq.TouchedCount() > shared.MaxSwapTickArrays {
		return nil, fmt.Errorf("%w: touched %d, max %d", shared.ErrTooManyArraysCrossed, seq.TouchedCount(), shared.MaxSwapTickArrays)
	}

	estimatedIn, err := AddU64(amountIn, feeTotal)
	if err != nil {
		return nil, err
	}
	return &shared.SwapQuote{
		EstimatedAmountIn:      estimatedIn,
		EstimatedAmountOut:     amountOut,
		EstimatedFeeAmount:     feeTotal,
		ProtocolFee:            protocolFee,
		ReferralFee:            referralFee,
		EstimatedEndSqrtPrice:  state.SqrtPrice.Clone(),
		EstimatedEndTickIndex:  state.TickCurrentIndex,
		LiquidityExceeded:      remaining > 0,
		Status:                 status,
		AToB:                   aToB,
		AmountSpecifiedIsInput: isInput,
		StepCount:              steps,
		TouchedTickArrays:      seq.TouchedTickArrays(),
		TickArrayAddresses:     seq.TouchedTickArrayAddresses(),
		PoolAfter:              state,
	}, nil
}

func accumulate(remaining, amountIn, amountOut, feeTotal *uint64, step *shared.SwapStepResult, isInput bool) error {
	var err error
	consumed := step.AmountOut
	if isInput {
		if consumed, err = AddU64(step.AmountIn, step.FeeAmount); err != nil {
			return err
		}
	}
	if *remaining, err = SubU64(*remaining, consumed); err != nil {
		return err
	}
	if *amountIn, err = AddU64(*amountIn, step.AmountIn); err != nil {
		return err
	}
	if *amountOut, err = AddU64(*amountOut, step.AmountOut); err != nil {
		return err
	}
	*feeTotal, err = AddU64(*feeTotal, step.FeeAmount)
	return err
}

package math

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

func exampleArrays(t *testing.T) []*shared.TickArray {
	return []*shared.TickArray{
		newTickArray(t, 0, 128, nil),
		newTickArray(t, -8192, 128, map[int32]int64{-8192: 1_000_000}),
	}
}

func crossingArrays(t *testing.T) (a0, a1 *shared.TickArray) {
	a0 = newTickArray(t, 0, 128, map[int32]int64{4096: 500_000})
	a1 = newTickArray(t, 8192, 128, map[int32]int64{8192: -1_000_000, 12288: -500_000})
	return a0, a1
}

func TestComputeSwapExactIn(t *testing.T) {
	pool := newPool(0, 1_000_000, 2500, 0, 128)
	quote, err := ComputeSwap(pool, exampleArrays(t), shared.SwapParams{
		Amount:                 10_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(10_000), quote.EstimatedAmountIn)
	require.Equal(t, uint64(9_876), quote.EstimatedAmountOut)
	require.Equal(t, uint64(25), quote.EstimatedFeeAmount)
	require.Equal(t, "18264555136225700256", quote.EstimatedEndSqrtPrice.Dec())
	require.Equal(t, int32(-199), quote.EstimatedEndTickIndex)
	require.Equal(t, shared.SwapStatusAmountExhausted, quote.Status)
	require.False(t, quote.LiquidityExceeded)
	require.Equal(t, 1, quote.StepCount)
	require.Equal(t, []int{0, -1, -1}, quote.TouchedTickArrays)
	require.Len(t, quote.TickArrayAddresses, shared.MinTouchedTickArrays)

	after := quote.PoolAfter
	require.Equal(t, "461168601842738", after.FeeGrowthGlobalA.Dec())
	require.True(t, after.FeeGrowthGlobalB.IsZero())
	require.Equal(t, uint64(1_000_000), after.Liquidity.Uint64())
	require.Equal(t, quote.EstimatedEndSqrtPrice, after.SqrtPrice)
}

func TestComputeSwapExactOutAgreesWithExactIn(t *testing.T) {
	pool := newPool(0, 1_000_000, 2500, 0, 128)
	quote, err := ComputeSwap(pool, exampleArrays(t), shared.SwapParams{
		Amount: 9_876,
		AToB:   true,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(10_000), quote.EstimatedAmountIn)
	require.Equal(t, uint64(9_876), quote.EstimatedAmountOut)
	require.Equal(t, uint64(25), quote.EstimatedFeeAmount)
	require.Equal(t, "18264564029237596084", quote.EstimatedEndSqrtPrice.Dec())
	require.Equal(t, shared.SwapStatusAmountExhausted, quote.Status)
	require.False(t, quote.AmountSpecifiedIsInput)
}

func TestComputeSwapDataExhausted(t *testing.T) {
	pool := newPool(0, 1_000_000, 2500, 0, 128)
	quote, err := ComputeSwap(pool, []*shared.TickArray{newTickArray(t, 0, 128, nil)}, shared.SwapParams{
		Amount:                 1_000_000,
		AmountSpecifiedIsInput: true,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(507_454), quote.EstimatedAmountIn)
	require.Equal(t, uint64(336_070), quote.EstimatedAmountOut)
	require.Equal(t, uint64(1_269), quote.EstimatedFeeAmount)
	require.Equal(t, "27784196929994766438", quote.EstimatedEndSqrtPrice.Dec())
	require.Equal(t, int32(8192), quote.EstimatedEndTickIndex)
	require.Equal(t, shared.SwapStatusDataExhausted, quote.Status)
	require.True(t, quote.LiquidityExceeded)
	require.Equal(t, []int{0, 0, 0}, quote.TouchedTickArrays)
}

func TestComputeSwapCrossesTicks(t *testing.T) {
	a0, a1 := crossingArrays(t)
	pool := newPool(0, 1_000_000, 3000, 100_000, 128)

	referral := uint32(50_000)
	var observed []int32
	quote, err := ComputeSwapObserved(pool, []*shared.TickArray{a0, a1}, shared.SwapParams{
		Amount:                 5_000_000,
		AmountSpecifiedIsInput: true,
		ReferralFeeRate:        &referral,
	}, func(step int, tick *shared.NextTick, _ *shared.SwapStepResult) {
		require.Equal(t, len(observed)+1, step)
		observed = append(observed, tick.Index)
	})
	require.NoError(t, err)

	require.Equal(t, []int32{4096, 8192, 12288, 16384}, observed)
	require.Equal(t, uint64(819_257), quote.EstimatedAmountIn)
	require.Equal(t, uint64(472_987), quote.EstimatedAmountOut)
	require.Equal(t, uint64(2_459), quote.EstimatedFeeAmount)
	require.Equal(t, uint64(247), quote.ProtocolFee)
	require.Equal(t, uint64(121), quote.ReferralFee)
	require.Equal(t, "41848122137984032019", quote.EstimatedEndSqrtPrice.Dec())
	require.Equal(t, int32(16384), quote.EstimatedEndTickIndex)
	require.True(t, quote.PoolAfter.Liquidity.IsZero())
	require.Equal(t, uint64(247), quote.PoolAfter.ProtocolFeeOwedB)
	require.Equal(t, shared.SwapStatusDataExhausted, quote.Status)
	require.Equal(t, 4, quote.StepCount)
	require.Equal(t, []int{0, 1, 1}, quote.TouchedTickArrays)
}

func TestComputeSwapPriceLimitRoundTrip(t *testing.T) {
	a0, a1 := crossingArrays(t)
	pool := newPool(0, 1_000_000, 3000, 100_000, 128)
	limit, err := TickIndexToSqrtPrice(4096)
	require.NoError(t, err)

	up, err := ComputeSwap(pool, []*shared.TickArray{a0, a1}, shared.SwapParams{
		Amount:                 5_000_000,
		AmountSpecifiedIsInput: true,
		SqrtPriceLimit:         limit,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(227_952), up.EstimatedAmountIn)
	require.Equal(t, uint64(185_181), up.EstimatedAmountOut)
	require.Equal(t, uint64(684), up.EstimatedFeeAmount)
	require.Equal(t, uint64(69), up.ProtocolFee)
	require.True(t, up.EstimatedEndSqrtPrice.Eq(limit))
	require.Equal(t, int32(4096), up.EstimatedEndTickIndex)
	require.Equal(t, uint64(1_500_000), up.PoolAfter.Liquidity.Uint64())
	require.Equal(t, shared.SwapStatusLimitReached, up.Status)
	require.True(t, up.LiquidityExceeded)

	// Selling back from exactly the crossed tick uncrosses it first.
	down, err := ComputeSwap(up.PoolAfter, []*shared.TickArray{a0, newTickArray(t, -8192, 128, nil)}, shared.SwapParams{
		Amount:                 5_000_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		SqrtPriceLimit:         shared.Q64,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(185_740), down.EstimatedAmountIn)
	require.Equal(t, uint64(227_267), down.EstimatedAmountOut)
	require.Equal(t, uint64(558), down.EstimatedFeeAmount)
	require.Equal(t, uint64(56), down.ProtocolFee)
	require.True(t, down.EstimatedEndSqrtPrice.Eq(shared.Q64))
	require.Equal(t, int32(0), down.EstimatedEndTickIndex)
	require.Equal(t, uint64(1_000_000), down.PoolAfter.Liquidity.Uint64())
	require.Equal(t, shared.SwapStatusLimitReached, down.Status)
	require.Equal(t, 2, down.StepCount)
	require.Equal(t, []int{0, -1, -1}, down.TouchedTickArrays)
}

func TestComputeSwapCrossingAToBLeavesTickBelow(t *testing.T) {
	a0, _ := crossingArrays(t)
	pool := newPool(4100, 1_500_000, 3000, 0, 128)
	limit, err := TickIndexToSqrtPrice(4096)
	require.NoError(t, err)

	quote, err := ComputeSwap(pool, []*shared.TickArray{a0}, shared.SwapParams{
		Amount:                 1_000_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		SqrtPriceLimit:         limit,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(246), quote.EstimatedAmountIn)
	require.Equal(t, uint64(368), quote.EstimatedAmountOut)
	require.Equal(t, uint64(1), quote.EstimatedFeeAmount)
	require.Equal(t, int32(4095), quote.EstimatedEndTickIndex)
	require.Equal(t, uint64(1_000_000), quote.PoolAfter.Liquidity.Uint64())
	require.Equal(t, shared.SwapStatusLimitReached, quote.Status)
	require.Equal(t, 1, quote.StepCount)
}

func TestComputeSwapTooManyArrays(t *testing.T) {
	pool := newPool(0, 1_000_000_000_000, 3000, 0, 1)
	params := shared.SwapParams{Amount: 1_000_000_000_000, AmountSpecifiedIsInput: true}

	arrays := []*shared.TickArray{
		newTickArray(t, 0, 1, nil),
		newTickArray(t, 64, 1, nil),
		newTickArray(t, 128, 1, nil),
	}
	quote, err := ComputeSwap(pool, arrays, params)
	require.NoError(t, err)
	require.Equal(t, uint64(9_674_767_516), quote.EstimatedAmountIn)
	require.Equal(t, uint64(9_553_591_720), quote.EstimatedAmountOut)
	require.Equal(t, uint64(29_024_303), quote.EstimatedFeeAmount)
	require.Equal(t, int32(192), quote.EstimatedEndTickIndex)
	require.Equal(t, shared.SwapStatusDataExhausted, quote.Status)
	require.Equal(t, []int{0, 1, 2}, quote.TouchedTickArrays)

	arrays = append(arrays, newTickArray(t, 192, 1, nil))
	_, err = ComputeSwap(pool, arrays, params)
	require.ErrorIs(t, err, shared.ErrTooManyArraysCrossed)
}

func TestComputeSwapLeavesSnapshotUntouched(t *testing.T) {
	a0, a1 := crossingArrays(t)
	pool := newPool(0, 1_000_000, 3000, 100_000, 128)
	before := pool.Clone()
	params := shared.SwapParams{Amount: 5_000_000, AmountSpecifiedIsInput: true}

	first, err := ComputeSwap(pool, []*shared.TickArray{a0, a1}, params)
	require.NoError(t, err)
	second, err := ComputeSwap(pool, []*shared.TickArray{a0, a1}, params)
	require.NoError(t, err)

	require.Equal(t, before, pool)
	require.Equal(t, first, second)
	require.Equal(t, "500000", a0.Ticks[32].LiquidityNet.String())
}

func TestComputeSwapAmountBounds(t *testing.T) {
	a0, a1 := crossingArrays(t)
	pool := newPool(0, 1_000_000, 3000, 100_000, 128)

	for _, amount := range []uint64{1, 10, 999, 50_000, 300_000, 2_000_000} {
		in, err := ComputeSwap(pool, []*shared.TickArray{a0, a1}, shared.SwapParams{Amount: amount, AmountSpecifiedIsInput: true})
		require.NoError(t, err)
		require.LessOrEqual(t, in.EstimatedAmountIn, amount)
		require.LessOrEqual(t, in.ProtocolFee+in.ReferralFee, in.EstimatedFeeAmount)
		require.True(t, in.EstimatedEndSqrtPrice.Cmp(pool.SqrtPrice) >= 0)
		if !in.LiquidityExceeded {
			require.Equal(t, amount, in.EstimatedAmountIn)
		}

		out, err := ComputeSwap(pool, []*shared.TickArray{a0, a1}, shared.SwapParams{Amount: amount})
		require.NoError(t, err)
		require.LessOrEqual(t, out.EstimatedAmountOut, amount)
		if !out.LiquidityExceeded {
			require.Equal(t, amount, out.EstimatedAmountOut)
		}
	}
}

func TestValidateSwapInput(t *testing.T) {
	pool := newPool(0, 1_000_000, 3000, 0, 128)
	above, err := TickIndexToSqrtPrice(128)
	require.NoError(t, err)

	limit, err := ValidateSwapInput(pool, shared.SwapParams{Amount: 1, AToB: true})
	require.NoError(t, err)
	require.True(t, limit.Eq(shared.MinSqrtPrice))
	limit, err = ValidateSwapInput(pool, shared.SwapParams{Amount: 1})
	require.NoError(t, err)
	require.True(t, limit.Eq(shared.MaxSqrtPrice))

	cases := []struct {
		name   string
		mutate func(p *shared.PoolState, params *shared.SwapParams)
		want   error
	}{
		{"zero amount", func(_ *shared.PoolState, params *shared.SwapParams) { params.Amount = 0 }, shared.ErrZeroTradableAmount},
		{"zero spacing", func(p *shared.PoolState, _ *shared.SwapParams) { p.TickSpacing = 0 }, shared.ErrInvalidTickSpacing},
		{"fee rate", func(p *shared.PoolState, _ *shared.SwapParams) { p.FeeRate = shared.FeeRateDenominator }, shared.ErrInvalidFeeRate},
		{"fee split", func(p *shared.PoolState, params *shared.SwapParams) {
			rate := uint32(200_000)
			p.ProtocolFeeRate = 900_000
			params.ReferralFeeRate = &rate
		}, shared.ErrInvalidFeeRate},
		{"referral above max", func(_ *shared.PoolState, params *shared.SwapParams) {
			rate := uint32(shared.MaxReferralFeeRate + 1)
			params.ReferralFeeRate = &rate
		}, shared.ErrInvalidFeeRate},
		{"price below min", func(p *shared.PoolState, _ *shared.SwapParams) { p.SqrtPrice = uint256.NewInt(1) }, shared.ErrSqrtPriceOutOfBounds},
		{"tick out of bounds", func(p *shared.PoolState, _ *shared.SwapParams) { p.TickCurrentIndex = shared.MaxTick + 1 }, shared.ErrTickOutOfBounds},
		{"limit wrong side", func(_ *shared.PoolState, params *shared.SwapParams) { params.SqrtPriceLimit = above }, shared.ErrInvalidSqrtPriceLimit},
		{"limit out of bounds", func(_ *shared.PoolState, params *shared.SwapParams) { params.SqrtPriceLimit = uint256.NewInt(1) }, shared.ErrSqrtPriceOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := pool.Clone()
			params := shared.SwapParams{Amount: 1_000, AmountSpecifiedIsInput: true, AToB: true}
			tc.mutate(p, &params)
			_, err := ValidateSwapInput(p, params)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err = ValidateSwapInput(nil, shared.SwapParams{Amount: 1})
	require.ErrorIs(t, err, shared.ErrNilPool)
}

func TestComputeSwapLimitAtCurrentPrice(t *testing.T) {
	pool := newPool(0, 1_000_000, 3000, 0, 128)
	quote, err := ComputeSwap(pool, exampleArrays(t), shared.SwapParams{
		Amount:                 1_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		SqrtPriceLimit:         pool.SqrtPrice,
	})
	require.NoError(t, err)
	require.Zero(t, quote.StepCount)
	require.Zero(t, quote.EstimatedAmountIn)
	require.Equal(t, shared.SwapStatusLimitReached, quote.Status)
	require.Equal(t, []int{0, 0, 0}, quote.TouchedTickArrays)
}

func TestComputeSwapSingleArrayBelowPrice(t *testing.T) {
	pool := newPool(0, 1_000_000, 2500, 0, 128)
	params := shared.SwapParams{Amount: 10_000, AmountSpecifiedIsInput: true, AToB: true}

	for _, nets := range []map[int32]int64{nil, {-8192: 1_000_000}} {
		quote, err := ComputeSwap(pool, []*shared.TickArray{newTickArray(t, -8192, 128, nets)}, params)
		require.NoError(t, err)
		require.Equal(t, uint64(10_000), quote.EstimatedAmountIn)
		require.Equal(t, uint64(9_876), quote.EstimatedAmountOut)
		require.Equal(t, uint64(25), quote.EstimatedFeeAmount)
		require.Equal(t, "18264555136225700256", quote.EstimatedEndSqrtPrice.Dec())
		require.True(t, quote.EstimatedEndSqrtPrice.Lt(shared.Q64))
		require.Equal(t, int32(-199), quote.EstimatedEndTickIndex)
		require.Equal(t, shared.SwapStatusAmountExhausted, quote.Status)
		require.Equal(t, 1, quote.StepCount)
		require.Equal(t, []int{-1, -1, -1}, quote.TouchedTickArrays)
	}

	// Off the edge the current array must still hold the current tick.
	off := newPool(1, 1_000_000, 2500, 0, 128)
	_, err := ComputeSwap(off, []*shared.TickArray{newTickArray(t, -8192, 128, nil)}, params)
	require.ErrorIs(t, err, shared.ErrTickArrayMismatch)
}

func TestComputeSwapNoDataBelowPrice(t *testing.T) {
	pool := newPool(0, 1_000_000, 2500, 0, 128)
	quote, err := ComputeSwap(pool, []*shared.TickArray{newTickArray(t, 0, 128, nil)}, shared.SwapParams{
		Amount:                 10_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
	})
	require.NoError(t, err)
	require.Equal(t, shared.SwapStatusDataExhausted, quote.Status)
	require.Zero(t, quote.StepCount)
	require.Zero(t, quote.EstimatedAmountIn)
	require.True(t, quote.LiquidityExceeded)
	require.Zero(t, quote.EstimatedEndTickIndex)
	require.True(t, quote.EstimatedEndSqrtPrice.Eq(shared.Q64))
}

// closedPool holds two positions, [-4096, 4096) with 1e6 and [-2048, 12288) with 5e5,
// both active at tick 0.
func closedPool(t *testing.T) (*shared.PoolState, map[int32]*shared.TickArray) {
	nets := map[int32]int64{-4096: 1_000_000, 4096: -1_000_000, -2048: 500_000, 12288: -500_000}
	var sum int64
	for _, net := range nets {
		sum += net
	}
	require.Zero(t, sum)

	arrays := map[int32]*shared.TickArray{}
	for _, start := range []int32{-16384, -8192, 0, 8192} {
		inArray := map[int32]int64{}
		for index, net := range nets {
			if index >= start && index < start+8192 {
				inArray[index] = net
			}
		}
		arrays[start] = newTickArray(t, start, 128, inArray)
	}
	return newPool(0, 1_500_000, 3000, 0, 128), arrays
}

func TestComputeSwapLiquidityConservation(t *testing.T) {
	pool, arrays := closedPool(t)

	var total int64
	for _, arr := range arrays {
		for _, tick := range arr.Ticks {
			if tick.Initialized {
				total += tick.LiquidityNet.Int64()
			}
		}
	}
	require.Zero(t, total)

	// Buying A past every tick leaves no liquidity above the top position.
	top, err := ComputeSwap(pool, []*shared.TickArray{arrays[0], arrays[8192]}, shared.SwapParams{
		Amount:                 1_000_000_000_000,
		AmountSpecifiedIsInput: true,
	})
	require.NoError(t, err)
	require.Equal(t, shared.SwapStatusDataExhausted, top.Status)
	require.True(t, top.PoolAfter.Liquidity.IsZero())
	require.Equal(t, int32(16384), top.EstimatedEndTickIndex)

	// Selling A from the top back to the start price restores the starting liquidity.
	back, err := ComputeSwap(top.PoolAfter, []*shared.TickArray{arrays[8192], arrays[0], arrays[-8192]}, shared.SwapParams{
		Amount:                 1_000_000_000_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		SqrtPriceLimit:         pool.SqrtPrice,
	})
	require.NoError(t, err)
	require.Equal(t, shared.SwapStatusLimitReached, back.Status)
	require.True(t, back.PoolAfter.Liquidity.Eq(pool.Liquidity))
	require.Zero(t, back.EstimatedEndTickIndex)

	// Selling A past every tick leaves no liquidity below the bottom position.
	bottom, err := ComputeSwap(top.PoolAfter, []*shared.TickArray{arrays[8192], arrays[0], arrays[-8192]}, shared.SwapParams{
		Amount:                 1_000_000_000_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
	})
	require.NoError(t, err)
	require.Equal(t, shared.SwapStatusDataExhausted, bottom.Status)
	require.True(t, bottom.PoolAfter.Liquidity.IsZero())
	require.Equal(t, int32(-8193), bottom.EstimatedEndTickIndex)
	require.Equal(t, []int{1, 0, -1}, bottom.TouchedTickArrays)

	// And buying A back up to the start price restores it again.
	up, err := ComputeSwap(bottom.PoolAfter, []*shared.TickArray{arrays[-16384], arrays[-8192], arrays[0]}, shared.SwapParams{
		Amount:                 1_000_000_000_000,
		AmountSpecifiedIsInput: true,
		SqrtPriceLimit:         pool.SqrtPrice,
	})
	require.NoError(t, err)
	require.Equal(t, shared.SwapStatusLimitReached, up.Status)
	require.True(t, up.PoolAfter.Liquidity.Eq(pool.Liquidity))
	require.Zero(t, up.EstimatedEndTickIndex)
}

func TestComputeSwapProtocolFeeOwedOverflow(t *testing.T) {
	a0, a1 := crossingArrays(t)
	pool := newPool(0, 1_000_000, 3000, 100_000, 128)
	pool.ProtocolFeeOwedB = ^uint64(0)

	_, err := ComputeSwap(pool, []*shared.TickArray{a0, a1}, shared.SwapParams{Amount: 100_000, AmountSpecifiedIsInput: true})
	require.ErrorIs(t, err, shared.ErrAdditionOverflow)
}

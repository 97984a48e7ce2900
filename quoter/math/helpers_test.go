package math

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// newTickArray builds an array whose initialized ticks carry the given liquidity net.
func newTickArray(t *testing.T, start int32, spacing uint16, nets map[int32]int64) *shared.TickArray {
	t.Helper()
	arr := &shared.TickArray{StartTickIndex: start}
	for index, net := range nets {
		require.True(t, IsInitializable(index, spacing))
		slot := (index - start) / int32(spacing)
		require.True(t, slot >= 0 && slot < shared.TickArraySize, "tick %d outside array %d", index, start)
		gross, _ := uint256.FromBig(new(big.Int).Abs(big.NewInt(net)))
		arr.Ticks[slot] = shared.Tick{
			Initialized:    true,
			LiquidityNet:   big.NewInt(net),
			LiquidityGross: gross,
		}
	}
	return arr
}

func newPool(tick int32, liquidity uint64, feeRate, protocolFeeRate uint32, spacing uint16) *shared.PoolState {
	sqrtPrice, err := TickIndexToSqrtPrice(tick)
	if err != nil {
		panic(err)
	}
	return &shared.PoolState{
		TickSpacing:      spacing,
		FeeRate:          feeRate,
		ProtocolFeeRate:  protocolFeeRate,
		Liquidity:        uint256.NewInt(liquidity),
		SqrtPrice:        sqrtPrice,
		TickCurrentIndex: tick,
		FeeGrowthGlobalA: new(uint256.Int),
		FeeGrowthGlobalB: new(uint256.Int),
	}
}

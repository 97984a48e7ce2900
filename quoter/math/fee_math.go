package math

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// SplitFee takes the protocol share (rounded up) and the referral share (rounded down)
// out of a step fee. The remainder accrues to liquidity providers.
func SplitFee(feeAmount uint64, protocolFeeRate, referralFeeRate uint32) (shared.FeeSplit, error) {
	if uint64(protocolFeeRate)+uint64(referralFeeRate) > shared.FeeRateDenominator {
		return shared.FeeSplit{}, shared.ErrInvalidFeeRate
	}
	protocolFee, err := MulDivU64(feeAmount, uint64(protocolFeeRate), shared.FeeRateDenominator, shared.RoundingUp)
	if err != nil {
		return shared.FeeSplit{}, err
	}
	referralFee, err := MulDivU64(feeAmount, uint64(referralFeeRate), shared.FeeRateDenominator, shared.RoundingDown)
	if err != nil {
		return shared.FeeSplit{}, err
	}
	poolFee, err := SubU64(feeAmount, protocolFee)
	if err != nil {
		return shared.FeeSplit{}, err
	}
	if poolFee, err = SubU64(poolFee, referralFee); err != nil {
		return shared.FeeSplit{}, err
	}
	return shared.FeeSplit{ProtocolFee: protocolFee, ReferralFee: referralFee, PoolFee: poolFee}, nil
}

// NextFeeGrowthGlobal adds poolFee << 64 / liquidity to the accumulator, wrapping at 2^128
// like the on-chain counter. Zero liquidity leaves the accumulator unchanged.
func NextFeeGrowthGlobal(feeGrowthGlobal *uint256.Int, poolFee uint64, liquidity *uint256.Int) *uint256.Int {
	if liquidity.IsZero() || poolFee == 0 {
		return feeGrowthGlobal.Clone()
	}
	delta := new(uint256.Int).Lsh(uint256.NewInt(poolFee), shared.Resolution)
	delta.Div(delta, liquidity)
	next := new(uint256.Int).Add(feeGrowthGlobal, delta)
	return next.And(next, shared.MaxU128)
}

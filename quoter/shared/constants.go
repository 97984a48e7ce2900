package shared

import "github.com/holiman/uint256"

const (
	Resolution = 64

	MinTick = -443636
	MaxTick = 443636

	TickArraySize = 64

	// FeeRateDenominator is shared by the trade fee, protocol fee and referral fee rates.
	FeeRateDenominator = 1_000_000
	MaxReferralFeeRate = 250_000

	BasisPointMax = 10_000

	MaxSwapTickArrays    = 3
	MinTouchedTickArrays = 3

	DiscriminatorLength = 8
)

var (
	MinSqrtPrice = uint256.NewInt(4295048016)
	MaxSqrtPrice = uint256.MustFromDecimal("79226673521066979257578248091")

	Q64     = new(uint256.Int).Lsh(uint256.NewInt(1), Resolution)
	MaxU64  = new(uint256.Int).SetUint64(^uint64(0))
	MaxU128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
)

var (
	PoolDiscriminator      = [DiscriminatorLength]byte{63, 149, 209, 12, 225, 128, 99, 9}
	TickArrayDiscriminator = [DiscriminatorLength]byte{69, 97, 189, 190, 110, 7, 66, 187}
)

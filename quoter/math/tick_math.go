package math

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

const bitPrecision = 14

var (
	logB2X32               = big.NewInt(59543866431248)
	logBPErrMarginLowerX64 = big.NewInt(184467440737095516)
	logBPErrMarginUpperX64 = new(big.Int).SetUint64(15793534762490258745)
)

// tickRatios[i] is the Q64 multiplier applied when bit i+1 of |tick| is set.
var tickRatios = [...]uint64{
	18444899583751176192,
	18443055278223355904,
	18439367220385607680,
	18431993317065453568,
	18417254355718170624,
	18387811781193609216,
	18329067761203558400,
	18212142134806163456,
	17980523815641700352,
	17526086738831433728,
	16651378430235570176,
	15030750278694412288,
	12247334978884435968,
	8131365268886854656,
	3584323654725218816,
	696457651848324352,
	26294789957507116,
	37481735321082,
}

const oddTickRatio uint64 = 18445821805675395072

func IsTickInBounds(tick int32) bool {
	return tick >= shared.MinTick && tick <= shared.MaxTick
}

func IsSqrtPriceInBounds(sqrtPrice *uint256.Int) bool {
	return !sqrtPrice.Lt(shared.MinSqrtPrice) && !sqrtPrice.Gt(shared.MaxSqrtPrice)
}

// TickIndexToSqrtPrice returns sqrt(1.0001^tick) as Q64.64.
func TickIndexToSqrtPrice(tick int32) (*uint256.Int, error) {
	if !IsTickInBounds(tick) {
		return nil, shared.ErrTickOutOfBounds
	}
	abs := tick
	if abs < 0 {
		abs = -abs
	}

	ratio := new(uint256.Int)
	if abs&1 != 0 {
		ratio.SetUint64(oddTickRatio)
	} else {
		ratio.Set(shared.Q64)
	}
	mul := new(uint256.Int)
	for i, r := range tickRatios {
		if abs&(1<<(i+1)) != 0 {
			ratio.Mul(ratio, mul.SetUint64(r))
			ratio.Rsh(ratio, shared.Resolution)
		}
	}
	if tick > 0 {
		ratio.Div(shared.MaxU128, ratio)
	}
	return ratio, nil
}

// SqrtPriceToTickIndex returns the greatest tick whose sqrt price is <= sqrtPrice.
func SqrtPriceToTickIndex(sqrtPrice *uint256.Int) (int32, error) {
	if !IsSqrtPriceInBounds(sqrtPrice) {
		return 0, shared.ErrSqrtPriceOutOfBounds
	}
	msb := sqrtPrice.BitLen() - 1
	log2pIntegerX32 := new(big.Int).Lsh(big.NewInt(int64(msb-shared.Resolution)), 32)

	r := sqrtPrice.ToBig()
	if msb >= 64 {
		r.Rsh(r, uint(msb-63))
	} else {
		r.Lsh(r, uint(63-msb))
	}

	log2pFractionX64 := new(big.Int)
	bit := new(big.Int).SetUint64(0x8000000000000000)
	for precision := 0; bit.Sign() > 0 && precision < bitPrecision; precision++ {
		r.Mul(r, r)
		isRMoreThanTwo := uint(r.Bit(127))
		r.Rsh(r, 63+isRMoreThanTwo)
		if isRMoreThanTwo == 1 {
			log2pFractionX64.Add(log2pFractionX64, bit)
		}
		bit.Rsh(bit, 1)
	}

	log2pX32 := log2pIntegerX32.Add(log2pIntegerX32, log2pFractionX64.Rsh(log2pFractionX64, 32))
	logbpX64 := new(big.Int).Mul(log2pX32, logB2X32)

	// big.Int Rsh is an arithmetic shift, so negative values floor.
	tickLow := new(big.Int).Sub(logbpX64, logBPErrMarginLowerX64)
	tickLow.Rsh(tickLow, shared.Resolution)
	tickHigh := new(big.Int).Add(logbpX64, logBPErrMarginUpperX64)
	tickHigh.Rsh(tickHigh, shared.Resolution)

	low, high := int32(tickLow.Int64()), int32(tickHigh.Int64())
	if low == high {
		return low, nil
	}
	highSqrtPrice, err := TickIndexToSqrtPrice(high)
	if err != nil {
		return low, nil
	}
	if !highSqrtPrice.Gt(sqrtPrice) {
		return high, nil
	}
	return low, nil
}

func IsInitializable(tick int32, tickSpacing uint16) bool {
	return tickSpacing > 0 && tick%int32(tickSpacing) == 0
}

// GetInitializableTickIndex aligns tick to the spacing, flooring unless roundUp.
func GetInitializableTickIndex(tick int32, tickSpacing uint16, roundUp bool) int32 {
	s := int32(tickSpacing)
	aligned := floorDiv(tick, s) * s
	if roundUp && aligned != tick {
		aligned += s
	}
	return aligned
}

func MinInitializableTick(tickSpacing uint16) int32 {
	return GetInitializableTickIndex(shared.MinTick, tickSpacing, true)
}

func MaxInitializableTick(tickSpacing uint16) int32 {
	return GetInitializableTickIndex(shared.MaxTick, tickSpacing, false)
}

func TicksInArray(tickSpacing uint16) int32 {
	return shared.TickArraySize * int32(tickSpacing)
}

// TickArrayStartIndex returns the start tick of the array covering tick.
func TickArrayStartIndex(tick int32, tickSpacing uint16) int32 {
	width := TicksInArray(tickSpacing)
	return floorDiv(tick, width) * width
}

func TickArrayIndex(startTickIndex int32, tickSpacing uint16) int32 {
	return floorDiv(startTickIndex, TicksInArray(tickSpacing))
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

package shared

import "errors"

var ErrNilPool = errors.New("pool state is nil")

// arithmetic
var (
	ErrMultiplicationOverflow = errors.New("multiplication overflow")
	ErrAdditionOverflow       = errors.New("addition overflow")
	ErrSubtractionUnderflow   = errors.New("subtraction underflow")
	ErrDivideByZero           = errors.New("divide by zero")
	ErrShiftOverflow          = errors.New("left shift overflow")
	ErrAmountExceedsU64       = errors.New("amount exceeds u64")
	ErrLiquidityOverflow      = errors.New("liquidity overflow")
	ErrLiquidityUnderflow     = errors.New("liquidity underflow")
)

// domain validity
var (
	ErrTickOutOfBounds       = errors.New("tick index out of bounds")
	ErrSqrtPriceOutOfBounds  = errors.New("sqrt price out of bounds")
	ErrInvalidSqrtPriceLimit = errors.New("sqrt price limit on wrong side of current price")
	ErrZeroTradableAmount    = errors.New("zero tradable amount")
	ErrInvalidTickSpacing    = errors.New("invalid tick spacing")
	ErrInvalidFeeRate        = errors.New("invalid fee rate")
	ErrTickNotAligned        = errors.New("tick index not aligned to tick spacing")
	ErrTickNotInArray        = errors.New("tick index not covered by tick array")
	ErrInvalidTickArray      = errors.New("invalid tick array sequence")
	ErrTickArrayMismatch     = errors.New("first tick array does not contain current tick")
	ErrInvalidSlippage       = errors.New("invalid slippage bps")
	ErrUnknownMint           = errors.New("mint is not part of the pool")
	ErrInvalidDiscriminator  = errors.New("invalid account discriminator")
)

// data sufficiency
var (
	ErrTooManyArraysCrossed = errors.New("too many tick arrays crossed")
)

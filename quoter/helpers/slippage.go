package helpers

import (
	"github.com/krazyTry/clmm-go/quoter/math"
	"github.com/krazyTry/clmm-go/quoter/shared"
)

// GetMinAmountWithSlippage is amount * (10000 - bps) / 10000, rounded down.
func GetMinAmountWithSlippage(amount uint64, slippageBps uint16) (uint64, error) {
	if slippageBps > shared.BasisPointMax {
		return 0, shared.ErrInvalidSlippage
	}
	return math.MulDivU64(amount, shared.BasisPointMax-uint64(slippageBps), shared.BasisPointMax, shared.RoundingDown)
}

// GetMaxAmountWithSlippage is amount * (10000 + bps) / 10000, rounded up.
func GetMaxAmountWithSlippage(amount uint64, slippageBps uint16) (uint64, error) {
	if slippageBps > shared.BasisPointMax {
		return 0, shared.ErrInvalidSlippage
	}
	return math.MulDivU64(amount, shared.BasisPointMax+uint64(slippageBps), shared.BasisPointMax, shared.RoundingUp)
}

// OtherAmountThreshold is the bound submitted with the trade: the minimum output for
// exact input trades and the maximum input for exact output trades.
func OtherAmountThreshold(quote *shared.SwapQuote, slippageBps uint16) (uint64, error) {
	if quote.AmountSpecifiedIsInput {
		return GetMinAmountWithSlippage(quote.EstimatedAmountOut, slippageBps)
	}
	return GetMaxAmountWithSlippage(quote.EstimatedAmountIn, slippageBps)
}

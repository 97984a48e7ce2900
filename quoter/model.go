package quoter

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// QuoteResult is a simulated swap plus the limits to submit with the real trade.
type QuoteResult struct {
	*shared.SwapQuote
	// OtherAmountThreshold is the minimum output for exact input quotes and
	// the maximum input for exact output quotes.
	OtherAmountThreshold uint64
	SqrtPriceLimit       *uint256.Int
	SlippageBps          uint16
	PriceImpact          decimal.Decimal
}

// Pool bundles a pool snapshot with the tick arrays loaded for one trade direction.
type Pool struct {
	State      *shared.PoolState
	TickArrays []*shared.TickArray
}

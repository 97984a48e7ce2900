package clmm

import (
	"github.com/krazyTry/clmm-go/quoter"
	"github.com/krazyTry/clmm-go/quoter/helpers"
)

// NewQuoter creates a new swap quoter.
//
// Example:
//
// q, _ := NewQuoter(WithLogger(log.Logger), WithMetrics(NewMetrics(prometheus.DefaultRegisterer)))
//
// result, _ := q.SwapQuoteByInputToken(quoter.Pool{State: pool, TickArrays: tickArrays}, inputMint, amountIn, 50)
var NewQuoter = quoter.NewQuoter

var (
	WithLogger             = quoter.WithLogger
	WithMetrics            = quoter.WithMetrics
	WithReferralFeeRate    = quoter.WithReferralFeeRate
	WithDefaultSlippageBps = quoter.WithDefaultSlippageBps
	NewMetrics             = quoter.NewMetrics
)

// ParseQuoteSnapshot loads a pool and its tick arrays from JSON.
//
// Example:
//
// pool, tickArrays, _ := ParseQuoteSnapshot(raw)
var ParseQuoteSnapshot = helpers.ParseQuoteSnapshot

// DecodePoolState and DecodeTickArray read raw account data.
var (
	DecodePoolState = helpers.DecodePoolState
	DecodeTickArray = helpers.DecodeTickArray
)

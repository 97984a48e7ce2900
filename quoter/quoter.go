package quoter

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// Quoter simulates swaps against pool snapshots. It holds no pool state and is safe
// for concurrent use.
type Quoter struct {
	logger          zerolog.Logger
	metrics         *Metrics
	referralFeeRate uint32
	slippageBps     uint16
}

type Option func(*Quoter)

func WithLogger(logger zerolog.Logger) Option {
	return func(q *Quoter) {
		q.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(q *Quoter) {
		q.metrics = metrics
	}
}

// WithReferralFeeRate sets the share of every fee paid to the referrer, per FeeRateDenominator.
func WithReferralFeeRate(rate uint32) Option {
	return func(q *Quoter) {
		q.referralFeeRate = rate
	}
}

// WithDefaultSlippageBps sets the slippage used by Quote.
func WithDefaultSlippageBps(bps uint16) Option {
	return func(q *Quoter) {
		q.slippageBps = bps
	}
}

// NewQuoter creates a new Quoter.
//
// Example:
//
// q, _ := NewQuoter(WithLogger(log.Logger), WithDefaultSlippageBps(50))
//
// result, _ := q.SwapQuoteByInputToken(Pool{State: state, TickArrays: arrays}, inputMint, 1_000_000, 100)
func NewQuoter(opts ...Option) (*Quoter, error) {
	q := &Quoter{
		logger:      zerolog.Nop(),
		slippageBps: 100,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.referralFeeRate > shared.MaxReferralFeeRate {
		return nil, fmt.Errorf("%w: referral fee rate %d", shared.ErrInvalidFeeRate, q.referralFeeRate)
	}
	if q.slippageBps > shared.BasisPointMax {
		return nil, fmt.Errorf("%w: %d", shared.ErrInvalidSlippage, q.slippageBps)
	}
	return q, nil
}

package quoter

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/krazyTry/clmm-go/quoter/helpers"
	"github.com/krazyTry/clmm-go/quoter/math"
	"github.com/krazyTry/clmm-go/quoter/shared"
)

// SwapQuoteByInputToken quotes selling amountIn of inputMint into the pool's other token.
func (q *Quoter) SwapQuoteByInputToken(
	pool Pool,
	inputMint solana.PublicKey,
	amountIn uint64,
	slippageBps uint16,
) (*QuoteResult, error) {
	return q.swapQuoteByToken(pool, inputMint, amountIn, true, slippageBps)
}

// SwapQuoteByOutputToken quotes buying amountOut of outputMint with the pool's other token.
func (q *Quoter) SwapQuoteByOutputToken(
	pool Pool,
	outputMint solana.PublicKey,
	amountOut uint64,
	slippageBps uint16,
) (*QuoteResult, error) {
	return q.swapQuoteByToken(pool, outputMint, amountOut, false, slippageBps)
}

func (q *Quoter) swapQuoteByToken(pool Pool, mint solana.PublicKey, amount uint64, isInput bool, slippageBps uint16) (*QuoteResult, error) {
	if pool.State == nil {
		return nil, shared.ErrNilPool
	}
	other, err := helpers.OtherMint(pool.State, mint)
	if err != nil {
		return nil, err
	}
	inputMint, outputMint := mint, other
	if !isInput {
		inputMint, outputMint = other, mint
	}
	direction, err := helpers.ResolveTradeDirection(pool.State, inputMint, outputMint)
	if err != nil {
		return nil, err
	}
	return q.SwapQuoteWithSlippage(pool, shared.SwapParams{
		Amount:                 amount,
		AmountSpecifiedIsInput: isInput,
		AToB:                   direction.AToB(),
	}, slippageBps)
}

// Quote simulates params with the quoter's default slippage.
func (q *Quoter) Quote(pool Pool, params shared.SwapParams) (*QuoteResult, error) {
	return q.SwapQuoteWithSlippage(pool, params, q.slippageBps)
}

// SwapQuoteWithSlippage simulates params and derives the slippage bounded amount threshold.
// A nil params.ReferralFeeRate takes the quoter's referral rate. Pass a pointer to zero to quote
// without a referral.
func (q *Quoter) SwapQuoteWithSlippage(pool Pool, params shared.SwapParams, slippageBps uint16) (*QuoteResult, error) {
	if pool.State == nil {
		return nil, shared.ErrNilPool
	}
	if slippageBps > shared.BasisPointMax {
		return nil, shared.ErrInvalidSlippage
	}
	if params.ReferralFeeRate == nil {
		rate := q.referralFeeRate
		params.ReferralFeeRate = &rate
	}

	log := q.logger.With().
		Str("pool", pool.State.Address.String()).
		Bool("a_to_b", params.AToB).
		Str("swap_mode", swapMode(params.AmountSpecifiedIsInput)).
		Uint64("amount", params.Amount).
		Logger()

	start := time.Now()
	quote, err := math.ComputeSwapObserved(pool.State, pool.TickArrays, params, stepLogger(log))
	q.metrics.observe(params, quote, time.Since(start), err)
	if err != nil {
		log.Warn().Err(err).Msg("swap quote failed")
		return nil, err
	}

	threshold, err := helpers.OtherAmountThreshold(quote, slippageBps)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("status", quote.Status.String()).
		Int("steps", quote.StepCount).
		Uint64("amount_in", quote.EstimatedAmountIn).
		Uint64("amount_out", quote.EstimatedAmountOut).
		Uint64("fee", quote.EstimatedFeeAmount).
		Bool("liquidity_exceeded", quote.LiquidityExceeded).
		Msg("swap quote")

	return &QuoteResult{
		SwapQuote:            quote,
		OtherAmountThreshold: threshold,
		SqrtPriceLimit:       effectiveSqrtPriceLimit(params),
		SlippageBps:          slippageBps,
		PriceImpact:          math.PriceImpact(pool.State.SqrtPrice, quote.EstimatedEndSqrtPrice),
	}, nil
}

func stepLogger(log zerolog.Logger) math.StepObserver {
	if log.GetLevel() > zerolog.TraceLevel || zerolog.GlobalLevel() > zerolog.TraceLevel {
		return nil
	}
	return func(step int, tick *shared.NextTick, result *shared.SwapStepResult) {
		log.Trace().
			Int("step", step).
			Int32("tick", tick.Index).
			Bool("initialized", tick.Initialized).
			Bool("synthetic", tick.Synthetic).
			Uint64("amount_in", result.AmountIn).
			Uint64("amount_out", result.AmountOut).
			Uint64("fee", result.FeeAmount).
			Str("sqrt_price", result.NextSqrtPrice.Dec()).
			Msg("swap step")
	}
}

func effectiveSqrtPriceLimit(params shared.SwapParams) *uint256.Int {
	if params.SqrtPriceLimit != nil {
		return params.SqrtPriceLimit.Clone()
	}
	if params.AToB {
		return shared.MinSqrtPrice.Clone()
	}
	return shared.MaxSqrtPrice.Clone()
}

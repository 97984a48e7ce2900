package shared

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type TradeDirection uint8

const (
	TradeDirectionAtoB TradeDirection = 0
	TradeDirectionBtoA TradeDirection = 1
)

// AToB reports whether the trade sells token A.
func (d TradeDirection) AToB() bool {
	return d == TradeDirectionAtoB
}

func (d TradeDirection) String() string {
	if d == TradeDirectionAtoB {
		return "a_to_b"
	}
	return "b_to_a"
}

// SwapStatus is the terminal state of a simulated swap.
type SwapStatus uint8

const (
	SwapStatusStepping SwapStatus = iota
	SwapStatusAmountExhausted
	SwapStatusLimitReached
	SwapStatusDataExhausted
)

func (s SwapStatus) String() string {
	switch s {
	case SwapStatusStepping:
		return "stepping"
	case SwapStatusAmountExhausted:
		return "amount_exhausted"
	case SwapStatusLimitReached:
		return "limit_reached"
	case SwapStatusDataExhausted:
		return "data_exhausted"
	default:
		return "unknown"
	}
}

// PoolState is a snapshot of the pool fields the swap simulation reads and updates.
// Liquidity, SqrtPrice and the fee growth accumulators are u128 values.
type PoolState struct {
	Address          solana.PublicKey
	TokenMintA       solana.PublicKey
	TokenMintB       solana.PublicKey
	TickSpacing      uint16
	FeeRate          uint32
	ProtocolFeeRate  uint32
	Liquidity        *uint256.Int
	SqrtPrice        *uint256.Int
	TickCurrentIndex int32
	FeeGrowthGlobalA *uint256.Int
	FeeGrowthGlobalB *uint256.Int
	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64
}

// Clone returns a deep copy, nil wide fields become zero.
func (p *PoolState) Clone() *PoolState {
	out := *p
	out.Liquidity = cloneOrZero(p.Liquidity)
	out.SqrtPrice = cloneOrZero(p.SqrtPrice)
	out.FeeGrowthGlobalA = cloneOrZero(p.FeeGrowthGlobalA)
	out.FeeGrowthGlobalB = cloneOrZero(p.FeeGrowthGlobalB)
	return &out
}

func cloneOrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}

type Tick struct {
	Initialized       bool
	LiquidityNet      *big.Int
	LiquidityGross    *uint256.Int
	FeeGrowthOutsideA *uint256.Int
	FeeGrowthOutsideB *uint256.Int
}

// TickArray covers [StartTickIndex, StartTickIndex + TickArraySize*tickSpacing).
type TickArray struct {
	Address        solana.PublicKey
	Pool           solana.PublicKey
	StartTickIndex int32
	Ticks          [TickArraySize]Tick
}

// NextTick is a tick returned by the tick array cursor.
// Synthetic ticks mark the edge of the loaded data and are never initialized.
type NextTick struct {
	Index        int32
	ArrayIndex   int
	Initialized  bool
	Synthetic    bool
	LiquidityNet *big.Int
}

type SwapParams struct {
	Amount                 uint64
	AmountSpecifiedIsInput bool
	AToB                   bool
	// SqrtPriceLimit nil means the global bound in the trade direction.
	SqrtPriceLimit *uint256.Int
	// ReferralFeeRate nil means no referral. The Quoter fills nil with its configured rate.
	ReferralFeeRate *uint32
}

// ReferralRate is the referral fee rate, zero when none is set.
func (p SwapParams) ReferralRate() uint32 {
	if p.ReferralFeeRate == nil {
		return 0
	}
	return *p.ReferralFeeRate
}

type SwapStepResult struct {
	AmountIn      uint64
	AmountOut     uint64
	FeeAmount     uint64
	NextSqrtPrice *uint256.Int
}

type FeeSplit struct {
	ProtocolFee uint64
	ReferralFee uint64
	PoolFee     uint64
}

type SwapQuote struct {
	EstimatedAmountIn      uint64
	EstimatedAmountOut     uint64
	EstimatedFeeAmount     uint64
	ProtocolFee            uint64
	ReferralFee            uint64
	EstimatedEndSqrtPrice  *uint256.Int
	EstimatedEndTickIndex  int32
	LiquidityExceeded      bool
	Status                 SwapStatus
	AToB                   bool
	AmountSpecifiedIsInput bool
	StepCount              int
	TouchedTickArrays      []int
	TickArrayAddresses     []solana.PublicKey
	PoolAfter              *PoolState
}

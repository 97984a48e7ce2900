package math

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// TickArraySequence is a read-only cursor over caller supplied tick arrays,
// ordered in the trade direction.
type TickArraySequence struct {
	arrays      []*shared.TickArray
	tickSpacing uint16
	aToB        bool

	arrayIdx int
	offset   int
	touched  []int
	done     bool
}

func NewTickArraySequence(arrays []*shared.TickArray, tickCurrentIndex int32, tickSpacing uint16, aToB bool) (*TickArraySequence, error) {
	if tickSpacing == 0 {
		return nil, shared.ErrInvalidTickSpacing
	}
	if len(arrays) == 0 {
		return nil, fmt.Errorf("%w: no tick arrays", shared.ErrInvalidTickArray)
	}
	width := TicksInArray(tickSpacing)
	step := width
	if aToB {
		step = -width
	}
	for i, arr := range arrays {
		if arr == nil {
			return nil, fmt.Errorf("%w: tick array %d is nil", shared.ErrInvalidTickArray, i)
		}
		if arr.StartTickIndex%width != 0 {
			return nil, fmt.Errorf("%w: start %d not aligned to %d", shared.ErrInvalidTickArray, arr.StartTickIndex, width)
		}
		if i > 0 && arr.StartTickIndex != arrays[i-1].StartTickIndex+step {
			return nil, fmt.Errorf("%w: start %d does not follow %d", shared.ErrInvalidTickArray, arr.StartTickIndex, arrays[i-1].StartTickIndex)
		}
	}

	first := arrays[0]
	if tickCurrentIndex < first.StartTickIndex || tickCurrentIndex >= first.StartTickIndex+width {
		return nil, fmt.Errorf("%w: tick %d, array start %d", shared.ErrTickArrayMismatch, tickCurrentIndex, first.StartTickIndex)
	}

	offset := int((tickCurrentIndex - first.StartTickIndex) / int32(tickSpacing))
	if !aToB {
		offset++
	}
	return &TickArraySequence{
		arrays:      arrays,
		tickSpacing: tickSpacing,
		aToB:        aToB,
		offset:      offset,
	}, nil
}

// NewSwapTickArraySequence starts the cursor at the pool's current tick. When selling token A
// from a price sitting exactly on the first array's upper edge, the array below that edge is
// accepted as the first array and the search starts just under the current tick.
func NewSwapTickArraySequence(arrays []*shared.TickArray, pool *shared.PoolState, aToB bool) (*TickArraySequence, error) {
	tick := pool.TickCurrentIndex
	if aToB && len(arrays) > 0 && arrays[0] != nil && pool.TickSpacing > 0 &&
		arrays[0].StartTickIndex+TicksInArray(pool.TickSpacing) == tick {
		edge, err := TickIndexToSqrtPrice(tick)
		if err != nil {
			return nil, err
		}
		if edge.Eq(pool.SqrtPrice) {
			tick--
		}
	}
	return NewTickArraySequence(arrays, tick, pool.TickSpacing, aToB)
}

// NextTickForSwap returns the next initialized tick in the trade direction and moves past it.
// When the loaded arrays run out it returns one synthetic tick at the edge of the last array,
// or nil when that array already holds the global bound.
func (s *TickArraySequence) NextTickForSwap() (*shared.NextTick, error) {
	for !s.done {
		arr := s.arrays[s.arrayIdx]
		s.touch(s.arrayIdx)

		for s.offset >= 0 && s.offset < shared.TickArraySize {
			slot := s.offset
			if s.aToB {
				s.offset--
			} else {
				s.offset++
			}
			index := arr.StartTickIndex + int32(slot)*int32(s.tickSpacing)
			if !IsTickInBounds(index) {
				continue
			}
			if tick := &arr.Ticks[slot]; tick.Initialized {
				return &shared.NextTick{
					Index:        index,
					ArrayIndex:   s.arrayIdx,
					Initialized:  true,
					LiquidityNet: liquidityNetOrZero(tick.LiquidityNet),
				}, nil
			}
		}

		if s.arrayIdx+1 < len(s.arrays) {
			s.arrayIdx++
			if s.aToB {
				s.offset = shared.TickArraySize - 1
			} else {
				s.offset = 0
			}
			continue
		}

		s.done = true
		if s.isBoundaryArray(arr) {
			return nil, nil
		}
		edge := arr.StartTickIndex
		if !s.aToB {
			edge += TicksInArray(s.tickSpacing)
		}
		return &shared.NextTick{
			Index:        edge,
			ArrayIndex:   s.arrayIdx,
			Synthetic:    true,
			LiquidityNet: new(big.Int),
		}, nil
	}
	return nil, nil
}

func (s *TickArraySequence) isBoundaryArray(arr *shared.TickArray) bool {
	if s.aToB {
		return arr.StartTickIndex <= shared.MinTick
	}
	return arr.StartTickIndex+TicksInArray(s.tickSpacing) > shared.MaxTick
}

// CrossTick applies the tick's liquidity net to liquidity, negated when selling token A.
func (s *TickArraySequence) CrossTick(liquidity *uint256.Int, tick *shared.NextTick) (*uint256.Int, error) {
	if tick.ArrayIndex < 0 || tick.ArrayIndex >= len(s.arrays) {
		return nil, fmt.Errorf("%w: array position %d", shared.ErrTickNotInArray, tick.ArrayIndex)
	}
	arr := s.arrays[tick.ArrayIndex]
	if tick.Index < arr.StartTickIndex || tick.Index >= arr.StartTickIndex+TicksInArray(s.tickSpacing) {
		return nil, fmt.Errorf("%w: tick %d, array start %d", shared.ErrTickNotInArray, tick.Index, arr.StartTickIndex)
	}
	if !IsInitializable(tick.Index, s.tickSpacing) {
		return nil, fmt.Errorf("%w: tick %d, spacing %d", shared.ErrTickNotAligned, tick.Index, s.tickSpacing)
	}
	return ApplyLiquidityNet(liquidity, tick.LiquidityNet, s.aToB)
}

// ApplyLiquidityNet returns liquidity +/- net, checking the u128 range.
func ApplyLiquidityNet(liquidity *uint256.Int, liquidityNet *big.Int, aToB bool) (*uint256.Int, error) {
	net := liquidityNetOrZero(liquidityNet)
	if aToB {
		net = new(big.Int).Neg(net)
	}
	delta, overflow := uint256.FromBig(new(big.Int).Abs(net))
	if overflow {
		return nil, shared.ErrLiquidityOverflow
	}
	if net.Sign() >= 0 {
		next, err := CheckedAdd(liquidity, delta)
		if err != nil {
			return nil, shared.ErrLiquidityOverflow
		}
		return CheckU128(next, shared.ErrLiquidityOverflow)
	}
	next, err := CheckedSub(liquidity, delta)
	if err != nil {
		return nil, shared.ErrLiquidityUnderflow
	}
	return next, nil
}

func (s *TickArraySequence) touch(arrayIdx int) {
	if n := len(s.touched); n > 0 && s.touched[n-1] == arrayIdx {
		return
	}
	s.touched = append(s.touched, arrayIdx)
}

// TouchedCount is the number of distinct arrays consulted so far.
func (s *TickArraySequence) TouchedCount() int {
	return len(s.touched)
}

// TouchedTickArrays returns the array index of every consulted array,
// padded to MinTouchedTickArrays by repeating the last one.
func (s *TickArraySequence) TouchedTickArrays() []int {
	out := make([]int, 0, shared.MinTouchedTickArrays)
	for _, pos := range s.positions() {
		out = append(out, int(TickArrayIndex(s.arrays[pos].StartTickIndex, s.tickSpacing)))
	}
	return padRepeatLast(out)
}

func (s *TickArraySequence) TouchedTickArrayAddresses() []solana.PublicKey {
	out := make([]solana.PublicKey, 0, shared.MinTouchedTickArrays)
	for _, pos := range s.positions() {
		out = append(out, s.arrays[pos].Address)
	}
	return padRepeatLast(out)
}

// positions falls back to the first array when no tick was searched.
func (s *TickArraySequence) positions() []int {
	if len(s.touched) == 0 {
		return []int{0}
	}
	return s.touched
}

func padRepeatLast[T any](items []T) []T {
	if len(items) == 0 {
		return items
	}
	for len(items) < shared.MinTouchedTickArrays {
		items = append(items, items[len(items)-1])
	}
	return items
}

func liquidityNetOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

package helpers

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/clmm-go/quoter/math"
	"github.com/krazyTry/clmm-go/quoter/shared"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot json")

// ParsePoolSnapshot reads a pool snapshot. u128 fields are decimal strings.
//
//	{"address": "...", "tokenMintA": "...", "tokenMintB": "...", "tickSpacing": 64,
//	 "feeRate": 3000, "protocolFeeRate": 30000, "liquidity": "1000000",
//	 "sqrtPrice": "18446744073709551616", "tickCurrentIndex": 0}
func ParsePoolSnapshot(raw []byte) (*shared.PoolState, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidSnapshot
	}
	return poolFromResult(gjson.ParseBytes(raw))
}

const (
	maxUint16 = 1<<16 - 1
	maxUint32 = 1<<32 - 1
	minInt32  = -1 << 31
	maxInt32  = 1<<31 - 1
)

func poolFromResult(r gjson.Result) (*shared.PoolState, error) {
	tickSpacing, err := uintField(r, "tickSpacing", maxUint16)
	if err != nil {
		return nil, err
	}
	feeRate, err := uintField(r, "feeRate", maxUint32)
	if err != nil {
		return nil, err
	}
	protocolFeeRate, err := uintField(r, "protocolFeeRate", maxUint32)
	if err != nil {
		return nil, err
	}
	tickCurrentIndex, err := int32Field(r, "tickCurrentIndex")
	if err != nil {
		return nil, err
	}
	protocolFeeOwedA, err := uintField(r, "protocolFeeOwedA", ^uint64(0))
	if err != nil {
		return nil, err
	}
	protocolFeeOwedB, err := uintField(r, "protocolFeeOwedB", ^uint64(0))
	if err != nil {
		return nil, err
	}
	pool := &shared.PoolState{
		TickSpacing:      uint16(tickSpacing),
		FeeRate:          uint32(feeRate),
		ProtocolFeeRate:  uint32(protocolFeeRate),
		TickCurrentIndex: tickCurrentIndex,
		ProtocolFeeOwedA: protocolFeeOwedA,
		ProtocolFeeOwedB: protocolFeeOwedB,
	}
	if pool.Address, err = optionalPublicKey(r, "address"); err != nil {
		return nil, err
	}
	if pool.TokenMintA, err = optionalPublicKey(r, "tokenMintA"); err != nil {
		return nil, err
	}
	if pool.TokenMintB, err = optionalPublicKey(r, "tokenMintB"); err != nil {
		return nil, err
	}
	if pool.Liquidity, err = requiredU128(r, "liquidity"); err != nil {
		return nil, err
	}
	if pool.SqrtPrice, err = requiredU128(r, "sqrtPrice"); err != nil {
		return nil, err
	}
	if pool.FeeGrowthGlobalA, err = optionalU128(r, "feeGrowthGlobalA"); err != nil {
		return nil, err
	}
	if pool.FeeGrowthGlobalB, err = optionalU128(r, "feeGrowthGlobalB"); err != nil {
		return nil, err
	}
	if !r.Get("tickCurrentIndex").Exists() {
		if pool.TickCurrentIndex, err = math.SqrtPriceToTickIndex(pool.SqrtPrice); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

// ParseTickArraySnapshot reads a sparse tick array snapshot. Only initialized ticks are listed.
//
//	{"address": "...", "startTickIndex": -8192,
//	 "ticks": [{"tickIndex": -128, "liquidityNet": "-1000", "liquidityGross": "1000"}]}
func ParseTickArraySnapshot(raw []byte, tickSpacing uint16) (*shared.TickArray, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidSnapshot
	}
	return tickArrayFromResult(gjson.ParseBytes(raw), tickSpacing)
}

func tickArrayFromResult(r gjson.Result, tickSpacing uint16) (*shared.TickArray, error) {
	if tickSpacing == 0 {
		return nil, shared.ErrInvalidTickSpacing
	}
	if !r.Get("startTickIndex").Exists() {
		return nil, fmt.Errorf("%w: missing startTickIndex", ErrInvalidSnapshot)
	}
	start, err := int32Field(r, "startTickIndex")
	if err != nil {
		return nil, err
	}
	out := &shared.TickArray{StartTickIndex: start}
	if out.Address, err = optionalPublicKey(r, "address"); err != nil {
		return nil, err
	}
	if out.Pool, err = optionalPublicKey(r, "pool"); err != nil {
		return nil, err
	}
	for i := range out.Ticks {
		out.Ticks[i] = shared.Tick{
			LiquidityNet:      new(big.Int),
			LiquidityGross:    new(uint256.Int),
			FeeGrowthOutsideA: new(uint256.Int),
			FeeGrowthOutsideB: new(uint256.Int),
		}
	}

	width := math.TicksInArray(tickSpacing)
	for _, t := range r.Get("ticks").Array() {
		index, err := int32Field(t, "tickIndex")
		if err != nil {
			return nil, err
		}
		if index < out.StartTickIndex || index >= out.StartTickIndex+width {
			return nil, fmt.Errorf("%w: tick %d, array start %d", shared.ErrTickNotInArray, index, out.StartTickIndex)
		}
		if !math.IsInitializable(index, tickSpacing) {
			return nil, fmt.Errorf("%w: tick %d, spacing %d", shared.ErrTickNotAligned, index, tickSpacing)
		}
		net, ok := new(big.Int).SetString(t.Get("liquidityNet").String(), 10)
		if !ok {
			return nil, fmt.Errorf("%w: tick %d liquidityNet", ErrInvalidSnapshot, index)
		}
		gross, err := optionalU128(t, "liquidityGross")
		if err != nil {
			return nil, err
		}
		if gross.IsZero() {
			gross, _ = uint256.FromBig(new(big.Int).Abs(net))
		}
		slot := (index - out.StartTickIndex) / int32(tickSpacing)
		out.Ticks[slot].Initialized = true
		out.Ticks[slot].LiquidityNet = net
		out.Ticks[slot].LiquidityGross = gross
	}
	return out, nil
}

// ParseQuoteSnapshot reads {"pool": {...}, "tickArrays": [{...}, ...]}.
func ParseQuoteSnapshot(raw []byte) (*shared.PoolState, []*shared.TickArray, error) {
	if !gjson.ValidBytes(raw) {
		return nil, nil, ErrInvalidSnapshot
	}
	pool, err := poolFromResult(gjson.GetBytes(raw, "pool"))
	if err != nil {
		return nil, nil, fmt.Errorf("pool: %w", err)
	}
	var arrays []*shared.TickArray
	for i, r := range gjson.GetBytes(raw, "tickArrays").Array() {
		arr, err := tickArrayFromResult(r, pool.TickSpacing)
		if err != nil {
			return nil, nil, fmt.Errorf("tick array %d: %w", i, err)
		}
		arrays = append(arrays, arr)
	}
	return pool, arrays, nil
}

// uintField reads an optional whole number in [0, limit].
func uintField(r gjson.Result, path string, limit uint64) (uint64, error) {
	v := r.Get(path)
	if !v.Exists() {
		return 0, nil
	}
	n, ok := integer(v)
	if !ok || n.Sign() < 0 || !n.IsUint64() || n.Uint64() > limit {
		return 0, fmt.Errorf("%w: %s %s out of range", ErrInvalidSnapshot, path, v.Raw)
	}
	return n.Uint64(), nil
}

func int32Field(r gjson.Result, path string) (int32, error) {
	v := r.Get(path)
	if !v.Exists() {
		return 0, nil
	}
	n, ok := integer(v)
	if !ok || !n.IsInt64() || n.Int64() < minInt32 || n.Int64() > maxInt32 {
		return 0, fmt.Errorf("%w: %s %s out of range", ErrInvalidSnapshot, path, v.Raw)
	}
	return int32(n.Int64()), nil
}

// integer accepts a JSON number or a decimal string.
func integer(v gjson.Result) (*big.Int, bool) {
	text := v.Raw
	if v.Type == gjson.String {
		text = v.Str
	}
	return new(big.Int).SetString(text, 10)
}

func optionalPublicKey(r gjson.Result, path string) (solana.PublicKey, error) {
	v := r.Get(path)
	if !v.Exists() || v.String() == "" {
		return solana.PublicKey{}, nil
	}
	key, err := solana.PublicKeyFromBase58(v.String())
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, path, err)
	}
	return key, nil
}

func requiredU128(r gjson.Result, path string) (*uint256.Int, error) {
	if !r.Get(path).Exists() {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, path)
	}
	return optionalU128(r, path)
}

func optionalU128(r gjson.Result, path string) (*uint256.Int, error) {
	v := r.Get(path)
	if !v.Exists() {
		return new(uint256.Int), nil
	}
	out, err := uint256.FromDecimal(v.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, path, err)
	}
	if out.BitLen() > 128 {
		return nil, fmt.Errorf("%w: %s exceeds u128", ErrInvalidSnapshot, path)
	}
	return out, nil
}

package helpers

import (
	"bytes"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/clmm-go/quoter/shared"
	"github.com/krazyTry/clmm-go/u128"
)

// protocolFeeRateScale converts the on-chain basis point protocol fee rate to FeeRateDenominator units.
const protocolFeeRateScale = shared.FeeRateDenominator / shared.BasisPointMax

// PoolAccount is the borsh layout of a pool account after its discriminator.
// Trailing reward data is not read.
type PoolAccount struct {
	PoolsConfig      solana.PublicKey
	Bump             [1]uint8
	TickSpacing      uint16
	TickSpacingSeed  [2]uint8
	FeeRate          uint16
	ProtocolFeeRate  uint16
	Liquidity        binary.Uint128
	SqrtPrice        binary.Uint128
	TickCurrentIndex int32
	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64
	TokenMintA       solana.PublicKey
	TokenVaultA      solana.PublicKey
	FeeGrowthGlobalA binary.Uint128
	TokenMintB       solana.PublicKey
	TokenVaultB      solana.PublicKey
	FeeGrowthGlobalB binary.Uint128
}

func (obj *PoolAccount) fields() []any {
	return []any{
		&obj.PoolsConfig, &obj.Bump, &obj.TickSpacing, &obj.TickSpacingSeed,
		&obj.FeeRate, &obj.ProtocolFeeRate, &obj.Liquidity, &obj.SqrtPrice,
		&obj.TickCurrentIndex, &obj.ProtocolFeeOwedA, &obj.ProtocolFeeOwedB,
		&obj.TokenMintA, &obj.TokenVaultA, &obj.FeeGrowthGlobalA,
		&obj.TokenMintB, &obj.TokenVaultB, &obj.FeeGrowthGlobalB,
	}
}

func (obj *PoolAccount) UnmarshalWithDecoder(decoder *binary.Decoder) error {
	obj.Liquidity, obj.SqrtPrice = littleEndian128(), littleEndian128()
	obj.FeeGrowthGlobalA, obj.FeeGrowthGlobalB = littleEndian128(), littleEndian128()
	for _, f := range obj.fields() {
		if err := decoder.Decode(f); err != nil {
			return err
		}
	}
	return nil
}

func (obj PoolAccount) MarshalWithEncoder(encoder *binary.Encoder) error {
	values := []any{
		obj.PoolsConfig, obj.Bump, obj.TickSpacing, obj.TickSpacingSeed,
		obj.FeeRate, obj.ProtocolFeeRate, obj.Liquidity, obj.SqrtPrice,
		obj.TickCurrentIndex, obj.ProtocolFeeOwedA, obj.ProtocolFeeOwedB,
		obj.TokenMintA, obj.TokenVaultA, obj.FeeGrowthGlobalA,
		obj.TokenMintB, obj.TokenVaultB, obj.FeeGrowthGlobalB,
	}
	for _, f := range values {
		if err := encoder.Encode(f); err != nil {
			return err
		}
	}
	return nil
}

type TickAccount struct {
	Initialized       bool
	LiquidityNet      binary.Int128
	LiquidityGross    binary.Uint128
	FeeGrowthOutsideA binary.Uint128
	FeeGrowthOutsideB binary.Uint128
}

func (obj *TickAccount) fields() []any {
	return []any{&obj.Initialized, &obj.LiquidityNet, &obj.LiquidityGross, &obj.FeeGrowthOutsideA, &obj.FeeGrowthOutsideB}
}

// TickArrayAccount is the borsh layout of a tick array account after its discriminator.
type TickArrayAccount struct {
	StartTickIndex int32
	Ticks          [shared.TickArraySize]TickAccount
	Pool           solana.PublicKey
}

func (obj *TickArrayAccount) UnmarshalWithDecoder(decoder *binary.Decoder) error {
	if err := decoder.Decode(&obj.StartTickIndex); err != nil {
		return err
	}
	for i := range obj.Ticks {
		tick := &obj.Ticks[i]
		tick.LiquidityNet = binary.Int128(littleEndian128())
		tick.LiquidityGross, tick.FeeGrowthOutsideA, tick.FeeGrowthOutsideB = littleEndian128(), littleEndian128(), littleEndian128()
		for _, f := range tick.fields() {
			if err := decoder.Decode(f); err != nil {
				return fmt.Errorf("tick %d: %w", i, err)
			}
		}
	}
	return decoder.Decode(&obj.Pool)
}

func (obj TickArrayAccount) MarshalWithEncoder(encoder *binary.Encoder) error {
	if err := encoder.Encode(obj.StartTickIndex); err != nil {
		return err
	}
	for i, t := range obj.Ticks {
		for _, f := range []any{t.Initialized, t.LiquidityNet, t.LiquidityGross, t.FeeGrowthOutsideA, t.FeeGrowthOutsideB} {
			if err := encoder.Encode(f); err != nil {
				return fmt.Errorf("tick %d: %w", i, err)
			}
		}
	}
	return encoder.Encode(obj.Pool)
}

// littleEndian128 seeds a u128 field so it decodes in borsh byte order.
func littleEndian128() binary.Uint128 {
	return *binary.NewUint128LittleEndian()
}

func checkDiscriminator(data []byte, want [shared.DiscriminatorLength]byte) error {
	if len(data) < shared.DiscriminatorLength || !bytes.Equal(data[:shared.DiscriminatorLength], want[:]) {
		return shared.ErrInvalidDiscriminator
	}
	return nil
}

func DecodePoolAccount(data []byte) (PoolAccount, error) {
	var out PoolAccount
	if err := checkDiscriminator(data, shared.PoolDiscriminator); err != nil {
		return PoolAccount{}, err
	}
	if err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data[shared.DiscriminatorLength:])); err != nil {
		return PoolAccount{}, fmt.Errorf("decode pool account: %w", err)
	}
	return out, nil
}

func DecodeTickArrayAccount(data []byte) (TickArrayAccount, error) {
	var out TickArrayAccount
	if err := checkDiscriminator(data, shared.TickArrayDiscriminator); err != nil {
		return TickArrayAccount{}, err
	}
	if err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data[shared.DiscriminatorLength:])); err != nil {
		return TickArrayAccount{}, fmt.Errorf("decode tick array account: %w", err)
	}
	return out, nil
}

func EncodePoolAccount(acc PoolAccount) ([]byte, error) {
	return encodeAccount(shared.PoolDiscriminator, acc)
}

func EncodeTickArrayAccount(acc TickArrayAccount) ([]byte, error) {
	return encodeAccount(shared.TickArrayDiscriminator, acc)
}

func encodeAccount(discriminator [shared.DiscriminatorLength]byte, acc binary.BinaryMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(discriminator[:])
	if err := acc.MarshalWithEncoder(binary.NewBorshEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePoolState decodes raw pool account data into the state the quoter simulates on.
func DecodePoolState(address solana.PublicKey, data []byte) (*shared.PoolState, error) {
	acc, err := DecodePoolAccount(data)
	if err != nil {
		return nil, err
	}
	return PoolStateFromAccount(address, acc), nil
}

func PoolStateFromAccount(address solana.PublicKey, acc PoolAccount) *shared.PoolState {
	return &shared.PoolState{
		Address:          address,
		TokenMintA:       acc.TokenMintA,
		TokenMintB:       acc.TokenMintB,
		TickSpacing:      acc.TickSpacing,
		FeeRate:          uint32(acc.FeeRate),
		ProtocolFeeRate:  uint32(acc.ProtocolFeeRate) * protocolFeeRateScale,
		Liquidity:        u128.ToUint256(acc.Liquidity),
		SqrtPrice:        u128.ToUint256(acc.SqrtPrice),
		TickCurrentIndex: acc.TickCurrentIndex,
		FeeGrowthGlobalA: u128.ToUint256(acc.FeeGrowthGlobalA),
		FeeGrowthGlobalB: u128.ToUint256(acc.FeeGrowthGlobalB),
		ProtocolFeeOwedA: acc.ProtocolFeeOwedA,
		ProtocolFeeOwedB: acc.ProtocolFeeOwedB,
	}
}

func DecodeTickArray(address solana.PublicKey, data []byte) (*shared.TickArray, error) {
	acc, err := DecodeTickArrayAccount(data)
	if err != nil {
		return nil, err
	}
	return TickArrayFromAccount(address, acc), nil
}

func TickArrayFromAccount(address solana.PublicKey, acc TickArrayAccount) *shared.TickArray {
	out := &shared.TickArray{
		Address:        address,
		Pool:           acc.Pool,
		StartTickIndex: acc.StartTickIndex,
	}
	for i, t := range acc.Ticks {
		out.Ticks[i] = shared.Tick{
			Initialized:       t.Initialized,
			LiquidityNet:      u128.Int128ToBig(t.LiquidityNet),
			LiquidityGross:    u128.ToUint256(t.LiquidityGross),
			FeeGrowthOutsideA: u128.ToUint256(t.FeeGrowthOutsideA),
			FeeGrowthOutsideB: u128.ToUint256(t.FeeGrowthOutsideB),
		}
	}
	return out
}

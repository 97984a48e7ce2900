package helpers

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// ResolveTradeDirection maps an input/output mint pair of pool to a trade direction.
func ResolveTradeDirection(pool *shared.PoolState, inputMint, outputMint solana.PublicKey) (shared.TradeDirection, error) {
	switch {
	case inputMint.Equals(pool.TokenMintA) && outputMint.Equals(pool.TokenMintB):
		return shared.TradeDirectionAtoB, nil
	case inputMint.Equals(pool.TokenMintB) && outputMint.Equals(pool.TokenMintA):
		return shared.TradeDirectionBtoA, nil
	default:
		return 0, fmt.Errorf("%w: %s -> %s in pool %s", shared.ErrUnknownMint, inputMint, outputMint, pool.Address)
	}
}

// OtherMint returns the pool mint paired with mint.
func OtherMint(pool *shared.PoolState, mint solana.PublicKey) (solana.PublicKey, error) {
	switch {
	case mint.Equals(pool.TokenMintA):
		return pool.TokenMintB, nil
	case mint.Equals(pool.TokenMintB):
		return pool.TokenMintA, nil
	default:
		return solana.PublicKey{}, fmt.Errorf("%w: %s", shared.ErrUnknownMint, mint)
	}
}

package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
)

var (
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return errors.New("value overflows Uint128")
	}
	u.Lo = i.Uint64()
	u.Hi = i.Rsh(i, 64).Uint64()
	return nil
}

// ParseUint128 parses a base-10 string into a little endian Uint128.
func ParseUint128(num string) (binary.Uint128, error) {
	u := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u)); err != nil {
		return binary.Uint128{}, fmt.Errorf("parse u128 %q: %w", num, err)
	}
	return *u, nil
}

func GenUint128FromString(num string) binary.Uint128 {
	u, err := ParseUint128(num)
	if err != nil {
		panic(err)
	}
	return u
}

func ToUint256(v binary.Uint128) *uint256.Int {
	out := new(uint256.Int).SetUint64(v.Hi)
	out.Lsh(out, 64)
	return out.Or(out, new(uint256.Int).SetUint64(v.Lo))
}

func FromUint256(v *uint256.Int) (binary.Uint128, error) {
	if v.BitLen() > 128 {
		return binary.Uint128{}, errors.New("value overflows Uint128")
	}
	u := binary.NewUint128LittleEndian()
	u.Lo = v.Uint64()
	u.Hi = new(uint256.Int).Rsh(v, 64).Uint64()
	return *u, nil
}

// Int128ToBig reads the two's complement value of v.
func Int128ToBig(v binary.Int128) *big.Int {
	out := new(big.Int).SetUint64(v.Hi)
	out.Lsh(out, 64).Or(out, new(big.Int).SetUint64(v.Lo))
	if v.Hi&(1<<63) != 0 {
		out.Sub(out, two128)
	}
	return out
}

func BigToInt128(v *big.Int) (binary.Int128, error) {
	if v.Cmp(maxInt128) > 0 || v.Cmp(minInt128) < 0 {
		return binary.Int128{}, errors.New("value overflows Int128")
	}
	w := new(big.Int).Set(v)
	if w.Sign() < 0 {
		w.Add(w, two128)
	}
	u := binary.NewUint128LittleEndian()
	u.Lo = new(big.Int).And(w, new(big.Int).SetUint64(^uint64(0))).Uint64()
	u.Hi = w.Rsh(w, 64).Uint64()
	return binary.Int128(*u), nil
}

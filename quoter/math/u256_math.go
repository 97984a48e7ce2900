package math

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

func CheckedAdd(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, shared.ErrAdditionOverflow
	}
	return z, nil
}

func CheckedSub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, shared.ErrSubtractionUnderflow
	}
	return z, nil
}

func CheckedMul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, shared.ErrMultiplicationOverflow
	}
	return z, nil
}

// CheckedShl shifts left and fails if any set bit would be shifted out.
func CheckedShl(x *uint256.Int, n uint) (*uint256.Int, error) {
	if !x.IsZero() && uint(x.BitLen())+n > 256 {
		return nil, shared.ErrShiftOverflow
	}
	return new(uint256.Int).Lsh(x, n), nil
}

// DivRoundUp is ceil(x / d) computed as quotient plus one on a nonzero remainder.
func DivRoundUp(x, d *uint256.Int) (*uint256.Int, error) {
	return Div(x, d, shared.RoundingUp)
}

func Div(x, d *uint256.Int, rounding shared.Rounding) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, shared.ErrDivideByZero
	}
	q, r := new(uint256.Int).DivMod(x, d, new(uint256.Int))
	if rounding == shared.RoundingUp && !r.IsZero() {
		return CheckedAdd(q, uint256.NewInt(1))
	}
	return q, nil
}

// MulDiv computes x*y/d with a 512-bit intermediate product.
func MulDiv(x, y, d *uint256.Int, rounding shared.Rounding) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, shared.ErrDivideByZero
	}
	q, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, shared.ErrMultiplicationOverflow
	}
	if rounding == shared.RoundingUp && !new(uint256.Int).MulMod(x, y, d).IsZero() {
		return CheckedAdd(q, uint256.NewInt(1))
	}
	return q, nil
}

// ShrRoundUp shifts right, adding one when any discarded bit was set and rounding is up.
func ShrRoundUp(x *uint256.Int, n uint, rounding shared.Rounding) (*uint256.Int, error) {
	q := new(uint256.Int).Rsh(x, n)
	if rounding != shared.RoundingUp {
		return q, nil
	}
	mask := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), n), uint256.NewInt(1))
	if !new(uint256.Int).And(x, mask).IsZero() {
		return CheckedAdd(q, uint256.NewInt(1))
	}
	return q, nil
}

func ToU64(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, shared.ErrAmountExceedsU64
	}
	return x.Uint64(), nil
}

// CheckU128 rejects values wider than 128 bits.
func CheckU128(x *uint256.Int, err error) (*uint256.Int, error) {
	if x.BitLen() > 128 {
		return nil, err
	}
	return x, nil
}

// MulDivU64 is x*y/d over u64 operands with a checked u64 result.
func MulDivU64(x, y, d uint64, rounding shared.Rounding) (uint64, error) {
	v, err := MulDiv(uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(d), rounding)
	if err != nil {
		return 0, err
	}
	return ToU64(v)
}

func AddU64(x, y uint64) (uint64, error) {
	z := x + y
	if z < x {
		return 0, shared.ErrAdditionOverflow
	}
	return z, nil
}

func SubU64(x, y uint64) (uint64, error) {
	if y > x {
		return 0, shared.ErrSubtractionUnderflow
	}
	return x - y, nil
}

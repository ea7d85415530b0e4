package math

import (
	"math/big"

	"github.com/krazyTry/gamma-go/shared"
)

// Checked u128 arithmetic. Every helper allocates a fresh result and fails
// with shared.ErrMathOverflow when the value leaves [0, 2^128).

func Add(a, b *big.Int) (*big.Int, error) {
	r := new(big.Int).Add(a, b)
	if r.Cmp(shared.MaxU128) > 0 {
		return nil, shared.ErrMathOverflow
	}
	return r, nil
}

func Sub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, shared.ErrMathOverflow
	}
	return new(big.Int).Sub(a, b), nil
}

func Mul(a, b *big.Int) (*big.Int, error) {
	r := new(big.Int).Mul(a, b)
	if r.Cmp(shared.MaxU128) > 0 {
		return nil, shared.ErrMathOverflow
	}
	return r, nil
}

func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, shared.ErrMathOverflow
	}
	return new(big.Int).Quo(a, b), nil
}

// SaturatingSubU64 returns a-b, or 0 when b > a.
func SaturatingSubU64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// SaturatingMulU64 returns a*b clamped at the u64 maximum.
func SaturatingMulU64(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	r := a * b
	if r/b != a {
		return ^uint64(0)
	}
	return r
}

// ToU64 narrows a u128 value.
func ToU64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, shared.ErrMathOverflow
	}
	return v.Uint64(), nil
}

// U128 widens a u64.
func U128(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// AddU64 is a checked u64 addition.
func AddU64(a, b uint64) (uint64, error) {
	if a > ^uint64(0)-b {
		return 0, shared.ErrMathOverflow
	}
	return a + b, nil
}

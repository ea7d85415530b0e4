package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"
)

// Uint128 scans decimal strings into an account u128.
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

// Parse reads a decimal u128.
func Parse(num string) (binary.Uint128, error) {
	v := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(v)); err != nil {
		return binary.Uint128{}, err
	}
	return *v, nil
}

// MustParse is Parse for constants and fixtures.
func MustParse(num string) binary.Uint128 {
	v, err := Parse(num)
	if err != nil {
		panic(err)
	}
	return v
}

// FromBig truncates v to its low 128 bits.
func FromBig(v *big.Int) binary.Uint128 {
	out := binary.NewUint128LittleEndian()
	out.Lo = new(big.Int).And(v, maxU64).Uint64()
	out.Hi = new(big.Int).Rsh(v, 64).Uint64()
	return *out
}

func FromUint64(v uint64) binary.Uint128 {
	out := binary.NewUint128LittleEndian()
	out.Lo = v
	return *out
}

// Wrapping converts an account u128 to the modular arithmetic type used
// for cumulative price accumulators.
func Wrapping(v binary.Uint128) uint128.Uint128 {
	return uint128.New(v.Lo, v.Hi)
}

// FromWrapping is the inverse of Wrapping.
func FromWrapping(v uint128.Uint128) binary.Uint128 {
	out := binary.NewUint128LittleEndian()
	out.Lo, out.Hi = v.Lo, v.Hi
	return *out
}

var maxU64 = new(big.Int).SetUint64(^uint64(0))

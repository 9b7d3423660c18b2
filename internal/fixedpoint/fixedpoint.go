// Package fixedpoint provides the Q32 scale constant and overflow-checked
// multiply-divide primitives used by fee accounting.
package fixedpoint

import (
	"errors"

	"github.com/holiman/uint256"
)

// Resolution is the number of fractional bits in a Q32 value.
const Resolution = 32

// Q32 is the Q32 fixed-point scale: values encode real/Q32.
const Q32 uint64 = 1 << Resolution

var (
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
	ErrOverflow       = errors.New("fixedpoint: result does not fit in uint64")
)

// MulDivFloor computes floor(a * b / denominator) over the full uint64
// domain. The product is formed in 256-bit space so it never overflows
// before the division; narrowing the quotient back to uint64 is checked.
func MulDivFloor(a, b, denominator uint64) (uint64, error) {
	if denominator == 0 {
		return 0, ErrDivisionByZero
	}

	x := new(uint256.Int).SetUint64(a)
	y := new(uint256.Int).SetUint64(b)
	den := new(uint256.Int).SetUint64(denominator)

	result, _ := new(uint256.Int).MulDivOverflow(x, y, den)
	if !result.IsUint64() {
		return 0, ErrOverflow
	}
	return result.Uint64(), nil
}

// MulDivRoundingUp computes ceil(a * b / denominator) with the same
// widened intermediate and checked narrowing as MulDivFloor.
func MulDivRoundingUp(a, b, denominator uint64) (uint64, error) {
	quotient, err := MulDivFloor(a, b, denominator)
	if err != nil {
		return 0, err
	}

	x := new(uint256.Int).SetUint64(a)
	y := new(uint256.Int).SetUint64(b)
	den := new(uint256.Int).SetUint64(denominator)

	rem := new(uint256.Int).MulMod(x, y, den)
	if rem.IsZero() {
		return quotient, nil
	}
	if quotient == ^uint64(0) {
		return 0, ErrOverflow
	}
	return quotient + 1, nil
}

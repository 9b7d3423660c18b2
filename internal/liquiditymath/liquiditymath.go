// Package liquiditymath applies signed deltas to unsigned liquidity
// magnitudes with explicit under/overflow checks.
package liquiditymath

import "errors"

var (
	ErrLiquidityUnderflow = errors.New("liquiditymath: liquidity underflow")
	ErrLiquidityOverflow  = errors.New("liquiditymath: liquidity overflow")
)

// AddDelta returns x + y reinterpreted as unsigned. It fails when the
// true signed result would be negative or exceed the uint64 range.
func AddDelta(x uint64, y int64) (uint64, error) {
	if y < 0 {
		// Negate via the unsigned complement so math.MinInt64 is handled.
		magnitude := uint64(-(y + 1)) + 1
		if magnitude > x {
			return 0, ErrLiquidityUnderflow
		}
		return x - magnitude, nil
	}

	z := x + uint64(y)
	if z < x {
		return 0, ErrLiquidityOverflow
	}
	return z, nil
}

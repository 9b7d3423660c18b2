// Package position tracks an owner's liquidity between two tick
// boundaries and the fees accrued to it since it was last touched.
package position

import (
	"errors"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/fixedpoint"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/liquiditymath"
)

// ErrNoLiquidity rejects a fee-only refresh of a position that holds no
// liquidity.
var ErrNoLiquidity = errors.New("position: poke on zero-liquidity position")

// Position is the persistent state of one (owner, tick range) pair.
// It is a flat, fixed-width record: every field is an explicit uint64
// and there are no pointers or variable-length members.
type Position struct {
	// Liquidity is the amount of liquidity owned by this position.
	Liquidity uint64

	// FeeGrowthInside0Last and FeeGrowthInside1Last are Q32 snapshots of
	// the per-token fee growth inside the position's tick boundaries, as
	// of the last update to liquidity or fees owed.
	FeeGrowthInside0Last uint64
	FeeGrowthInside1Last uint64

	// TokensOwed0 and TokensOwed1 are fees credited to the position but
	// not yet withdrawn, in native token units.
	TokensOwed0 uint64
	TokensOwed1 uint64
}

// Update credits accumulated fees to the position and applies a signed
// liquidity change.
//
// liquidityDelta may be positive (mint), negative (burn), or zero (a
// poke that only refreshes fees). feeGrowthInside0 and feeGrowthInside1
// are the current Q32 all-time fee growth values inside the position's
// tick boundaries, computed upstream for this exact range.
//
// Fees are computed on the liquidity that was in effect while the
// accumulators advanced, so the delta is applied only after accrual.
// On any error the position is left exactly as it was.
func (p *Position) Update(liquidityDelta int64, feeGrowthInside0, feeGrowthInside1 uint64) error {
	liquidityNext := p.Liquidity
	if liquidityDelta == 0 {
		if p.Liquidity == 0 {
			return ErrNoLiquidity
		}
	} else {
		var err error
		liquidityNext, err = liquiditymath.AddDelta(p.Liquidity, liquidityDelta)
		if err != nil {
			return err
		}
	}

	// The accumulator subtraction wraps modulo 2^64 on purpose: an
	// apparent decrease means the source accumulator wrapped, and the
	// wrapped difference is still the growth since the last snapshot.
	tokensOwed0, err := fixedpoint.MulDivFloor(feeGrowthInside0-p.FeeGrowthInside0Last, p.Liquidity, fixedpoint.Q32)
	if err != nil {
		return err
	}
	tokensOwed1, err := fixedpoint.MulDivFloor(feeGrowthInside1-p.FeeGrowthInside1Last, p.Liquidity, fixedpoint.Q32)
	if err != nil {
		return err
	}

	if liquidityDelta != 0 {
		p.Liquidity = liquidityNext
	}
	p.FeeGrowthInside0Last = feeGrowthInside0
	p.FeeGrowthInside1Last = feeGrowthInside1
	if tokensOwed0 > 0 || tokensOwed1 > 0 {
		// Overflow is acceptable; owners must withdraw before owed fees
		// reach the uint64 ceiling.
		p.TokensOwed0 += tokensOwed0
		p.TokensOwed1 += tokensOwed1
	}

	return nil
}

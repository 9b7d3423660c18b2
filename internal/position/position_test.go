package position

import (
	"errors"
	"math"
	"testing"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/fixedpoint"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/liquiditymath"
)

func TestPokeOnEmptyRejected(t *testing.T) {
	growths := [][2]uint64{{0, 0}, {fixedpoint.Q32, 0}, {math.MaxUint64, math.MaxUint64}}

	for _, g := range growths {
		var p Position
		if err := p.Update(0, g[0], g[1]); !errors.Is(err, ErrNoLiquidity) {
			t.Fatalf("poke(%d, %d): expected ErrNoLiquidity, got %v", g[0], g[1], err)
		}
		if p != (Position{}) {
			t.Fatalf("record mutated by failed poke: %+v", p)
		}
	}
}

func TestPokeAccruesFees(t *testing.T) {
	p := Position{Liquidity: 1000}

	if err := p.Update(0, fixedpoint.Q32, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.TokensOwed0 != 1000 {
		t.Fatalf("tokens owed 0: got %d, want 1000", p.TokensOwed0)
	}
	if p.TokensOwed1 != 0 {
		t.Fatalf("tokens owed 1: got %d, want 0", p.TokensOwed1)
	}
	if p.FeeGrowthInside0Last != fixedpoint.Q32 || p.FeeGrowthInside1Last != 0 {
		t.Fatalf("snapshots: got (%d, %d), want (%d, 0)", p.FeeGrowthInside0Last, p.FeeGrowthInside1Last, fixedpoint.Q32)
	}
	if p.Liquidity != 1000 {
		t.Fatalf("liquidity changed by poke: %d", p.Liquidity)
	}
}

func TestFeesUsePreUpdateLiquidity(t *testing.T) {
	p := Position{Liquidity: 1000}
	if err := p.Update(0, fixedpoint.Q32, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Growth advances by another Q32; fees must be computed on the 1000
	// units in effect during that period, not on the 1500 after the add.
	if err := p.Update(500, 2*fixedpoint.Q32, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.TokensOwed0 != 2000 {
		t.Fatalf("tokens owed 0: got %d, want 2000", p.TokensOwed0)
	}
	if p.Liquidity != 1500 {
		t.Fatalf("liquidity: got %d, want 1500", p.Liquidity)
	}
	if p.FeeGrowthInside0Last != 2*fixedpoint.Q32 {
		t.Fatalf("snapshot 0: got %d, want %d", p.FeeGrowthInside0Last, 2*fixedpoint.Q32)
	}
}

func TestIdempotentPoke(t *testing.T) {
	p := Position{Liquidity: 777}
	if err := p.Update(0, 5*fixedpoint.Q32, 3*fixedpoint.Q32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := p

	if err := p.Update(0, 5*fixedpoint.Q32, 3*fixedpoint.Q32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != before {
		t.Fatalf("second poke with unchanged accumulators mutated state: %+v != %+v", p, before)
	}
}

func TestSnapshotAlwaysAdvances(t *testing.T) {
	p := Position{Liquidity: 10}

	steps := []struct {
		delta  int64
		g0, g1 uint64
	}{
		{5, 100, 200},
		{0, 300, 400},
		{-15, 500, 600},
	}

	for _, step := range steps {
		if err := p.Update(step.delta, step.g0, step.g1); err != nil {
			t.Fatalf("update(%d, %d, %d): %v", step.delta, step.g0, step.g1, err)
		}
		if p.FeeGrowthInside0Last != step.g0 || p.FeeGrowthInside1Last != step.g1 {
			t.Fatalf("snapshots (%d, %d) != inputs (%d, %d)",
				p.FeeGrowthInside0Last, p.FeeGrowthInside1Last, step.g0, step.g1)
		}
	}

	if p.Liquidity != 0 {
		t.Fatalf("liquidity: got %d, want 0", p.Liquidity)
	}
}

func TestLiquidityBookkeeping(t *testing.T) {
	var p Position
	deltas := []int64{100, 250, -50, 0, 1, -301, 4242}

	var sum int64
	for _, delta := range deltas {
		if err := p.Update(delta, 0, 0); err != nil {
			t.Fatalf("update(%d): %v", delta, err)
		}
		sum += delta
		if p.Liquidity != uint64(sum) {
			t.Fatalf("liquidity after delta %d: got %d, want %d", delta, p.Liquidity, sum)
		}
	}
}

func TestBurnBelowZeroRejected(t *testing.T) {
	p := Position{
		Liquidity:            1500,
		FeeGrowthInside0Last: 7,
		FeeGrowthInside1Last: 9,
		TokensOwed0:          11,
		TokensOwed1:          13,
	}
	before := p

	err := p.Update(-2000, 8*fixedpoint.Q32, 9*fixedpoint.Q32)
	if !errors.Is(err, liquiditymath.ErrLiquidityUnderflow) {
		t.Fatalf("expected ErrLiquidityUnderflow, got %v", err)
	}
	if p != before {
		t.Fatalf("record mutated by failed burn: %+v != %+v", p, before)
	}
}

func TestMintOverflowRejected(t *testing.T) {
	p := Position{Liquidity: math.MaxUint64 - 10}
	before := p

	err := p.Update(11, 0, 0)
	if !errors.Is(err, liquiditymath.ErrLiquidityOverflow) {
		t.Fatalf("expected ErrLiquidityOverflow, got %v", err)
	}
	if p != before {
		t.Fatalf("record mutated by failed mint: %+v != %+v", p, before)
	}
}

func TestAccumulatorSubtractionWraps(t *testing.T) {
	// The stored snapshot sits Q32 short of the uint64 ceiling; the
	// accumulator wrapped past zero. The modular difference is exactly
	// Q32, one whole token per unit of liquidity.
	p := Position{
		Liquidity:            7,
		FeeGrowthInside0Last: math.MaxUint64 - fixedpoint.Q32 + 1,
	}

	if err := p.Update(0, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TokensOwed0 != 7 {
		t.Fatalf("tokens owed 0: got %d, want 7", p.TokensOwed0)
	}
	if p.FeeGrowthInside0Last != 0 {
		t.Fatalf("snapshot 0: got %d, want 0", p.FeeGrowthInside0Last)
	}
}

func TestOwedTotalsWrapWithoutError(t *testing.T) {
	p := Position{
		Liquidity:   1,
		TokensOwed0: math.MaxUint64,
		TokensOwed1: math.MaxUint64 - 1,
	}

	if err := p.Update(0, 2*fixedpoint.Q32, 3*fixedpoint.Q32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TokensOwed0 != 1 {
		t.Fatalf("tokens owed 0: got %d, want wrap to 1", p.TokensOwed0)
	}
	if p.TokensOwed1 != 1 {
		t.Fatalf("tokens owed 1: got %d, want wrap to 1", p.TokensOwed1)
	}
}

func TestZeroFeesLeaveOwedUntouched(t *testing.T) {
	p := Position{Liquidity: 5, TokensOwed0: 3, TokensOwed1: 4}

	if err := p.Update(5, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TokensOwed0 != 3 || p.TokensOwed1 != 4 {
		t.Fatalf("owed totals changed without accrual: (%d, %d)", p.TokensOwed0, p.TokensOwed1)
	}
}

func TestFeeConversionOverflowRejected(t *testing.T) {
	// growth delta 2^63 over 2^33 liquidity yields 2^64 owed tokens,
	// one past the uint64 ceiling: the checked narrowing must fail and
	// leave the record untouched.
	p := Position{Liquidity: 1 << 33}
	before := p

	err := p.Update(0, 1<<63, 0)
	if !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if p != before {
		t.Fatalf("record mutated by failed accrual: %+v != %+v", p, before)
	}
}

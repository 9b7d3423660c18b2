package model

import "github.com/Spectre-arbitrage/cykura-mevbot/internal/position"

// Instruction kinds accepted by the ledger runner.
const (
	KindMint    = "mint"
	KindBurn    = "burn"
	KindCollect = "collect"
	KindPoke    = "poke"
)

// Instruction is one pre-authorized ledger operation. The fee growth
// values are Q32 fee-growth-inside snapshots computed upstream by the
// pool engine for the exact tick range, valid as of the instruction.
type Instruction struct {
	Seq       uint64 `json:"seq"`
	Kind      string `json:"kind"`
	Pool      string `json:"pool"`
	Sender    string `json:"sender"`
	Token0    string `json:"token0"`
	Token1    string `json:"token1"`
	Fee       uint32 `json:"fee"`
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`

	// Amount is the liquidity minted or burned; unused for collect/poke.
	Amount uint64 `json:"amount,omitempty"`

	// Amount0 and Amount1 are token amounts: the principal moved for
	// mint/burn, or the requested withdrawal for collect.
	Amount0 uint64 `json:"amount0,omitempty"`
	Amount1 uint64 `json:"amount1,omitempty"`

	FeeGrowthInside0 uint64 `json:"fee_growth_inside0,omitempty"`
	FeeGrowthInside1 uint64 `json:"fee_growth_inside1,omitempty"`
}

// PositionKey assembles the addressing key for the instruction's target.
func (in Instruction) PositionKey() position.Key {
	return position.Key{
		Token0:    in.Token0,
		Token1:    in.Token1,
		Fee:       in.Fee,
		Owner:     in.Owner,
		TickLower: in.TickLower,
		TickUpper: in.TickUpper,
	}
}

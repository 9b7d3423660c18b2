package model

// MintEventData reports liquidity minted to a position's range.
type MintEventData struct {
	Sender    string `json:"sender"`
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Amount    uint64 `json:"amount"`
	Amount0   uint64 `json:"amount0"`
	Amount1   uint64 `json:"amount1"`
}

// BurnEventData reports liquidity removed from a position. Fees earned
// by the removed liquidity stay owed until a collect.
type BurnEventData struct {
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Amount    uint64 `json:"amount"`
	Amount0   uint64 `json:"amount0"`
	Amount1   uint64 `json:"amount1"`
}

// CollectEventData reports fees withdrawn by a position's owner. Both
// amounts may be zero when nothing was owed.
type CollectEventData struct {
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Amount0   uint64 `json:"amount0"`
	Amount1   uint64 `json:"amount1"`
}

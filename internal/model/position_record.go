package model

import (
	"time"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/position"
)

// PositionRecord is the stored form of one position: its addressing key
// plus the ledger state, with an update timestamp for auditing.
type PositionRecord struct {
	ID        string            `json:"id"`
	Pool      string            `json:"pool"`
	Key       position.Key      `json:"key"`
	State     position.Position `json:"state"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewPositionRecord returns a zero-valued record for a key referenced
// for the first time.
func NewPositionRecord(pool string, key position.Key) PositionRecord {
	return PositionRecord{
		ID:   key.ID(),
		Pool: pool,
		Key:  key,
	}
}

package storage

import (
	"context"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/model"
)

// PositionStore persists position records keyed by their derived ID.
type PositionStore interface {
	GetPosition(ctx context.Context, id string) (model.PositionRecord, bool, error)
	UpsertPositions(ctx context.Context, records []model.PositionRecord) error
}

// EventSink receives audit events produced by the ledger.
type EventSink interface {
	PutEventBatch(events []model.Event) error
}

// Package ledger applies authorized position instructions: it loads or
// creates the addressed record, runs the position update, persists the
// result, and emits the matching audit event.
package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/model"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/storage"
)

// Config holds retry settings for storage and event-sink writes.
type Config struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// Ledger reconciles instructions against the position store.
type Ledger struct {
	cfg    Config
	store  storage.PositionStore
	events storage.EventSink
	logger *zap.Logger
}

// New builds a Ledger with its dependencies.
func New(cfg Config, store storage.PositionStore, events storage.EventSink, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{cfg: cfg, store: store, events: events, logger: logger}
}

// Rejection marks a non-retriable, instruction-level failure: the
// record was left untouched and the caller must fix its inputs.
type Rejection struct {
	Err error
}

func (r *Rejection) Error() string { return fmt.Sprintf("instruction rejected: %v", r.Err) }

func (r *Rejection) Unwrap() error { return r.Err }

func reject(format string, args ...interface{}) error {
	return &Rejection{Err: fmt.Errorf(format, args...)}
}

// Apply dispatches one instruction to the matching operation.
func (l *Ledger) Apply(ctx context.Context, in model.Instruction) error {
	switch in.Kind {
	case model.KindMint:
		return l.Mint(ctx, in)
	case model.KindBurn:
		return l.Burn(ctx, in)
	case model.KindCollect:
		_, _, err := l.Collect(ctx, in)
		return err
	case model.KindPoke:
		return l.Poke(ctx, in)
	default:
		return reject("unknown instruction kind %q", in.Kind)
	}
}

// Mint adds liquidity to the addressed position, creating the record on
// first reference, and emits a mint event.
func (l *Ledger) Mint(ctx context.Context, in model.Instruction) error {
	delta, err := positiveDelta(in.Amount)
	if err != nil {
		return err
	}

	record, err := l.loadOrCreate(ctx, in)
	if err != nil {
		return err
	}

	if err := record.State.Update(delta, in.FeeGrowthInside0, in.FeeGrowthInside1); err != nil {
		return &Rejection{Err: err}
	}

	if err := l.persist(ctx, &record); err != nil {
		return err
	}

	return l.emit(ctx, in, "mint", model.MintEventData{
		Sender:    in.Sender,
		Owner:     in.Owner,
		TickLower: in.TickLower,
		TickUpper: in.TickUpper,
		Amount:    in.Amount,
		Amount0:   in.Amount0,
		Amount1:   in.Amount1,
	})
}

// Burn removes liquidity from the addressed position and credits the
// withdrawn principal to the owed balances. The principal amounts are
// computed upstream by the pool engine and arrive on the instruction.
func (l *Ledger) Burn(ctx context.Context, in model.Instruction) error {
	delta, err := positiveDelta(in.Amount)
	if err != nil {
		return err
	}

	record, found, err := l.load(ctx, in)
	if err != nil {
		return err
	}
	if !found {
		return reject("position %s not found", in.PositionKey().ID())
	}

	if err := record.State.Update(-delta, in.FeeGrowthInside0, in.FeeGrowthInside1); err != nil {
		return &Rejection{Err: err}
	}

	// Principal owed back to the owner follows the same wrapping policy
	// as fee accrual.
	if in.Amount0 > 0 || in.Amount1 > 0 {
		record.State.TokensOwed0 += in.Amount0
		record.State.TokensOwed1 += in.Amount1
	}

	if err := l.persist(ctx, &record); err != nil {
		return err
	}

	return l.emit(ctx, in, "burn", model.BurnEventData{
		Owner:     in.Owner,
		TickLower: in.TickLower,
		TickUpper: in.TickUpper,
		Amount:    in.Amount,
		Amount0:   in.Amount0,
		Amount1:   in.Amount1,
	})
}

// Poke refreshes accrued fees without changing liquidity. It emits no
// event; only the stored record advances.
func (l *Ledger) Poke(ctx context.Context, in model.Instruction) error {
	record, found, err := l.load(ctx, in)
	if err != nil {
		return err
	}
	if !found {
		return reject("position %s not found", in.PositionKey().ID())
	}

	if err := record.State.Update(0, in.FeeGrowthInside0, in.FeeGrowthInside1); err != nil {
		return &Rejection{Err: err}
	}

	return l.persist(ctx, &record)
}

// Collect withdraws owed fees, clamping each requested amount to the
// owed balance, and returns what was actually collected. A collect event
// is emitted even when both amounts are zero.
func (l *Ledger) Collect(ctx context.Context, in model.Instruction) (uint64, uint64, error) {
	record, found, err := l.load(ctx, in)
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, reject("position %s not found", in.PositionKey().ID())
	}

	amount0 := in.Amount0
	if amount0 > record.State.TokensOwed0 {
		amount0 = record.State.TokensOwed0
	}
	amount1 := in.Amount1
	if amount1 > record.State.TokensOwed1 {
		amount1 = record.State.TokensOwed1
	}

	record.State.TokensOwed0 -= amount0
	record.State.TokensOwed1 -= amount1

	if err := l.persist(ctx, &record); err != nil {
		return 0, 0, err
	}

	err = l.emit(ctx, in, "collect", model.CollectEventData{
		Owner:     in.Owner,
		TickLower: in.TickLower,
		TickUpper: in.TickUpper,
		Amount0:   amount0,
		Amount1:   amount1,
	})
	if err != nil {
		return 0, 0, err
	}
	return amount0, amount1, nil
}

func (l *Ledger) load(ctx context.Context, in model.Instruction) (model.PositionRecord, bool, error) {
	id := in.PositionKey().ID()
	var record model.PositionRecord
	var found bool
	err := withRetry(ctx, l.cfg.MaxRetries, l.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		record, found, err = l.store.GetPosition(ctx, id)
		if err != nil {
			l.logger.Warn("load position failed", zap.String("position_id", id), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return model.PositionRecord{}, false, fmt.Errorf("load position: %w", err)
	}
	return record, found, nil
}

func (l *Ledger) loadOrCreate(ctx context.Context, in model.Instruction) (model.PositionRecord, error) {
	record, found, err := l.load(ctx, in)
	if err != nil {
		return model.PositionRecord{}, err
	}
	if !found {
		record = model.NewPositionRecord(in.Pool, in.PositionKey())
	}
	return record, nil
}

func (l *Ledger) persist(ctx context.Context, record *model.PositionRecord) error {
	record.UpdatedAt = time.Now().UTC()
	err := withRetry(ctx, l.cfg.MaxRetries, l.cfg.RetryBackoff, func(ctx context.Context) error {
		err := l.store.UpsertPositions(ctx, []model.PositionRecord{*record})
		if err != nil {
			l.logger.Warn("persist position failed", zap.String("position_id", record.ID), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("persist position: %w", err)
	}
	return nil
}

func (l *Ledger) emit(ctx context.Context, in model.Instruction, name string, data interface{}) error {
	if l.events == nil {
		return nil
	}
	event := model.Event{
		Seq:       in.Seq,
		Name:      name,
		Pool:      in.Pool,
		TickLower: in.TickLower,
		TickUpper: in.TickUpper,
		Data:      data,
	}
	err := withRetry(ctx, l.cfg.MaxRetries, l.cfg.RetryBackoff, func(ctx context.Context) error {
		err := l.events.PutEventBatch([]model.Event{event})
		if err != nil {
			l.logger.Warn("emit event failed", zap.Uint64("seq", in.Seq), zap.String("name", name), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("emit event: %w", err)
	}
	return nil
}

func positiveDelta(amount uint64) (int64, error) {
	if amount == 0 {
		return 0, reject("liquidity amount must be positive")
	}
	if amount > math.MaxInt64 {
		return 0, reject("liquidity amount %d exceeds the signed delta range", amount)
	}
	return int64(amount), nil
}

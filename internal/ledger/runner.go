package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/model"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/storage"
)

// RunConfig holds runtime settings for an instruction stream run.
type RunConfig struct {
	In string
}

// Runner streams instructions from a JSONL file through the ledger,
// skipping already-applied sequences and recording progress.
type Runner struct {
	cfg    RunConfig
	ledger *Ledger
	state  StateStore
	logger *zap.Logger
	seen   map[uint64]struct{}
}

// NewRunner builds a Runner with its dependencies. A nil state store
// disables resume tracking.
func NewRunner(cfg RunConfig, l *Ledger, state StateStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		ledger: l,
		state:  state,
		logger: logger,
		seen:   make(map[uint64]struct{}),
	}
}

// Run executes the stream loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.ledger == nil {
		return fmt.Errorf("ledger is nil")
	}
	if r.cfg.In == "" {
		return fmt.Errorf("instruction path is required")
	}

	var lastApplied uint64
	var resuming bool
	if r.state != nil {
		seq, ok, err := r.state.Load(ctx)
		if err != nil {
			return err
		}
		if ok {
			lastApplied = seq
			resuming = true
			r.logger.Info("resume from state", zap.Uint64("last_applied_seq", seq))
		}
	}

	var applied, rejected, skipped int
	err := storage.ReadInstructions(r.cfg.In, func(in model.Instruction) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if resuming && in.Seq <= lastApplied {
			skipped++
			return nil
		}
		if _, dup := r.seen[in.Seq]; dup {
			skipped++
			return nil
		}
		r.seen[in.Seq] = struct{}{}

		err := r.ledger.Apply(ctx, in)
		var rej *Rejection
		if errors.As(err, &rej) {
			rejected++
			r.logger.Warn("instruction rejected",
				zap.Uint64("seq", in.Seq),
				zap.String("kind", in.Kind),
				zap.Error(rej.Unwrap()),
			)
			return nil
		}
		if err != nil {
			return fmt.Errorf("apply instruction %d: %w", in.Seq, err)
		}
		applied++

		if r.state != nil {
			if err := r.state.Save(ctx, in.Seq); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("stream complete",
		zap.Int("applied", applied),
		zap.Int("rejected", rejected),
		zap.Int("skipped", skipped),
	)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/config"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/ledger"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/storage"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "ledger",
		Short:        "Concentrated-liquidity position ledger",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an instruction stream to the position store",
		RunE:  runApply,
	}

	applyCmd.Flags().String("in", "", "input instructions JSONL")
	applyCmd.Flags().String("events", "./data/events.jsonl", "output audit events JSONL")
	applyCmd.Flags().String("positions-out", "./data/positions.jsonl", "position snapshot JSONL (memory mode)")
	applyCmd.Flags().String("pg-dsn", "", "Postgres DSN (empty uses the in-memory store)")
	applyCmd.Flags().String("state-file", "./data/state.json", "state file path (memory mode)")
	applyCmd.Flags().Bool("state-enabled", true, "enable resume state tracking")
	applyCmd.Flags().Int("max-retries", 5, "maximum retry attempts for storage writes")
	applyCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	applyCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(applyCmd)

	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Look up one position by its key fields",
		RunE:  runPosition,
	}

	positionCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	positionCmd.Flags().String("token0", "", "token 0 identifier")
	positionCmd.Flags().String("token1", "", "token 1 identifier")
	positionCmd.Flags().Uint32("fee", 0, "fee tier")
	positionCmd.Flags().String("owner", "", "position owner")
	positionCmd.Flags().Int32("tick-lower", 0, "lower tick boundary")
	positionCmd.Flags().Int32("tick-upper", 0, "upper tick boundary")
	positionCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(positionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runApply(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadApply(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("instruction input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := storage.NewJsonlEventSink(cfg.Events)

	var store storage.PositionStore
	var state ledger.StateStore
	var memory *storage.MemoryStore

	if cfg.PGDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
		if cfg.StateEnabled {
			state = &pgState{store: pgStore, name: "ledger"}
		}
	} else {
		memory = storage.NewMemoryStore()
		store = memory
		if cfg.StateEnabled {
			state = &ledger.FileStateStore{Path: cfg.StateFile}
		}
	}

	book := ledger.New(ledger.Config{
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, store, events, logger)

	runner := ledger.NewRunner(ledger.RunConfig{In: cfg.In}, book, state, logger)

	logger.Info("apply start",
		zap.String("in", cfg.In),
		zap.String("events", cfg.Events),
		zap.Bool("postgres", cfg.PGDSN != ""),
		zap.Bool("state_enabled", cfg.StateEnabled),
	)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	if memory != nil {
		if err := storage.WritePositionSnapshot(cfg.PositionsOut, memory.Snapshot()); err != nil {
			return err
		}
		logger.Info("positions snapshot written", zap.String("out", cfg.PositionsOut))
	}

	return nil
}

// pgState adapts the Postgres store to the runner's state interface.
type pgState struct {
	store *postgres.Store
	name  string
}

func (s *pgState) Load(ctx context.Context) (uint64, bool, error) {
	return s.store.LoadState(ctx, s.name)
}

func (s *pgState) Save(ctx context.Context, seq uint64) error {
	return s.store.SaveState(ctx, s.name, seq)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

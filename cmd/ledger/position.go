package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/config"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/position"
	"github.com/Spectre-arbitrage/cykura-mevbot/internal/storage/postgres"
)

func runPosition(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPosition(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if cfg.Token0 == "" || cfg.Token1 == "" || cfg.Owner == "" {
		return fmt.Errorf("token0, token1, and owner are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	key := position.Key{
		Token0:    cfg.Token0,
		Token1:    cfg.Token1,
		Fee:       cfg.Fee,
		Owner:     cfg.Owner,
		TickLower: cfg.TickLower,
		TickUpper: cfg.TickUpper,
	}

	record, found, err := store.GetPosition(ctx, key.ID())
	if err != nil {
		return fmt.Errorf("load position: %w", err)
	}
	if !found {
		logger.Info("position not found", zap.String("position_id", key.ID()))
		return fmt.Errorf("position %s not found", key.ID())
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

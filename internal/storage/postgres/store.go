package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/model"
)

// Store provides Postgres persistence for positions and runner state.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// GetPosition loads one position record by its derived ID.
func (s *Store) GetPosition(ctx context.Context, id string) (model.PositionRecord, bool, error) {
	var record model.PositionRecord
	row := s.pool.QueryRow(ctx, `
		SELECT position_id, pool, token0, token1, fee, owner, tick_lower, tick_upper,
			liquidity, fee_growth_inside0_last, fee_growth_inside1_last,
			tokens_owed0, tokens_owed1, updated_at
		FROM positions WHERE position_id=$1
	`, id)

	var fee int64
	var tickLower, tickUpper int32
	var liquidity, growth0, growth1, owed0, owed1 int64
	err := row.Scan(
		&record.ID,
		&record.Pool,
		&record.Key.Token0,
		&record.Key.Token1,
		&fee,
		&record.Key.Owner,
		&tickLower,
		&tickUpper,
		&liquidity,
		&growth0,
		&growth1,
		&owed0,
		&owed1,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PositionRecord{}, false, nil
		}
		return model.PositionRecord{}, false, err
	}

	record.Key.Fee = uint32(fee)
	record.Key.TickLower = tickLower
	record.Key.TickUpper = tickUpper
	record.State.Liquidity = uint64(liquidity)
	record.State.FeeGrowthInside0Last = uint64(growth0)
	record.State.FeeGrowthInside1Last = uint64(growth1)
	record.State.TokensOwed0 = uint64(owed0)
	record.State.TokensOwed1 = uint64(owed1)
	return record, true, nil
}

// UpsertPositions inserts or updates position records in one batch.
// uint64 fields are stored bit-for-bit in BIGINT columns.
func (s *Store) UpsertPositions(ctx context.Context, records []model.PositionRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(`
			INSERT INTO positions (
				position_id, pool, token0, token1, fee, owner, tick_lower, tick_upper,
				liquidity, fee_growth_inside0_last, fee_growth_inside1_last,
				tokens_owed0, tokens_owed1, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
			ON CONFLICT (position_id)
			DO UPDATE SET
				liquidity = EXCLUDED.liquidity,
				fee_growth_inside0_last = EXCLUDED.fee_growth_inside0_last,
				fee_growth_inside1_last = EXCLUDED.fee_growth_inside1_last,
				tokens_owed0 = EXCLUDED.tokens_owed0,
				tokens_owed1 = EXCLUDED.tokens_owed1,
				updated_at = now()
		`,
			record.ID,
			record.Pool,
			record.Key.Token0,
			record.Key.Token1,
			int64(record.Key.Fee),
			record.Key.Owner,
			record.Key.TickLower,
			record.Key.TickUpper,
			int64(record.State.Liquidity),
			int64(record.State.FeeGrowthInside0Last),
			int64(record.State.FeeGrowthInside1Last),
			int64(record.State.TokensOwed0),
			int64(record.State.TokensOwed1),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns the last applied instruction sequence for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var seq int64
	row := s.pool.QueryRow(ctx, `SELECT last_applied_seq FROM ledger_state WHERE name=$1`, name)
	if err := row.Scan(&seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(seq), true, nil
}

// SaveState upserts the last applied instruction sequence for a name.
func (s *Store) SaveState(ctx context.Context, name string, seq uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ledger_state (name, last_applied_seq, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_applied_seq = EXCLUDED.last_applied_seq, updated_at = now()
	`, name, int64(seq))
	return err
}

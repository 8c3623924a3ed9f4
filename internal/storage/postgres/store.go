package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"binscope/internal/model"
)

// Store provides Postgres persistence for pools and position snapshots.
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

// UpsertPools inserts or updates pair metadata.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO lb_pools (
				chain_id, pair_address, token_x, token_y, bin_step, active_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (chain_id, pair_address)
			DO UPDATE SET
				token_x = EXCLUDED.token_x,
				token_y = EXCLUDED.token_y,
				bin_step = EXCLUDED.bin_step,
				active_id = EXCLUDED.active_id,
				updated_at = now()
		`,
			int64(pool.ChainID),
			pool.PairAddress,
			pool.TokenX,
			pool.TokenY,
			int32(pool.BinStep),
			int64(pool.ActiveID),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertSnapshots inserts or updates per-bin position snapshots.
func (s *Store) UpsertSnapshots(ctx context.Context, records []model.SnapshotRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO position_snapshots (
				chain_id, pair_address, owner, bin_id, share, amount_x, amount_y, price, scanned_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
			ON CONFLICT (chain_id, pair_address, owner, bin_id)
			DO UPDATE SET
				share = EXCLUDED.share,
				amount_x = EXCLUDED.amount_x,
				amount_y = EXCLUDED.amount_y,
				price = EXCLUDED.price,
				scanned_at = EXCLUDED.scanned_at,
				updated_at = now()
		`,
			int64(rec.ChainID),
			rec.PairAddress,
			rec.Owner,
			int64(rec.BinID),
			rec.Share,
			rec.AmountX,
			rec.AmountY,
			rec.Price,
			rec.ScannedAt,
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

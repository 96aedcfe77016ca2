package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS vault_transactions (
	id           BIGSERIAL PRIMARY KEY,
	hash         TEXT,
	function     TEXT NOT NULL,
	type_args    TEXT[] NOT NULL DEFAULT '{}',
	args         TEXT[] NOT NULL DEFAULT '{}',
	sender       TEXT NOT NULL,
	stage        TEXT NOT NULL,
	success      BOOLEAN NOT NULL,
	vm_status    TEXT,
	version      BIGINT,
	error        TEXT,
	submitted_at TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS vault_transactions_hash_idx
	ON vault_transactions (hash) WHERE hash IS NOT NULL;
`

// Store provides Postgres persistence for the transaction journal.
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

// EnsureSchema creates the journal table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutTxRecords inserts records, updating rows that share a transaction hash.
// Records without a hash never reached the node and are always inserted.
func (s *Store) PutTxRecords(ctx context.Context, records []model.TxRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO vault_transactions (
				hash, function, type_args, args, sender, stage, success,
				vm_status, version, error, submitted_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
			ON CONFLICT (hash) WHERE hash IS NOT NULL
			DO UPDATE SET
				stage = EXCLUDED.stage,
				success = EXCLUDED.success,
				vm_status = EXCLUDED.vm_status,
				version = EXCLUDED.version,
				error = EXCLUDED.error,
				updated_at = now()
		`,
			nullable(rec.Hash),
			rec.Function,
			nonNil(rec.TypeArgs),
			nonNil(rec.Args),
			rec.Sender,
			rec.Stage,
			rec.Success,
			nullable(rec.VMStatus),
			nullableVersion(rec.Version),
			nullable(rec.Error),
			submittedAt(rec.SubmittedAt),
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

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func nullableVersion(v uint64) *int64 {
	if v == 0 {
		return nil
	}
	n := int64(v)
	return &n
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func submittedAt(v string) time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return ts
	}
	return time.Now().UTC()
}

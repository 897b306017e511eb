package history

import (
	"context"
	"fmt"
	"time"

	"langtable/internal/merge"
	"langtable/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS merge_changes (
	id             BIGSERIAL PRIMARY KEY,
	file           TEXT        NOT NULL,
	entry_key      TEXT        NOT NULL,
	language       TEXT        NOT NULL,
	old_text       TEXT        NOT NULL,
	new_text       TEXT        NOT NULL,
	length_warning BOOLEAN     NOT NULL DEFAULT FALSE,
	merged_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS merge_changes_file_key_idx ON merge_changes (file, entry_key);
`

const insertSQL = `
INSERT INTO merge_changes (file, entry_key, language, old_text, new_text, length_warning)
VALUES ($1, $2, $3, $4, $5, $6)
`

const listSQL = `
SELECT entry_key, language, old_text, new_text, length_warning, merged_at
FROM merge_changes
WHERE file = $1 AND ($2 = '' OR entry_key = $2)
ORDER BY merged_at DESC, id DESC
LIMIT $3
`

// Record is one stored merge change.
type Record struct {
	Key           string
	Language      string
	OldText       string
	NewText       string
	LengthWarning bool
	MergedAt      time.Time
}

// Store keeps an audit log of merged values in PostgreSQL.
type Store struct {
	pool      *pgxpool.Pool
	batchSize int
}

// NewStore creates a history store; batchSize bounds rows per round trip.
func NewStore(pool *pgxpool.Pool, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Store{pool: pool, batchSize: batchSize}
}

// Connect opens and pings a pool for databaseURL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Debug().Msg("Connected to PostgreSQL")
	return pool, nil
}

// EnsureSchema creates the history table if needed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

// Record stores the changes of one merge against file.
func (s *Store) Record(ctx context.Context, file string, changes []merge.Change) error {
	if len(changes) == 0 {
		return nil
	}

	for _, chunk := range worker.Batch(changes, s.batchSize) {
		batch := &pgx.Batch{}
		for _, c := range chunk {
			batch.Queue(insertSQL, file, c.Key, c.Language, c.OldText, c.NewText, c.LengthWarning)
		}
		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("record merge changes: %w", err)
		}
	}

	log.Info().Str("file", file).Int("changes", len(changes)).Msg("Recorded merge history")
	return nil
}

// List returns the newest changes for file, optionally limited to one key.
func (s *Store) List(ctx context.Context, file, key string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, listSQL, file, key, limit)
	if err != nil {
		return nil, fmt.Errorf("query merge history: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(&r.Key, &r.Language, &r.OldText, &r.NewText, &r.LengthWarning, &r.MergedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan merge history: %w", err)
	}
	return records, nil
}

package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	documentID          = 1
	pgUndefinedTableErr = "42P01"
)

var ErrSchemaMissing = errors.New("inventory_documents table missing, run `nexstock migrate`")

// PostgresStore keeps the same document FileStore writes, as one jsonb row.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewPostgresStore(ctx context.Context, url string, log *zap.Logger) (*PostgresStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool, log: log}, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.pool.Ping(ctx)
	})
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS inventory_documents (
				id         smallint    PRIMARY KEY,
				body       jsonb       NOT NULL,
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`)
		return err
	})
}

func (s *PostgresStore) Load(ctx context.Context) (Dataset, error) {
	var raw []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.pool.QueryRow(ctx, `
			SELECT body
			FROM inventory_documents
			WHERE id = $1
		`, documentID).Scan(&raw)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return emptyDataset(), nil
	}
	if isUndefinedTable(err) {
		return Dataset{}, ErrSchemaMissing
	}
	if err != nil {
		return Dataset{}, err
	}

	d, err := decodeDataset(raw)
	if err != nil {
		s.log.Warn("inventory document malformed, starting empty", zap.Error(err))
		return emptyDataset(), nil
	}
	return d, nil
}

func (s *PostgresStore) Save(ctx context.Context, d Dataset) error {
	d.normalize()
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO inventory_documents (id, body, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (id) DO UPDATE
			SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		`, documentID, string(body))
		return err
	})
	if isUndefinedTable(err) {
		return ErrSchemaMissing
	}
	return err
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTableErr
}

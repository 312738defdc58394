package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS artifacts (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	source     TEXT NOT NULL,
	path       TEXT NOT NULL,
	model      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

const insertSQL = `INSERT INTO artifacts (id, kind, source, path, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// PostgresJournal хранит записи об артефактах в таблице artifacts.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

// OpenPostgres подключается к базе, проверяет соединение и создаёт таблицу.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresJournal, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create artifacts table: %w", err)
	}

	return &PostgresJournal{pool: pool}, nil
}

func (j *PostgresJournal) Record(ctx context.Context, record entity.ArtifactRecord) error {
	_, err := j.pool.Exec(ctx, insertSQL,
		record.ID.String(),
		string(record.Kind),
		record.Source,
		record.Path,
		record.Model,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert artifact record: %w", err)
	}
	return nil
}

// count возвращает число записей указанного типа.
func (j *PostgresJournal) count(ctx context.Context, kind entity.ArtifactKind) (int, error) {
	var n int
	if err := j.pool.QueryRow(ctx, "SELECT count(*) FROM artifacts WHERE kind = $1", string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count artifacts: %w", err)
	}
	return n, nil
}

func (j *PostgresJournal) Close() error {
	j.pool.Close()
	return nil
}

var _ port.Journal = (*PostgresJournal)(nil)

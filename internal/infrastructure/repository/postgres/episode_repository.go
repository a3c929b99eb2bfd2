package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

type EpisodeRepository struct {
	db *sql.DB
}

func NewEpisodeRepository(db *sql.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *EpisodeRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS episodes (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	title TEXT,
	language TEXT,
	transcript_path TEXT NOT NULL,
	status TEXT NOT NULL,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_episodes_status ON episodes(status);
CREATE INDEX IF NOT EXISTS idx_episodes_created_at ON episodes(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *EpisodeRepository) Create(ctx context.Context, ep *domain.Episode) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO episodes (
	id, url, title, language, transcript_path, status, chunk_count, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		ep.ID, ep.URL, ep.Title, ep.Language, ep.TranscriptPath,
		string(ep.Status), ep.ChunkCount, ep.Error, ep.CreatedAt, ep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}

func (r *EpisodeRepository) GetByID(ctx context.Context, id string) (*domain.Episode, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, url, title, language, transcript_path, status, chunk_count, error_message, created_at, updated_at
FROM episodes
WHERE id = $1
`, id)

	var ep domain.Episode
	var status string

	err := row.Scan(
		&ep.ID, &ep.URL, &ep.Title, &ep.Language, &ep.TranscriptPath,
		&status, &ep.ChunkCount, &ep.Error, &ep.CreatedAt, &ep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrEpisodeNotFound, "get episode", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan episode: %w", err)
	}

	ep.Status = domain.EpisodeStatus(status)
	return &ep, nil
}

func (r *EpisodeRepository) UpdateStatus(ctx context.Context, id string, status domain.EpisodeStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE episodes
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update episode status: %w", err)
	}
	return checkAffected(res, "update episode status", id)
}

func (r *EpisodeRepository) SetChunkCount(ctx context.Context, id string, count int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE episodes
SET chunk_count = $2, updated_at = $3
WHERE id = $1
`, id, count, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set episode chunk count: %w", err)
	}
	return checkAffected(res, "set episode chunk count", id)
}

func checkAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrEpisodeNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}

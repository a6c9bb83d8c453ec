package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/job-summarizer/internal/types"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS job_records (
	id         TEXT PRIMARY KEY,
	content    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS job_record_backups (
	id           BIGSERIAL PRIMARY KEY,
	backup_id    UUID NOT NULL,
	record_id    TEXT NOT NULL,
	content      JSONB NOT NULL,
	backed_up_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_job_record_backups_backup_id ON job_record_backups (backup_id);
`

// PostgresStore keeps each record content as JSONB in the job_records table.
type PostgresStore struct {
	pool *pgxpool.Pool

	// LastBackupID identifies the rows copied by the most recent SaveAll.
	LastBackupID uuid.UUID
}

// ConnectPostgres establishes a connection pool and creates the tables if needed
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &LoadError{Message: "failed to connect to database", Cause: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &LoadError{Message: "failed to ping database", Cause: err}
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, &LoadError{Message: "failed to create tables", Cause: err}
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// LoadAll returns every record ordered by id
func (s *PostgresStore) LoadAll(ctx context.Context) ([]*types.JobRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, content FROM job_records ORDER BY id`)
	if err != nil {
		return nil, &LoadError{Message: "failed to query job records", Cause: err}
	}
	defer rows.Close()

	var records []*types.JobRecord
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, &LoadError{Message: "failed to scan job record", Cause: err}
		}
		rec, err := types.NewJobRecord(id, raw)
		if err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("failed to decode job record %s", id), Cause: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Message: "error iterating job records", Cause: err}
	}

	return records, nil
}

// SaveAll copies the current rows of records into job_record_backups and
// overwrites them, all in one transaction.
func (s *PostgresStore) SaveAll(ctx context.Context, records []*types.JobRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &SaveError{Message: "failed to begin transaction", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	backupID := uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO job_record_backups (backup_id, record_id, content)
		 SELECT $1, id, content FROM job_records WHERE id = ANY($2)`,
		backupID, ids,
	); err != nil {
		return &SaveError{Message: "failed to back up job records", Cause: err}
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		doc, err := rec.Content()
		if err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to marshal job record %s", rec.ID), Cause: err}
		}
		batch.Queue(
			`UPDATE job_records SET content = $2, updated_at = NOW() WHERE id = $1`,
			rec.ID, doc,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for _, rec := range records {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return &SaveError{Message: fmt.Sprintf("failed to update job record %s", rec.ID), Cause: err}
		}
	}
	if err := br.Close(); err != nil {
		return &SaveError{Message: "failed to close batch", Cause: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &SaveError{Message: "failed to commit transaction", Cause: err}
	}

	s.LastBackupID = backupID
	return nil
}

// ImportAll upserts records keyed by id. Records without an id get a new UUID.
func (s *PostgresStore) ImportAll(ctx context.Context, records []*types.JobRecord) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		doc, err := rec.Content()
		if err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to marshal job record %s", rec.ID), Cause: err}
		}
		batch.Queue(
			`INSERT INTO job_records (id, content) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET content = $2, updated_at = NOW()`,
			rec.ID, doc,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	for _, rec := range records {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return &SaveError{Message: fmt.Sprintf("failed to import job record %s", rec.ID), Cause: err}
		}
	}
	if err := br.Close(); err != nil {
		return &SaveError{Message: "failed to close import batch", Cause: err}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/job-summarizer/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS job_records (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS job_record_backups (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	backup_id    TEXT NOT NULL,
	record_id    TEXT NOT NULL,
	content      TEXT NOT NULL,
	backed_up_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore keeps records in a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB

	// LastBackupID identifies the rows copied by the most recent SaveAll.
	LastBackupID string
}

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("failed to create directory for %s", dbPath), Cause: err}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &LoadError{Message: "failed to open sqlite database", Cause: err}
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, &LoadError{Message: "failed to create tables", Cause: err}
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadAll returns every record ordered by id.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]*types.JobRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content FROM job_records ORDER BY id`)
	if err != nil {
		return nil, &LoadError{Message: "failed to query job records", Cause: err}
	}
	defer rows.Close()

	var records []*types.JobRecord
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, &LoadError{Message: "failed to scan job record", Cause: err}
		}
		rec, err := types.NewJobRecord(id, []byte(raw))
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

// SaveAll backs up and overwrites the rows of records in one transaction.
func (s *SQLiteStore) SaveAll(ctx context.Context, records []*types.JobRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &SaveError{Message: "failed to begin transaction", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	backup, err := tx.PrepareContext(ctx, `
		INSERT INTO job_record_backups (backup_id, record_id, content)
		SELECT ?, id, content FROM job_records WHERE id = ?
	`)
	if err != nil {
		return &SaveError{Message: "failed to prepare backup statement", Cause: err}
	}
	defer backup.Close()

	update, err := tx.PrepareContext(ctx, `
		UPDATE job_records SET content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`)
	if err != nil {
		return &SaveError{Message: "failed to prepare update statement", Cause: err}
	}
	defer update.Close()

	backupID := uuid.NewString()
	for _, rec := range records {
		doc, err := rec.Content()
		if err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to marshal job record %s", rec.ID), Cause: err}
		}
		if _, err := backup.ExecContext(ctx, backupID, rec.ID); err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to back up job record %s", rec.ID), Cause: err}
		}
		if _, err := update.ExecContext(ctx, string(doc), rec.ID); err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to update job record %s", rec.ID), Cause: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &SaveError{Message: "failed to commit transaction", Cause: err}
	}

	s.LastBackupID = backupID
	return nil
}

// ImportAll upserts records keyed by id. Records without an id get a new UUID.
func (s *SQLiteStore) ImportAll(ctx context.Context, records []*types.JobRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &SaveError{Message: "failed to begin transaction", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO job_records (id, content) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET content = excluded.content, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return &SaveError{Message: "failed to prepare import statement", Cause: err}
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		doc, err := rec.Content()
		if err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to marshal job record %s", rec.ID), Cause: err}
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, string(doc)); err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to import job record %s", rec.ID), Cause: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &SaveError{Message: "failed to commit import", Cause: err}
	}
	return nil
}

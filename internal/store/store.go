// Package store provides bulk access to job record collections.
package store

import (
	"context"

	"github.com/jonathan/job-summarizer/internal/config"
	"github.com/jonathan/job-summarizer/internal/types"
)

// RecordStore reads and writes a whole record collection. Implementations
// keep a backup of the prior state before SaveAll overwrites it.
type RecordStore interface {
	LoadAll(ctx context.Context) ([]*types.JobRecord, error)
	SaveAll(ctx context.Context, records []*types.JobRecord) error
	Close() error
}

// Importer is implemented by stores that can take in records they do not
// hold yet.
type Importer interface {
	ImportAll(ctx context.Context, records []*types.JobRecord) error
}

// Open returns the store selected by cfg: PostgreSQL, SQLite or a records file.
func Open(ctx context.Context, cfg config.Config) (RecordStore, error) {
	switch {
	case cfg.DatabaseURL != "":
		return ConnectPostgres(ctx, cfg.DatabaseURL)
	case cfg.SQLitePath != "":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case cfg.Input != "":
		return NewJSONFileStore(cfg.Input), nil
	default:
		return nil, &LoadError{Message: "no record store configured (set --input, --sqlite or --db-url)"}
	}
}

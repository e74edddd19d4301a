package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

// Store provides transactional access to the four queue collections:
// jobs, dlq, config and workers.
//
// A single Store handle is safe for concurrent use by workers, the
// HTTP API and the CLI. All multi-mutation operations run inside a
// database transaction; the conditional single-row updates used by
// the claim protocol rely on rows-affected counts rather than table
// locks.
type Store struct {
	db *bun.DB
}

// Open opens (creating if necessary) the queue database at path and
// initializes the schema and default configuration.
//
// The database is opened in WAL journal mode with a busy timeout so
// that readers and writers from multiple processes do not block each
// other except briefly during commit. The underlying pool is limited
// to a single connection, which modernc SQLite requires for correct
// concurrent writes. Pass ":memory:" for an ephemeral database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open queue database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // important for sqlite
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	st := &Store{db: db}
	if err := st.init(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init queue database: %w", err)
	}
	return st, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

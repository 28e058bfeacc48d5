package graphdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

// InMemory opens a store that lives only as long as the database.
const InMemory = ":memory:"

const storeFileName = "graph.db"

// store is the sqlite-backed record store behind a Database.
type store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex

	opened     atomic.Int64
	committed  atomic.Int64
	rolledBack atomic.Int64
	open       atomic.Int64
	peak       atomic.Int64
	lastTxID   atomic.Int64
}

func openStore(ctx context.Context, storeDir string, pageCacheBytes int64) (*store, error) {
	dsn := InMemory
	path := ""
	if storeDir != InMemory {
		if err := os.MkdirAll(storeDir, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		path = filepath.Join(storeDir, storeFileName)
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps the in-memory store shared and the
	// pragmas below in effect.
	db.SetMaxOpenConns(1)

	s := &store{db: db, path: path}
	if err := s.initialize(ctx, pageCacheBytes); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *store) initialize(ctx context.Context, pageCacheBytes int64) error {
	// Negative cache_size is a budget in KiB.
	pragmas := fmt.Sprintf("PRAGMA cache_size = -%d; PRAGMA foreign_keys = ON;", pageCacheBytes/1024)
	if s.path != "" {
		pragmas += " PRAGMA journal_mode = WAL;"
	}
	if _, err := s.db.ExecContext(ctx, pragmas); err != nil {
		return fmt.Errorf("apply pragmas: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT
	);
	CREATE TABLE IF NOT EXISTS node_labels (
		node_id INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		label TEXT NOT NULL,
		PRIMARY KEY (node_id, label)
	);
	CREATE TABLE IF NOT EXISTS relationship_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS relationships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_node INTEGER NOT NULL REFERENCES nodes(id),
		end_node INTEGER NOT NULL REFERENCES nodes(id),
		type_id INTEGER NOT NULL REFERENCES relationship_types(id)
	);
	CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_kind TEXT NOT NULL,
		owner_id INTEGER NOT NULL,
		key TEXT NOT NULL,
		value BLOB
	);
	CREATE TABLE IF NOT EXISTS store_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rel_start ON relationships(start_node);
	CREATE INDEX IF NOT EXISTS idx_rel_end ON relationships(end_node);
	CREATE INDEX IF NOT EXISTS idx_prop_owner ON properties(owner_kind, owner_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// tx runs fn in a transaction and keeps the transaction counters current.
func (s *store) tx(ctx context.Context, fn func(*sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opened.Add(1)
	if n := s.open.Add(1); n > s.peak.Load() {
		s.peak.Store(n)
	}
	defer s.open.Add(-1)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.rolledBack.Add(1)
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback() // Best effort; the original error wins
		s.rolledBack.Add(1)
		return err
	}
	if err := tx.Commit(); err != nil {
		s.rolledBack.Add(1)
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.committed.Add(1)
	s.lastTxID.Add(1)
	return nil
}

// meta returns a store_meta value, writing def first when the key is absent.
func (s *store) meta(ctx context.Context, key, def string) (string, error) {
	var value string
	err := s.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO store_meta (key, value) VALUES (?, ?)", key, def); err != nil {
			return fmt.Errorf("write store meta: %w", err)
		}
		return tx.QueryRowContext(ctx, "SELECT value FROM store_meta WHERE key = ?", key).Scan(&value)
	})
	return value, err
}

func (s *store) count(ctx context.Context, table string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	// table is always one of the package's own constants.
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Fixed record sizes used to report per-store sizes.
const (
	nodeRecordSize         = 15
	relationshipRecordSize = 34
	propertyRecordSize     = 41
)

// totalSize returns the bytes allocated by the store file.
func (s *store) totalSize(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pages, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pages); err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, fmt.Errorf("page size: %w", err)
	}
	return pages * pageSize, nil
}

// recordSize returns the bytes used by the records of one table.
func (s *store) recordSize(ctx context.Context, table string, size int64) (int64, error) {
	n, err := s.count(ctx, table)
	if err != nil {
		return 0, err
	}
	return n * size, nil
}

// walSize is the size of the write-ahead log, zero for in-memory stores.
func (s *store) walSize() int64 {
	if s.path == "" {
		return 0
	}
	info, err := os.Stat(s.path + "-wal")
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *store) checkpoint(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

func (s *store) close() error {
	return s.db.Close()
}

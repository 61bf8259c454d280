package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/veilpay/notesync/internal/config"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/migrations"
)

const (
	upsertValue = `INSERT INTO wallet_cache (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;`

	selectAll = `SELECT key, value FROM wallet_cache;`

	deleteValue = `DELETE FROM wallet_cache WHERE key = $1;`
)

// sqliteStorage layers an in-memory cache over a SQLite file. All rows are
// loaded into the cache at open, so Get never touches the database; Set and
// Remove write through.
type sqliteStorage struct {
	db  *sql.DB
	log *logger.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewSQLiteStorage opens (creating if needed) the local cache database at
// cfg.DSN, migrates its schema and loads existing rows into the cache layer.
func NewSQLiteStorage(ctx context.Context, cfg config.DB, log *logger.Logger) (Storage, error) {
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error opening database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = migrations.Migrate(conn); err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error migrating local cache schema")
		return nil, err
	}

	s := &sqliteStorage{db: conn, log: log, cache: make(map[string]string)}
	if err = s.load(ctx); err != nil {
		return nil, err
	}

	log.Debug().Str("func", "NewSQLiteStorage").Int("rows", len(s.cache)).Msg("local cache loaded")
	return s, nil
}

func (s *sqliteStorage) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, selectAll)
	if err != nil {
		return fmt.Errorf("load local cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err = rows.Scan(&k, &v); err != nil {
			return fmt.Errorf("scan local cache row: %w", err)
		}
		s.cache[k] = v
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate local cache rows: %w", err)
	}
	return nil
}

func (s *sqliteStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache[key]
	return v, ok
}

func (s *sqliteStorage) Set(key, value string) error {
	if _, err := s.db.Exec(upsertValue, key, value); err != nil {
		return fmt.Errorf("persist cache value %q: %w", key, err)
	}

	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

func (s *sqliteStorage) Remove(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache delete batch: %w", err)
	}
	for _, k := range keys {
		if _, err = tx.ExecContext(ctx, deleteValue, k); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete cache value %q: %w", k, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit cache delete batch: %w", err)
	}

	s.mu.Lock()
	for _, k := range keys {
		delete(s.cache, k)
	}
	s.mu.Unlock()
	return nil
}

// Close releases the underlying database handle.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}
	return nil
}

// Package index writes extraction results to a SQLite database.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Database is the SQLite database handle.
type Database struct {
	db   *sql.DB
	lock *indexLock
}

// ErrIndexLocked indicates another process holds the index.
var ErrIndexLocked = errors.New("index is locked by another process")

// CurrentDBVersion is the current database schema version. A database written
// with another version is deleted and recreated on Open.
const CurrentDBVersion = 1

// DB returns the underlying sql.DB for ad-hoc queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Open opens or creates the database at path. The database stays locked
// against other mtpoi processes until Close.
func Open(path string) (*Database, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	lock, err := acquireIndexLock(path + ".lock")
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		if !isSchemaCompatible(path) {
			if err := removeDatabaseFiles(path); err != nil {
				lock.Release()
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		lock.Release()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db, lock: lock}
	if err := d.initialize(true); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(false); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database and releases the lock.
func (d *Database) Close() error {
	err := d.db.Close()
	if relErr := d.lock.Release(); err == nil {
		err = relErr
	}
	return err
}

type indexLock struct {
	file *os.File
}

func acquireIndexLock(lockPath string) (*indexLock, error) {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open index lock: %w", err)
	}

	held, err := tryLock(f)
	if err != nil || !held {
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire index lock: %w", err)
		}
		return nil, ErrIndexLocked
	}
	return &indexLock{file: f}, nil
}

func (l *indexLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlock(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

func removeDatabaseFiles(dbPath string) error {
	paths := []string{dbPath, dbPath + "-wal", dbPath + "-shm"}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// isSchemaCompatible reports whether the database at path carries the
// current schema version.
func isSchemaCompatible(path string) bool {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return false
	}
	defer db.Close()

	var version string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&version); err != nil {
		return false
	}
	return version == strconv.Itoa(CurrentDBVersion)
}

// initialize creates the database schema.
func (d *Database) initialize(wal bool) error {
	if wal {
		if _, err := d.db.Exec(`PRAGMA journal_mode = WAL; PRAGMA synchronous = NORMAL;`); err != nil {
			return fmt.Errorf("failed to configure database: %w", err)
		}
	}

	schema := `
		PRAGMA temp_store = MEMORY;
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS areas (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			flag TEXT NOT NULL,
			vertex_count INTEGER NOT NULL,
			min_x REAL, min_y REAL, max_x REAL, max_y REAL,
			vertices TEXT NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS delivery_points (
			key TEXT PRIMARY KEY,
			guid TEXT,
			type TEXT NOT NULL,
			name TEXT,
			x REAL, y REAL, z REAL,
			location TEXT,
			max_storage INTEGER,
			max_delivery_distance REAL,
			max_delivery_receive_distance REAL,
			production_count INTEGER NOT NULL DEFAULT 0,
			drop_points TEXT NOT NULL DEFAULT '[]'
		);

		-- Demand and supply capacities, one row per cargo.
		CREATE TABLE IF NOT EXISTS delivery_point_cargo (
			point_key TEXT NOT NULL REFERENCES delivery_points(key) ON DELETE CASCADE,
			kind TEXT NOT NULL,          -- 'demand' or 'supply'
			cargo TEXT NOT NULL,
			max_storage INTEGER NOT NULL,
			payment_multiplier REAL,     -- demand only
			PRIMARY KEY (point_key, kind, cargo)
		);

		CREATE TABLE IF NOT EXISTS bus_stops (
			key TEXT PRIMARY KEY,
			guid TEXT,
			type TEXT NOT NULL,
			name TEXT,
			x REAL, y REAL, z REAL,
			location TEXT,
			terminal INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS ev_chargers (
			key TEXT PRIMARY KEY,
			x REAL, y REAL, z REAL,
			location TEXT
		);

		CREATE TABLE IF NOT EXISTS houses (
			key TEXT PRIMARY KEY,
			name TEXT,
			x REAL, y REAL, z REAL,
			location TEXT,
			size_x REAL NOT NULL,
			size_y REAL NOT NULL,
			cost INTEGER NOT NULL DEFAULT 0
		);

		-- Area membership for every point kind.
		CREATE TABLE IF NOT EXISTS point_areas (
			point_key TEXT NOT NULL,
			point_table TEXT NOT NULL,
			area_key TEXT NOT NULL,
			PRIMARY KEY (point_table, point_key, area_key)
		);

		CREATE INDEX IF NOT EXISTS idx_point_areas_area ON point_areas(area_key);
		CREATE INDEX IF NOT EXISTS idx_delivery_points_type ON delivery_points(type);
		CREATE INDEX IF NOT EXISTS idx_delivery_point_cargo_cargo ON delivery_point_cargo(cargo);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

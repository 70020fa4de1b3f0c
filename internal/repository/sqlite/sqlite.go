// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a
// single file. No separate server to install or manage, ":memory:" for
// tests, and real transactions — which the swap-accept write depends on.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation
// of the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// Side-effect-only import — the package's init() registers itself
	// with database/sql as a driver named "sqlite". After this import,
	// sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and owns the per-entity stores.
// Users, Items, and Swaps share the one pool, which is what lets the
// cascading deletes and the swap accept run as single transactions.
type DB struct {
	conn *sql.DB

	Users *UserStore // implements repository.UserRepository
	Items *ItemStore // implements repository.ItemRepository
	Swaps *SwapStore // implements repository.SwapRepository
}

// New creates a SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/rewear.db"  → file-based database (persistent)
//   - ":memory:"        → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backwards
	// compatibility; items and swaps reference users, so turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:  conn,
		Users: &UserStore{conn: conn},
		Items: &ItemStore{conn: conn},
		Swaps: &SwapStore{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to
// New() so the WAL is flushed and the file lock released on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			fullname      TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			phone_number  TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			profile_photo TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'user',
			github_id     INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_github_id ON users(github_id);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// images and tags are JSON-encoded arrays. SQLite has no native
	// array type; JSON in a TEXT column keeps ordering and round-trips
	// cleanly through encoding/json.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL,
			images        TEXT NOT NULL DEFAULT '[]',
			category      TEXT NOT NULL,
			type          TEXT NOT NULL,
			size          TEXT NOT NULL,
			condition     TEXT NOT NULL,
			tags          TEXT NOT NULL DEFAULT '[]',
			status        TEXT NOT NULL DEFAULT 'available',
			uploader_id   TEXT NOT NULL REFERENCES users(id),
			swap_with_id  TEXT NOT NULL DEFAULT '',
			points_value  INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_items_uploader_id ON items(uploader_id);
		CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
	`)
	if err != nil {
		return fmt.Errorf("creating items table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS swaps (
			id           TEXT PRIMARY KEY,
			item_id      TEXT NOT NULL REFERENCES items(id),
			requester_id TEXT NOT NULL REFERENCES users(id),
			owner_id     TEXT NOT NULL REFERENCES users(id),
			status       TEXT NOT NULL DEFAULT 'pending',
			message      TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_swaps_item_id ON swaps(item_id);
		CREATE INDEX IF NOT EXISTS idx_swaps_requester_id ON swaps(requester_id);
		CREATE INDEX IF NOT EXISTS idx_swaps_owner_id ON swaps(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating swaps table: %w", err)
	}

	return nil
}

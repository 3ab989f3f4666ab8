// Package sqlite implements repository.DiaryRepository on SQLite.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite. No CGo, so no C toolchain is needed
// to build or cross-compile the server.
//
// WHEN IS THIS STORE USED?
// The in-memory store (package memory) is the default. Set STORE_DRIVER=sqlite
// to use this one instead. The DSN defaults to ":memory:", which keeps the
// same "lost on restart" lifetime while exercising real SQL; point SQLITE_DSN
// at a file to keep entries across restarts.
//
// DATABASE/SQL REMINDER:
//   - sql.DB   is a connection pool, not one connection
//   - sql.Rows must always be closed
//   - ? placeholders are filled by the driver, never by fmt.Sprintf
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// Nothing from the package is referenced by name. Its init() registers a
	// driver called "sqlite" with database/sql, which is what sql.Open below
	// looks up.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB pool and implements repository.DiaryRepository.
//
// Wrapping gives the repository methods a receiver and keeps *sql.DB out of
// every other package; callers only ever see the interface.
type DB struct {
	conn *sql.DB
}

// New opens the database at dsn and runs migrations.
//
// dsn examples:
//   - "data/diary.db" → file-based database (persistent)
//   - ":memory:"      → in-memory database (lost on close)
//
// sql.Open only builds the pool manager. Ping forces the first real
// connection so a bad path or permission problem fails here, at start-up,
// instead of on the first request.
func New(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// ONE CONNECTION:
	// Every connection to ":memory:" gets its own private database, so the
	// pool must never open a second one. For file databases this also
	// serialises writers, which is what SQLite wants anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers continue while a write is in progress. It is a no-op
	// for in-memory databases.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. The server registers it as a closer and
// calls it after graceful shutdown; for ":memory:" this drops every entry.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent,
// so it runs on every start against new and existing files alike. A second
// schema version would call for a tracked migration tool; one table does not.
//
// SCHEMA NOTES:
//   - seq is the insertion order. Listing sorts newest first and breaks
//     timestamp ties by insertion order, so seq must survive restarts.
//   - AUTOINCREMENT (not just INTEGER PRIMARY KEY) stops SQLite reusing the
//     seq of a deleted row.
//   - Timestamps are Unix nanoseconds. Integer columns round-trip exactly and
//     need no driver-specific time parsing.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS diaries (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT    NOT NULL UNIQUE,
			text       TEXT    NOT NULL,
			image_url  TEXT    NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_diaries_created_at ON diaries(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating diaries table: %w", err)
	}
	return nil
}

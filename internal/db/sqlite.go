package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteSchema mirrors the Postgres table `users(id SERIAL PRIMARY KEY, name TEXT)`.
// AUTOINCREMENT keeps ids from being reused after a delete.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT
)`

// OpenSQLite opens (or creates) a SQLite database and ensures the users table exists.
// Use "file:<name>?mode=memory&cache=shared" for an in-memory store.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "users.db"
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A single connection serializes writers; SQLite allows only one at a time anyway.
	d.SetMaxOpenConns(1)

	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(sqliteSchema); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("create users table: %w", err)
	}
	return d, nil
}

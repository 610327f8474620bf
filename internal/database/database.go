// Package database opens the libSQL file that holds quiz submissions,
// challenge tokens and admin accounts.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Memory opens a private in-memory database instead of a file.
const Memory = ":memory:"

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// Open connects to the database at path and applies the connection pragmas.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: gets its own empty database.
	if path == Memory {
		db.SetMaxOpenConns(1)
	}

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// applyPragmas runs each pragma as a query and drains it. libSQL rejects
// Exec for pragmas that return a row.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	for _, p := range pragmas {
		rows, err := db.QueryContext(ctx, p)
		if err != nil {
			return fmt.Errorf("executing %s: %w", p, err)
		}
		rows.Close()
	}
	return nil
}

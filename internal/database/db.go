package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

type DB struct {
	*sql.DB
}

// Open opens or creates the database at the given path
func Open(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{db}, nil
}

// Init creates tables if they don't exist
func (db *DB) Init() error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// EnsureCategoryColumn adds the category column to transactions if it is
// missing. The table predates categorization, so existing databases need the
// column added in place. Safe to run on every startup.
func (db *DB) EnsureCategoryColumn() error {
	rows, err := db.Query(`PRAGMA table_info(transactions)`)
	if err != nil {
		return fmt.Errorf("read transactions schema: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scan transactions schema: %w", err)
		}
		if name == "category" {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read transactions schema: %w", err)
	}

	if !found {
		if _, err := db.Exec(`ALTER TABLE transactions ADD COLUMN category TEXT`); err != nil {
			return fmt.Errorf("add category column: %w", err)
		}
	}
	return nil
}

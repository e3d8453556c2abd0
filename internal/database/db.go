package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sql.DB connection and provides access to stores
type DB struct {
	*sql.DB
	Orders *OrderStore
	Labels *LabelStore
}

// Open opens a database connection and initializes stores
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Enable foreign key constraints in SQLite
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	database := &DB{
		DB:     db,
		Orders: NewOrderStore(db),
		Labels: NewLabelStore(db),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

// migrate creates the database schema
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id TEXT NOT NULL UNIQUE,
		ship_to TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'new_order',
		tracking_id TEXT NOT NULL DEFAULT '',
		tracking_vendor TEXT NOT NULL DEFAULT '',
		tracking_status TEXT NOT NULL DEFAULT '',
		last_refresh_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS label_matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_number INTEGER NOT NULL,
		shipping_address TEXT NOT NULL DEFAULT '',
		order_ref INTEGER,
		confidence_score REAL NOT NULL DEFAULT 0,
		matched BOOLEAN NOT NULL DEFAULT FALSE,
		label_type TEXT NOT NULL,
		source_file TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (order_ref) REFERENCES orders(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_label_matches_order ON label_matches(order_ref);
	CREATE INDEX IF NOT EXISTS idx_label_matches_matched ON label_matches(matched);
	CREATE INDEX IF NOT EXISTS idx_label_matches_source ON label_matches(source_file);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsHealthy checks if the database connection is healthy
func (db *DB) IsHealthy() error {
	return db.Ping()
}

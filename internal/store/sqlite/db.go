package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate runs an idempotent set of CREATE TABLE / CREATE INDEX statements.
// The UNIQUE(listing_uuid, buyer_email) constraint closes the chat-initiation
// lookup-then-insert race at the storage level.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			uuid VARCHAR(36) UNIQUE NOT NULL,
			full_name VARCHAR(100),
			email VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS listings (
			id INTEGER PRIMARY KEY,
			uuid VARCHAR(36) UNIQUE NOT NULL,
			owner_email VARCHAR(100) NOT NULL REFERENCES users(email),
			title VARCHAR(200) NOT NULL,
			quantity REAL NOT NULL,
			quantity_unit VARCHAR(50),
			harvest_date VARCHAR(50),
			location VARCHAR(200),
			image_urls TEXT NOT NULL,
			ai_grade VARCHAR(1) NOT NULL,
			ai_price_range VARCHAR(100) NOT NULL,
			ai_analysis TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS chat_rooms (
			id INTEGER PRIMARY KEY,
			uuid VARCHAR(36) UNIQUE NOT NULL,
			listing_uuid VARCHAR(36) NOT NULL REFERENCES listings(uuid),
			listing_title VARCHAR(200),
			farmer_email VARCHAR(100) NOT NULL,
			buyer_email VARCHAR(100) NOT NULL,
			UNIQUE (listing_uuid, buyer_email)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			uuid VARCHAR(36) UNIQUE NOT NULL,
			chat_room_uuid VARCHAR(36) NOT NULL REFERENCES chat_rooms(uuid),
			sender_email VARCHAR(100) NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_uuid ON listings(uuid);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_rooms_farmer ON chat_rooms(farmer_email);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_rooms_buyer ON chat_rooms(buyer_email);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room_created ON messages(chat_room_uuid, created_at ASC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

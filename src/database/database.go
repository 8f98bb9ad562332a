package database

import (
	"database/sql"
	"fmt"

	"github.com/username/finwise/backend/src/logger"
	_ "modernc.org/sqlite"
)

// Connect opens the SQLite database at the given path and ensures the
// schema exists. The returned handle is passed explicitly to stores and
// handlers; there is no package-level singleton.
func Connect(databasePath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", databasePath, err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		auth_provider TEXT DEFAULT 'local',
		is_email_verified BOOLEAN DEFAULT FALSE,
		email_verification_token TEXT,
		email_verification_token_expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		description TEXT NOT NULL,
		amount REAL NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'other',
		date TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT 'manual',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date);

	CREATE TABLE IF NOT EXISTS cash_balance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL UNIQUE,
		amount REAL NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);
	`

	if _, err := db.Exec(createTableStatement); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	migrateExpenseTable(db)
	return nil
}

// migrateExpenseTable adds columns introduced after the first release to
// databases created with an older schema.
func migrateExpenseTable(db *sql.DB) {
	rows, err := db.Query("PRAGMA table_info(expenses)")
	if err != nil {
		logger.L.Error("Error querying table schema for 'expenses'", "error", err)
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			logger.L.Error("Error scanning column info for 'expenses'", "error", err)
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		logger.L.Error("Error iterating over column info for 'expenses'", "error", err)
		return
	}

	if _, ok := columnExists["source"]; !ok {
		if _, err := db.Exec("ALTER TABLE expenses ADD COLUMN source TEXT NOT NULL DEFAULT 'manual'"); err != nil {
			logger.L.Error("Error adding 'source' column to 'expenses' table", "error", err)
		} else {
			logger.L.Info("Added 'source' column to 'expenses' table")
		}
	}

	if _, ok := columnExists["category"]; !ok {
		if _, err := db.Exec("ALTER TABLE expenses ADD COLUMN category TEXT NOT NULL DEFAULT 'other'"); err != nil {
			logger.L.Error("Error adding 'category' column to 'expenses' table", "error", err)
		} else {
			logger.L.Info("Added 'category' column to 'expenses' table")
		}
	}
}

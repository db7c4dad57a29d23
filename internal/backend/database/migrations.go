package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

type migration struct {
	version     int
	description string
	apply       func(tx *sql.Tx) error
}

// migrations are applied in order, each in its own transaction, and recorded
// in schema_migrations. Steps must stay safe to run against a database that
// already has some of their effects.
var migrations = []migration{
	{
		version:     1,
		description: "core tables",
		apply: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS admins (
					id INTEGER PRIMARY KEY,
					username TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS products (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					price_cents INTEGER NOT NULL DEFAULT 0,
					image TEXT,
					active INTEGER NOT NULL DEFAULT 1
				)`,
				`CREATE TABLE IF NOT EXISTS hero_banners (
					id INTEGER PRIMARY KEY,
					title TEXT NOT NULL DEFAULT '',
					subtitle TEXT NOT NULL DEFAULT '',
					caption TEXT NOT NULL DEFAULT '',
					image TEXT
				)`,
				`CREATE TABLE IF NOT EXISTS contact (
					id INTEGER PRIMARY KEY,
					whatsapp TEXT NOT NULL DEFAULT ''
				)`,
			)
		},
	},
	{
		version:     2,
		description: "categories and image variants",
		apply: func(tx *sql.Tx) error {
			if err := execAll(tx, `CREATE TABLE IF NOT EXISTS categories (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL
			)`); err != nil {
				return err
			}
			if err := addColumnIfMissing(tx, "products", "category_id", "INTEGER REFERENCES categories(id) ON DELETE SET NULL"); err != nil {
				return err
			}
			if err := addColumnIfMissing(tx, "products", "image_variants", "TEXT"); err != nil {
				return err
			}
			return addColumnIfMissing(tx, "hero_banners", "image_variants", "TEXT")
		},
	},
	{
		version:     3,
		description: "banner display flags, contact channels and faq",
		apply: func(tx *sql.Tx) error {
			columns := []struct{ table, column, ddl string }{
				{"hero_banners", "show_overlay", "INTEGER NOT NULL DEFAULT 1"},
				{"hero_banners", "show_button", "INTEGER NOT NULL DEFAULT 1"},
				{"contact", "instagram", "TEXT NOT NULL DEFAULT ''"},
				{"contact", "address", "TEXT NOT NULL DEFAULT ''"},
			}
			for _, c := range columns {
				if err := addColumnIfMissing(tx, c.table, c.column, c.ddl); err != nil {
					return err
				}
			}
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS faq (
					id INTEGER PRIMARY KEY,
					question TEXT NOT NULL,
					answer TEXT NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_products_active_category ON products(active, category_id)`,
			)
		},
	},
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
		slog.Info("applied schema migration", "version", m.version, "description", m.description)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := m.apply(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func execAll(tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// hasColumn inspects PRAGMA table_info instead of relying on ALTER TABLE failing.
func hasColumn(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func addColumnIfMissing(tx *sql.Tx, table, column, ddl string) error {
	exists, err := hasColumn(tx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl)); err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}
	return nil
}

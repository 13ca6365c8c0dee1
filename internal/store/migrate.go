package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"golang.org/x/mod/semver"
)

// migration is one schema step. Steps are applied in semver order and
// recorded in schema_migrations so each runs exactly once.
type migration struct {
	Version    string
	Statements []string
}

var migrations = []migration{
	{
		Version: "v1.0.0",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_name TEXT NOT NULL,
				role TEXT NOT NULL,
				seniority TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS sessions_user_name ON sessions (user_name)`,
			`CREATE TABLE IF NOT EXISTS responses (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id INTEGER NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
				question TEXT NOT NULL,
				category TEXT NOT NULL,
				answer TEXT NOT NULL,
				clarity REAL NOT NULL,
				confidence REAL NOT NULL,
				content_score REAL NOT NULL,
				overall REAL NOT NULL,
				strengths TEXT NOT NULL DEFAULT '[]',
				weaknesses TEXT NOT NULL DEFAULT '[]',
				improved_answer TEXT NOT NULL,
				tips TEXT NOT NULL DEFAULT '[]',
				source TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS responses_session_id ON responses (session_id)`,
			`CREATE TABLE IF NOT EXISTS achievements (
				user_id TEXT NOT NULL,
				badge_id TEXT NOT NULL,
				earned_at TEXT NOT NULL,
				UNIQUE (user_id, badge_id)
			)`,
		},
	},
	{
		Version: "v1.1.0",
		Statements: []string{
			`ALTER TABLE sessions ADD COLUMN interview_type TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE responses ADD COLUMN detailed_feedback TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE responses ADD COLUMN rules_version TEXT NOT NULL DEFAULT ''`,
		},
	},
	{
		Version: "v1.2.0",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS llm_requests (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sequence INTEGER NOT NULL UNIQUE,
				request_id TEXT NOT NULL DEFAULT '',
				provider TEXT NOT NULL,
				model TEXT NOT NULL,
				purpose TEXT NOT NULL,
				input_tokens INTEGER NOT NULL DEFAULT 0,
				output_tokens INTEGER NOT NULL DEFAULT 0,
				latency_ms INTEGER NOT NULL DEFAULT 0,
				success INTEGER NOT NULL,
				error_kind TEXT NOT NULL DEFAULT '',
				error_message TEXT NOT NULL DEFAULT '',
				request_body TEXT NOT NULL DEFAULT '',
				response_body TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,
		},
	},
	{
		Version: "v1.3.0",
		Statements: []string{
			`ALTER TABLE responses ADD COLUMN soft_skills TEXT NOT NULL DEFAULT '[]'`,
		},
	},
}

// SchemaVersion returns the newest migration version known to this build.
func SchemaVersion() string {
	return sortedMigrations()[len(migrations)-1].Version
}

func sortedMigrations() []migration {
	sorted := make([]migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return semver.Compare(sorted[i].Version, sorted[j].Version) < 0
	})
	return sorted
}

// migrate applies every migration newer than the recorded ones.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range sortedMigrations() {
		if !semver.IsValid(m.Version) {
			return fmt.Errorf("invalid migration version %q", m.Version)
		}
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("apply %s: %w", m.Version, err)
		}
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		m.Version, formatTime(now()),
	); err != nil {
		return err
	}
	return tx.Commit()
}

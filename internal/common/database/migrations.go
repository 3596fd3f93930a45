// internal/common/database/migrations.go
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration is one idempotent schema step, recorded in schema_migrations by name.
type Migration struct {
	Name string
	Up   string
}

// Migrations is the ordered schema history. Append only.
var Migrations = []Migration{
	{
		Name: "001_create_profiles",
		Up: `CREATE TABLE IF NOT EXISTS profiles (
			user_id    TEXT PRIMARY KEY,
			full_name  TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			skills     TEXT[] NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "002_create_applications",
		Up: `CREATE TABLE IF NOT EXISTS applications (
			id           UUID PRIMARY KEY,
			user_id      TEXT NOT NULL,
			job_id       TEXT NOT NULL,
			employer_id  TEXT NOT NULL,
			status       TEXT NOT NULL,
			cover_letter TEXT NOT NULL DEFAULT '',
			notes        TEXT NOT NULL DEFAULT '',
			applied_date TIMESTAMPTZ NOT NULL,
			last_update  TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, job_id)
		)`,
	},
	{
		Name: "003_create_application_timeline",
		Up: `CREATE TABLE IF NOT EXISTS application_timeline (
			id             BIGSERIAL PRIMARY KEY,
			application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
			date           TIMESTAMPTZ NOT NULL,
			event          TEXT NOT NULL,
			status         TEXT NOT NULL
		)`,
	},
	{
		Name: "004_create_candidates",
		Up: `CREATE TABLE IF NOT EXISTS candidates (
			id               UUID PRIMARY KEY,
			application_id   UUID NOT NULL UNIQUE REFERENCES applications(id) ON DELETE CASCADE,
			employer_id      TEXT NOT NULL,
			job_id           TEXT NOT NULL,
			user_id          TEXT NOT NULL,
			status           TEXT NOT NULL,
			match_score      INTEGER NOT NULL,
			match_percentage INTEGER,
			rating           DOUBLE PRECISION CHECK (rating >= 0 AND rating <= 5),
			tags             TEXT[] NOT NULL DEFAULT '{}',
			employer_notes   TEXT NOT NULL DEFAULT '',
			interview_date   TIMESTAMPTZ,
			interview_link   TEXT NOT NULL DEFAULT '',
			viewed           BOOLEAN NOT NULL DEFAULT false,
			viewed_at        TIMESTAMPTZ,
			last_activity    TIMESTAMPTZ NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL
		)`,
	},
	{
		Name: "005_index_candidates_employer_job",
		Up:   `CREATE INDEX IF NOT EXISTS idx_candidates_employer_job ON candidates (employer_id, job_id)`,
	},
}

// Logger is the subset of logger.Logger used by Migrate.
type Logger interface {
	Info(msg string, fields map[string]interface{})
}

// Migrate applies every migration not yet recorded, each in its own transaction.
// It returns the names applied by this call.
func Migrate(ctx context.Context, db *sql.DB, log Logger) ([]string, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan migration name: %w", err)
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	var ran []string
	for _, m := range Migrations {
		if applied[m.Name] {
			continue
		}
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.Up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name)
			return err
		})
		if err != nil {
			return ran, fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
		log.Info("migration applied", map[string]interface{}{"name": m.Name})
		ran = append(ran, m.Name)
	}
	return ran, nil
}

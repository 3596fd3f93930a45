package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"jobmatch-workers/internal/common/database"
	"jobmatch-workers/internal/models"
)

func (s *Store) ApplicationExists(ctx context.Context, userID, jobID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID,
	).Scan(&exists)
	if err != nil {
		return false, queryFailed("duplicate check", err)
	}
	return exists, nil
}

// CreateApplicationWithCandidate inserts an application, its seeded timeline
// and its candidate in one transaction.
func (s *Store) CreateApplicationWithCandidate(ctx context.Context, app models.Application, cand models.Candidate) error {
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO applications (id, user_id, job_id, employer_id, status, cover_letter, notes, applied_date, last_update)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			app.ID, app.UserID, app.JobID, app.EmployerID, app.Status,
			app.CoverLetter, app.Notes, app.AppliedDate, app.LastUpdate,
		); err != nil {
			return err
		}
		for _, e := range app.Timeline {
			if err := insertTimeline(ctx, tx, app.ID, e); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO candidates (id, application_id, employer_id, job_id, user_id, status, match_score,
				match_percentage, tags, last_activity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			cand.ID, cand.ApplicationID, cand.EmployerID, cand.JobID, cand.UserID, cand.Status,
			cand.MatchScore, cand.MatchPercentage, pq.Array(cand.Tags), cand.LastActivity, cand.CreatedAt,
		)
		return err
	})
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: user %s already applied to job %s", ErrDuplicateApplication, app.UserID, app.JobID)
	}
	return fmt.Errorf("%w: %v", ErrDatabaseInsertFailed, err)
}

func (s *Store) GetApplication(ctx context.Context, id string) (models.Application, error) {
	var app models.Application
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, job_id, employer_id, status, cover_letter, notes, applied_date, last_update
		FROM applications WHERE id = $1`, id,
	).Scan(&app.ID, &app.UserID, &app.JobID, &app.EmployerID, &app.Status,
		&app.CoverLetter, &app.Notes, &app.AppliedDate, &app.LastUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Application{}, fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}
	if err != nil {
		return models.Application{}, byIDFailed("load application", err, ErrApplicationNotFound, id)
	}

	timeline, err := s.timeline(ctx, id)
	if err != nil {
		return models.Application{}, err
	}
	app.Timeline = timeline
	return app, nil
}

func (s *Store) timeline(ctx context.Context, applicationID string) ([]models.TimelineEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, event, status FROM application_timeline WHERE application_id = $1 ORDER BY id`,
		applicationID)
	if err != nil {
		return nil, queryFailed("load timeline", err)
	}
	defer rows.Close()

	entries := []models.TimelineEntry{}
	for rows.Next() {
		var e models.TimelineEntry
		if err := rows.Scan(&e.Date, &e.Event, &e.Status); err != nil {
			return nil, queryFailed("scan timeline", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("load timeline", err)
	}
	return entries, nil
}

// SetApplicationStatus writes a status change and appends its timeline entry.
func (s *Store) SetApplicationStatus(ctx context.Context, id string, entry models.TimelineEntry) error {
	return s.writeApplication(ctx, id, `UPDATE applications SET status = $2, last_update = $3 WHERE id = $1`,
		[]interface{}{id, entry.Status, entry.Date}, []models.TimelineEntry{entry})
}

// SaveApplicantChanges writes applicant-side edits. entries may be empty when
// only notes changed.
func (s *Store) SaveApplicantChanges(ctx context.Context, app models.Application, entries []models.TimelineEntry) error {
	return s.writeApplication(ctx, app.ID, `UPDATE applications SET status = $2, notes = $3, last_update = $4 WHERE id = $1`,
		[]interface{}{app.ID, app.Status, app.Notes, app.LastUpdate}, entries)
}

func (s *Store) writeApplication(ctx context.Context, id, update string, args []interface{}, entries []models.TimelineEntry) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, update, args...)
		if err != nil {
			return byIDFailed("update application", err, ErrApplicationNotFound, id)
		}
		if err := expectRow(res, ErrApplicationNotFound, id); err != nil {
			return err
		}
		for _, e := range entries {
			if err := insertTimeline(ctx, tx, id, e); err != nil {
				return queryFailed("append timeline", err)
			}
		}
		return nil
	})
}

// DeleteApplication removes the application with its candidate and timeline.
func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE application_id = $1`, id); err != nil {
			return byIDFailed("delete candidate", err, ErrApplicationNotFound, id)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM application_timeline WHERE application_id = $1`, id); err != nil {
			return queryFailed("delete timeline", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
		if err != nil {
			return byIDFailed("delete application", err, ErrApplicationNotFound, id)
		}
		return expectRow(res, ErrApplicationNotFound, id)
	})
}

func insertTimeline(ctx context.Context, tx *sql.Tx, applicationID string, e models.TimelineEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO application_timeline (application_id, date, event, status) VALUES ($1, $2, $3, $4)`,
		applicationID, e.Date, e.Event, e.Status)
	return err
}

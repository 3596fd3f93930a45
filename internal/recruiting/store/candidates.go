package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"jobmatch-workers/internal/models"
)

const candidateColumns = `id, application_id, employer_id, job_id, user_id, status, match_score, match_percentage,
	rating, tags, employer_notes, interview_date, interview_link, viewed, viewed_at, last_activity, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var (
		c             models.Candidate
		matchPct      sql.NullInt64
		rating        sql.NullFloat64
		tags          []string
		interviewDate sql.NullTime
		viewedAt      sql.NullTime
	)
	err := row.Scan(&c.ID, &c.ApplicationID, &c.EmployerID, &c.JobID, &c.UserID, &c.Status, &c.MatchScore,
		&matchPct, &rating, pq.Array(&tags), &c.EmployerNotes, &interviewDate, &c.InterviewLink,
		&c.Viewed, &viewedAt, &c.LastActivity, &c.CreatedAt)
	if err != nil {
		return models.Candidate{}, err
	}

	if matchPct.Valid {
		v := int(matchPct.Int64)
		c.MatchPercentage = &v
	}
	if rating.Valid {
		c.Rating = &rating.Float64
	}
	if interviewDate.Valid {
		c.InterviewDate = &interviewDate.Time
	}
	if viewedAt.Valid {
		c.ViewedAt = &viewedAt.Time
	}
	if tags == nil {
		tags = []string{}
	}
	c.Tags = tags
	return c, nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
	}
	if err != nil {
		return models.Candidate{}, byIDFailed("load candidate", err, ErrCandidateNotFound, id)
	}
	return c, nil
}

func (s *Store) ListCandidates(ctx context.Context, employerID, jobID string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates
		WHERE employer_id = $1 AND job_id = $2
		ORDER BY match_score DESC, created_at ASC`, employerID, jobID)
	if err != nil {
		return nil, queryFailed("list candidates", err)
	}
	defer rows.Close()

	out := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, queryFailed("scan candidate", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("list candidates", err)
	}
	return out, nil
}

// MarkViewed flips viewed once. It reports whether this call did the flip.
func (s *Store) MarkViewed(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE candidates SET viewed = true, viewed_at = $2 WHERE id = $1 AND viewed = false`, id, at)
	if err != nil {
		return false, byIDFailed("mark viewed", err, ErrCandidateNotFound, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, queryFailed("mark viewed", err)
	}
	return n == 1, nil
}

func (s *Store) SetCandidateStatus(ctx context.Context, id string, status models.CandidateStatus, at time.Time) error {
	return s.updateCandidate(ctx, id, `UPDATE candidates SET status = $2, last_activity = $3 WHERE id = $1`, status, at)
}

func (s *Store) SetInterview(ctx context.Context, id string, date time.Time, link string, at time.Time) error {
	return s.updateCandidate(ctx, id,
		`UPDATE candidates SET interview_date = $2, interview_link = $3, last_activity = $4 WHERE id = $1`,
		date, link, at)
}

// CandidateDetails carries optional employer edits; nil fields are unchanged.
type CandidateDetails struct {
	Rating *float64
	Notes  *string
	Tags   []string
}

func (s *Store) UpdateCandidateDetails(ctx context.Context, id string, d CandidateDetails, at time.Time) error {
	var tags interface{}
	if d.Tags != nil {
		tags = pq.Array(d.Tags)
	}
	return s.updateCandidate(ctx, id, `UPDATE candidates SET
			rating = COALESCE($2, rating),
			employer_notes = COALESCE($3, employer_notes),
			tags = COALESCE($4, tags),
			last_activity = $5
		WHERE id = $1`,
		d.Rating, d.Notes, tags, at)
}

func (s *Store) SetMatchPercentage(ctx context.Context, id string, pct int) error {
	return s.updateCandidate(ctx, id, `UPDATE candidates SET match_percentage = $2 WHERE id = $1`, pct)
}

func (s *Store) DeleteCandidate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return byIDFailed("delete candidate", err, ErrCandidateNotFound, id)
	}
	return expectRow(res, ErrCandidateNotFound, id)
}

func (s *Store) updateCandidate(ctx context.Context, id, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, append([]interface{}{id}, args...)...)
	if err != nil {
		return byIDFailed("update candidate", err, ErrCandidateNotFound, id)
	}
	return expectRow(res, ErrCandidateNotFound, id)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

var fixedNow = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

func testApplication() models.Application {
	return models.Application{
		ID:          "app-1",
		UserID:      "user-1",
		JobID:       "job-1",
		EmployerID:  "emp-1",
		Status:      models.ApplicationApplied,
		AppliedDate: fixedNow,
		LastUpdate:  fixedNow,
		Timeline: []models.TimelineEntry{
			{Date: fixedNow, Event: "Application submitted", Status: models.ApplicationApplied},
		},
	}
}

func testCandidate() models.Candidate {
	return models.Candidate{
		ID:            "cand-1",
		ApplicationID: "app-1",
		EmployerID:    "emp-1",
		JobID:         "job-1",
		UserID:        "user-1",
		Status:        models.CandidateNew,
		MatchScore:    52,
		Tags:          []string{},
		LastActivity:  fixedNow,
		CreatedAt:     fixedNow,
	}
}

var candidateRowColumns = []string{
	"id", "application_id", "employer_id", "job_id", "user_id", "status", "match_score", "match_percentage",
	"rating", "tags", "employer_notes", "interview_date", "interview_link", "viewed", "viewed_at",
	"last_activity", "created_at",
}

// ==========================
// Applications
// ==========================

func TestCreateApplicationWithCandidate_Success(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").
		WithArgs("app-1", "user-1", "job-1", "emp-1", "applied", "", "", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO application_timeline").
		WithArgs("app-1", fixedNow, "Application submitted", "applied").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO candidates").
		WithArgs("cand-1", "app-1", "emp-1", "job-1", "user-1", "new", 52, nil, "{}", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.CreateApplicationWithCandidate(context.Background(), testApplication(), testCandidate())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithCandidate_DuplicateRollsBack(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key"})
	mock.ExpectRollback()

	err := s.CreateApplicationWithCandidate(context.Background(), testApplication(), testCandidate())

	assert.ErrorIs(t, err, ErrDuplicateApplication)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithCandidate_CandidateFailureRollsBack(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO application_timeline").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO candidates").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.CreateApplicationWithCandidate(context.Background(), testApplication(), testCandidate())

	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationExists(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT EXISTS").WithArgs("user-1", "job-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := s.ApplicationExists(context.Background(), "user-1", "job-1")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetApplication_WithTimeline(t *testing.T) {
	s, mock := setupMockDB(t)
	later := fixedNow.Add(time.Hour)

	mock.ExpectQuery("FROM applications WHERE id").WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "job_id", "employer_id", "status",
			"cover_letter", "notes", "applied_date", "last_update"}).
			AddRow("app-1", "user-1", "job-1", "emp-1", "screening", "Hello", "", fixedNow, later))
	mock.ExpectQuery("FROM application_timeline").WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "event", "status"}).
			AddRow(fixedNow, "Application submitted", "applied").
			AddRow(later, "Status updated by employer", "screening"))

	app, err := s.GetApplication(context.Background(), "app-1")

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationScreening, app.Status)
	require.Len(t, app.Timeline, 2)
	assert.Equal(t, models.ApplicationApplied, app.Timeline[0].Status)
	assert.Equal(t, "Status updated by employer", app.Timeline[1].Event)
}

func TestGetApplication_NotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("FROM applications WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := s.GetApplication(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestGetApplication_MalformedIDIsNotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("FROM applications WHERE id").WithArgs("nope").WillReturnError(&pq.Error{Code: "22P02"})

	_, err := s.GetApplication(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Equal(t, apperrors.ErrCodeApplicationNotFound, apperrors.FromError(err).Code)
}

func TestApplicationWrites_MalformedIDIsNotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	entry := models.TimelineEntry{Date: fixedNow, Event: "Status updated by employer", Status: models.ApplicationInterview}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications SET status").WithArgs("nope", "interview", fixedNow).WillReturnError(&pq.Error{Code: "22P02"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM candidates WHERE application_id").WithArgs("nope").WillReturnError(&pq.Error{Code: "22P02"})
	mock.ExpectRollback()

	assert.ErrorIs(t, s.SetApplicationStatus(context.Background(), "nope", entry), ErrApplicationNotFound)
	assert.ErrorIs(t, s.DeleteApplication(context.Background(), "nope"), ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetApplicationStatus(t *testing.T) {
	s, mock := setupMockDB(t)
	entry := models.TimelineEntry{Date: fixedNow, Event: "Status updated by employer", Status: models.ApplicationInterview}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications SET status").WithArgs("app-1", "interview", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO application_timeline").WithArgs("app-1", fixedNow, entry.Event, "interview").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SetApplicationStatus(context.Background(), "app-1", entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetApplicationStatus_MissingApplication(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications SET status").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.SetApplicationStatus(context.Background(), "gone", models.TimelineEntry{Status: models.ApplicationOffer})

	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveApplicantChanges_NotesOnly(t *testing.T) {
	s, mock := setupMockDB(t)
	app := testApplication()
	app.Notes = "follow up friday"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications SET status").WithArgs("app-1", "applied", "follow up friday", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveApplicantChanges(context.Background(), app, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteApplication(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM candidates WHERE application_id").WithArgs("app-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM application_timeline").WithArgs("app-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM applications").WithArgs("app-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteApplication(context.Background(), "app-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteApplication_NotFoundRollsBack(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM candidates WHERE application_id").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM application_timeline").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM applications").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteApplication(context.Background(), "app-x")

	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Candidates
// ==========================

func TestGetCandidate_ScansNullables(t *testing.T) {
	s, mock := setupMockDB(t)
	interview := fixedNow.Add(48 * time.Hour)

	mock.ExpectQuery("FROM candidates WHERE id").WithArgs("cand-1").
		WillReturnRows(sqlmock.NewRows(candidateRowColumns).
			AddRow("cand-1", "app-1", "emp-1", "job-1", "user-1", "interview_scheduled", 52, 71,
				4.5, "{go,react}", "strong", interview, "https://meet", true, fixedNow, fixedNow, fixedNow))

	c, err := s.GetCandidate(context.Background(), "cand-1")

	require.NoError(t, err)
	assert.Equal(t, models.CandidateInterviewScheduled, c.Status)
	require.NotNil(t, c.MatchPercentage)
	assert.Equal(t, 71, *c.MatchPercentage)
	require.NotNil(t, c.Rating)
	assert.Equal(t, 4.5, *c.Rating)
	assert.Equal(t, []string{"go", "react"}, c.Tags)
	require.NotNil(t, c.InterviewDate)
	assert.True(t, c.InterviewDate.Equal(interview))
	assert.True(t, c.Viewed)
}

func TestGetCandidate_EmptyOptionals(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectQuery("FROM candidates WHERE id").WithArgs("cand-1").
		WillReturnRows(sqlmock.NewRows(candidateRowColumns).
			AddRow("cand-1", "app-1", "emp-1", "job-1", "user-1", "new", 0, nil,
				nil, "{}", "", nil, "", false, nil, fixedNow, fixedNow))

	c, err := s.GetCandidate(context.Background(), "cand-1")

	require.NoError(t, err)
	assert.Nil(t, c.MatchPercentage)
	assert.Nil(t, c.Rating)
	assert.Nil(t, c.InterviewDate)
	assert.Nil(t, c.ViewedAt)
	assert.Equal(t, []string{}, c.Tags)
}

func TestGetCandidate_NotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("FROM candidates WHERE id").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := s.GetCandidate(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestGetCandidate_MalformedIDIsNotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("FROM candidates WHERE id").WithArgs("nope").
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "nope"`})

	_, err := s.GetCandidate(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrCandidateNotFound)
	assert.NotErrorIs(t, err, ErrQueryExecutionFailed)

	std := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrCodeCandidateNotFound, std.Code)
	assert.False(t, std.Retryable)
}

func TestCandidateWrites_MalformedIDIsNotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	badID := &pq.Error{Code: "22P02"}
	mock.ExpectExec("UPDATE candidates SET status").WithArgs("nope", "reviewing", fixedNow).WillReturnError(badID)
	mock.ExpectExec("UPDATE candidates SET viewed = true").WithArgs("nope", fixedNow).WillReturnError(badID)
	mock.ExpectExec("DELETE FROM candidates WHERE id").WithArgs("nope").WillReturnError(badID)

	assert.ErrorIs(t, s.SetCandidateStatus(context.Background(), "nope", models.CandidateReviewing, fixedNow), ErrCandidateNotFound)
	_, err := s.MarkViewed(context.Background(), "nope", fixedNow)
	assert.ErrorIs(t, err, ErrCandidateNotFound)
	assert.ErrorIs(t, s.DeleteCandidate(context.Background(), "nope"), ErrCandidateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateQuery_OtherPostgresErrorStaysRetryable(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("FROM candidates WHERE id").WithArgs("cand-1").
		WillReturnError(&pq.Error{Code: "57014", Message: "canceling statement due to statement timeout"})

	_, err := s.GetCandidate(context.Background(), "cand-1")

	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
	assert.NotErrorIs(t, err, ErrCandidateNotFound)
}

func TestMarkViewed(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectExec("UPDATE candidates SET viewed = true").WithArgs("cand-1", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE candidates SET viewed = true").WithArgs("cand-1", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := s.MarkViewed(context.Background(), "cand-1", fixedNow)
	require.NoError(t, err)
	second, err := s.MarkViewed(context.Background(), "cand-1", fixedNow)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestSetCandidateStatus_NotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectExec("UPDATE candidates SET status").WithArgs("gone", "reviewing", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.SetCandidateStatus(context.Background(), "gone", models.CandidateReviewing, fixedNow)

	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestUpdateCandidateDetails_OnlyRating(t *testing.T) {
	s, mock := setupMockDB(t)
	rating := 3.5
	mock.ExpectExec("UPDATE candidates SET").WithArgs("cand-1", 3.5, nil, nil, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateCandidateDetails(context.Background(), "cand-1", CandidateDetails{Rating: &rating}, fixedNow)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCandidateDetails_Tags(t *testing.T) {
	s, mock := setupMockDB(t)
	notes := "call back"
	mock.ExpectExec("UPDATE candidates SET").WithArgs("cand-1", nil, "call back", `{"go","senior"}`, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateCandidateDetails(context.Background(), "cand-1",
		CandidateDetails{Notes: &notes, Tags: []string{"go", "senior"}}, fixedNow)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCandidates(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("WHERE employer_id = \\$1 AND job_id = \\$2").WithArgs("emp-1", "job-1").
		WillReturnRows(sqlmock.NewRows(candidateRowColumns).
			AddRow("c-2", "app-2", "emp-1", "job-1", "u-2", "new", 80, nil, nil, "{}", "", nil, "", false, nil, fixedNow, fixedNow).
			AddRow("c-1", "app-1", "emp-1", "job-1", "u-1", "reviewing", 52, nil, nil, "{}", "", nil, "", true, fixedNow, fixedNow, fixedNow))

	list, err := s.ListCandidates(context.Background(), "emp-1", "job-1")

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c-2", list[0].ID)
}

func TestDeleteCandidate(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectExec("DELETE FROM candidates WHERE id").WithArgs("cand-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM candidates WHERE id").WithArgs("cand-1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.DeleteCandidate(context.Background(), "cand-1"))
	assert.ErrorIs(t, s.DeleteCandidate(context.Background(), "cand-1"), ErrCandidateNotFound)
}

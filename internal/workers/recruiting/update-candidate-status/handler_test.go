// internal/workers/recruiting/update-candidate-status/handler_test.go
package updatecandidatestatus

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
	"jobmatch-workers/internal/recruiting/candidate"
	"jobmatch-workers/internal/recruiting/statussync"
	"jobmatch-workers/internal/recruiting/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var candidateCols = []string{
	"id", "application_id", "employer_id", "job_id", "user_id", "status", "match_score", "match_percentage",
	"rating", "tags", "employer_notes", "interview_date", "interview_link", "viewed", "viewed_at",
	"last_activity", "created_at",
}

func candidateRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows(candidateCols).
		AddRow("cand-1", "app-1", "emp-1", "job-1", "user-1", status, 52, nil, nil, "{}", "", nil, "", true, t0, t0, t0)
}

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewTestLogger(t)
	pg := store.New(db)
	svc := candidate.NewService(pg, statussync.New(pg, nil, log), log)
	return NewHandler(&Config{Timeout: 5 * time.Second}, svc, log), mock
}

func expectApplication(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery("FROM applications WHERE id").WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "job_id", "employer_id", "status", "cover_letter", "notes", "applied_date", "last_update",
		}).AddRow("app-1", "user-1", "job-1", "emp-1", status, "", "", t0, t0))
	mock.ExpectQuery("FROM application_timeline").WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "event", "status"}).AddRow(t0, "Application submitted", "applied"))
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_SyncsApplication(t *testing.T) {
	h, mock := setupHandler(t)

	mock.ExpectQuery("FROM candidates WHERE id").WithArgs("cand-1").WillReturnRows(candidateRow("new"))
	mock.ExpectExec("UPDATE candidates SET status").WithArgs("cand-1", "reviewing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectApplication(mock, "applied")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications SET status").WithArgs("app-1", "screening", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO application_timeline").
		WithArgs("app-1", sqlmock.AnyArg(), statussync.TimelineEvent, "screening").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	out, err := h.Execute(context.Background(), &Input{CandidateID: "cand-1", Status: "reviewing"})

	require.NoError(t, err)
	assert.Equal(t, "reviewing", out.Status)
	assert.Equal(t, statussync.SyncedOk, out.ApplicationSync.Kind)
	assert.Equal(t, models.ApplicationScreening, out.ApplicationSync.ApplicationStatus)
	assert.True(t, out.LastActivity.After(t0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SkipsWhenAlreadyAtTarget(t *testing.T) {
	h, mock := setupHandler(t)

	mock.ExpectQuery("FROM candidates WHERE id").WillReturnRows(candidateRow("reviewing"))
	mock.ExpectExec("UPDATE candidates SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	expectApplication(mock, "screening")

	out, err := h.Execute(context.Background(), &Input{CandidateID: "cand-1", Status: "shortlisted"})

	require.NoError(t, err)
	assert.Equal(t, statussync.SyncSkipped, out.ApplicationSync.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SyncFailureStillCompletes(t *testing.T) {
	h, mock := setupHandler(t)

	mock.ExpectQuery("FROM candidates WHERE id").WillReturnRows(candidateRow("interviewed"))
	mock.ExpectExec("UPDATE candidates SET status").WithArgs("cand-1", "rejected", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM applications WHERE id").WillReturnError(errors.New("connection refused"))

	out, err := h.Execute(context.Background(), &Input{CandidateID: "cand-1", Status: "rejected"})

	require.NoError(t, err)
	assert.Equal(t, "rejected", out.Status)
	assert.Equal(t, statussync.SyncFailed, out.ApplicationSync.Kind)
	assert.Equal(t, "application read failed", out.ApplicationSync.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		to     string
		code   apperrors.ErrorCode
	}{
		{"terminal candidate", "hired", "reviewing", apperrors.ErrCodeInvalidStatusTransition},
		{"interview without date", "shortlisted", "interview_scheduled", apperrors.ErrCodeInterviewDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := setupHandler(t)
			mock.ExpectQuery("FROM candidates WHERE id").WillReturnRows(candidateRow(tt.stored))

			_, err := h.Execute(context.Background(), &Input{CandidateID: "cand-1", Status: tt.to})

			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.FromError(err).Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	h, mock := setupHandler(t)

	_, err := h.Execute(context.Background(), &Input{CandidateID: "cand-1", Status: "Reviewing"})
	assert.Equal(t, apperrors.ErrCodeInvalidStatus, apperrors.FromError(err).Code)

	_, err = h.Execute(context.Background(), &Input{Status: "new"})
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.FromError(err).Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UnknownCandidate(t *testing.T) {
	h, mock := setupHandler(t)
	mock.ExpectQuery("FROM candidates WHERE id").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(candidateCols))

	_, err := h.Execute(context.Background(), &Input{CandidateID: "ghost", Status: "reviewing"})

	assert.ErrorIs(t, err, store.ErrCandidateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

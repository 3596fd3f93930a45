package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"jobmatch-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_AppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	rows := sqlmock.NewRows([]string{"name"})
	for _, m := range Migrations[:2] {
		rows.AddRow(m.Name)
	}
	mock.ExpectQuery("SELECT name FROM schema_migrations").WillReturnRows(rows)

	for _, m := range Migrations[2:] {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(m.Name).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
	}

	ran, err := Migrate(context.Background(), db, logger.NewTestLogger(t))
	require.NoError(t, err)

	want := make([]string, 0, len(Migrations)-2)
	for _, m := range Migrations[2:] {
		want = append(want, m.Name)
	}
	assert.Equal(t, want, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_RollsBackFailedStep(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM schema_migrations").WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS profiles").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	ran, err := Migrate(context.Background(), db, logger.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), Migrations[0].Name)
	assert.Empty(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err = WithTx(context.Background(), db, func(_ *sql.Tx) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

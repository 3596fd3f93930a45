// Package store persists applications, their timelines and candidates in
// Postgres.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrApplicationNotFound  = errors.New("APPLICATION_NOT_FOUND")
	ErrCandidateNotFound    = errors.New("CANDIDATE_NOT_FOUND")
	ErrDuplicateApplication = errors.New("DUPLICATE_APPLICATION")
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
)

const (
	uniqueViolation      = "23505"
	invalidTextRepresent = "22P02"
)

// Store is safe for concurrent use; it holds no state beyond the pool.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// expectRow maps a zero-row write to notFound.
func expectRow(res sql.Result, notFound error, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", ErrQueryExecutionFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}

// byIDFailed maps an id the UUID column rejects to notFound; any other error
// is a query failure.
func byIDFailed(op string, err, notFound error, id string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == invalidTextRepresent {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return queryFailed(op, err)
}

func queryFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrQueryExecutionFailed, op, err)
}

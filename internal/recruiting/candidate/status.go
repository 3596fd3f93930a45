package candidate

import (
	"errors"
	"fmt"

	"jobmatch-workers/internal/models"
)

var (
	ErrInvalidStatus           = errors.New("INVALID_STATUS")
	ErrInvalidStatusTransition = errors.New("INVALID_STATUS_TRANSITION")
	ErrInterviewDateRequired   = errors.New("INTERVIEW_DATE_REQUIRED")
	ErrRatingOutOfRange        = errors.New("RATING_OUT_OF_RANGE")
	ErrValidationFailed        = errors.New("VALIDATION_FAILED")
)

// ParseStatus accepts only the exact pipeline values; "Reviewing" or
// " new" are rejected rather than coerced.
func ParseStatus(s string) (models.CandidateStatus, error) {
	st, err := models.ParseCandidateStatus(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	return st, nil
}

// CheckTransition validates moving c to status. Non-terminal stages may move
// to any stage, skipping ahead included. hired and rejected only accept
// themselves.
func CheckTransition(c models.Candidate, to models.CandidateStatus) error {
	if c.Status.Terminal() && to != c.Status {
		return fmt.Errorf("%w: %s is terminal, cannot move to %s", ErrInvalidStatusTransition, c.Status, to)
	}
	if to == models.CandidateInterviewScheduled && c.InterviewDate == nil {
		return fmt.Errorf("%w: candidate %s has no interview date", ErrInterviewDateRequired, c.ID)
	}
	return nil
}

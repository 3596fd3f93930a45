// internal/workers/recruiting/update-candidate-status/models.go
package updatecandidatestatus

import (
	"time"

	"jobmatch-workers/internal/recruiting/statussync"
)

type Input struct {
	CandidateID string `json:"candidateId" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

type Output struct {
	CandidateID     string             `json:"candidateId"`
	Status          string             `json:"status"`
	LastActivity    time.Time          `json:"lastActivity"`
	ApplicationSync statussync.Outcome `json:"applicationSync"`
}

// internal/workers/recruiting/update-application/models.go
package updateapplication

import (
	"time"

	"jobmatch-workers/internal/models"
)

type Input struct {
	ApplicationID string  `json:"applicationId" validate:"required"`
	UserID        string  `json:"userId" validate:"required"`
	Notes         *string `json:"notes,omitempty"`
	Status        *string `json:"status,omitempty"`
}

type Output struct {
	ApplicationID string                 `json:"applicationId"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes"`
	LastUpdate    time.Time              `json:"lastUpdate"`
	Timeline      []models.TimelineEntry `json:"timeline"`
}

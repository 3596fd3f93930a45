// internal/workers/recruiting/update-candidate-details/models.go
package updatecandidatedetails

import "time"

type Input struct {
	CandidateID string   `json:"candidateId" validate:"required"`
	Rating      *float64 `json:"rating,omitempty"`
	Notes       *string  `json:"employerNotes,omitempty"`
	// Tags replaces the tag list when present; an empty list clears it.
	Tags []string `json:"tags,omitempty"`
	// Remove deletes the candidate instead of editing it.
	Remove bool `json:"remove,omitempty"`
}

type Output struct {
	CandidateID   string     `json:"candidateId"`
	Removed       bool       `json:"removed"`
	Rating        *float64   `json:"rating,omitempty"`
	EmployerNotes string     `json:"employerNotes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	LastActivity  *time.Time `json:"lastActivity,omitempty"`
}

// internal/workers/recruiting/get-candidate/models.go
package getcandidate

import "time"

type Input struct {
	CandidateID string `json:"candidateId" validate:"required"`
}

type Output struct {
	Candidate CandidateDTO `json:"candidate"`
}

// CandidateDTO is the employer-facing candidate view. The match fields keep
// the snake_case names the recruiting UI reads.
type CandidateDTO struct {
	ID                 string     `json:"id"`
	ApplicationID      string     `json:"applicationId"`
	JobID              string     `json:"jobId"`
	UserID             string     `json:"userId"`
	Status             string     `json:"status"`
	MatchScore         int        `json:"match_score"`
	MatchPercentages   int        `json:"match_percentages"`
	MatchSource        string     `json:"match_source"`
	StrongMatchReasons []string   `json:"strong_match_reasons"`
	AreasToImprove     []string   `json:"areas_to_improve"`
	Rating             *float64   `json:"rating,omitempty"`
	Tags               []string   `json:"tags"`
	EmployerNotes      string     `json:"employerNotes,omitempty"`
	InterviewDate      *time.Time `json:"interviewDate,omitempty"`
	InterviewLink      string     `json:"interviewLink,omitempty"`
	Viewed             bool       `json:"viewed"`
	ViewedAt           *time.Time `json:"viewedAt,omitempty"`
	LastActivity       time.Time  `json:"lastActivity"`
}

// internal/workers/recruiting/submit-application/models.go
package submitapplication

import "time"

type Input struct {
	UserID      string `json:"userId"`
	JobID       string `json:"jobId"`
	EmployerID  string `json:"employerId,omitempty"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

type Output struct {
	ApplicationID     string    `json:"applicationId"`
	ApplicationStatus string    `json:"applicationStatus"`
	CandidateID       string    `json:"candidateId"`
	CandidateStatus   string    `json:"candidateStatus"`
	MatchScore        int       `json:"matchScore"`
	AppliedDate       time.Time `json:"appliedDate"`
}

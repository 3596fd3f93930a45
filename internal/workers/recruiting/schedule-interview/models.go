// internal/workers/recruiting/schedule-interview/models.go
package scheduleinterview

import "time"

type Input struct {
	CandidateID   string `json:"candidateId" validate:"required"`
	InterviewDate string `json:"interviewDate" validate:"required"` // RFC 3339
	InterviewLink string `json:"interviewLink,omitempty" validate:"omitempty,url"`
}

type Output struct {
	CandidateID       string    `json:"candidateId"`
	Status            string    `json:"status"`
	InterviewDate     time.Time `json:"interviewDate"`
	InterviewLink     string    `json:"interviewLink,omitempty"`
	ApplicantNotified bool      `json:"applicantNotified"`
}

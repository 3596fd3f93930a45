// internal/models/candidate.go
package models

import (
	"fmt"
	"time"
)

type CandidateStatus string

const (
	CandidateNew                CandidateStatus = "new"
	CandidateReviewing          CandidateStatus = "reviewing"
	CandidateShortlisted        CandidateStatus = "shortlisted"
	CandidateInterviewScheduled CandidateStatus = "interview_scheduled"
	CandidateInterviewed        CandidateStatus = "interviewed"
	CandidateOfferExtended      CandidateStatus = "offer_extended"
	CandidateHired              CandidateStatus = "hired"
	CandidateRejected           CandidateStatus = "rejected"
)

// CandidateStatuses lists the pipeline in order.
var CandidateStatuses = []CandidateStatus{
	CandidateNew,
	CandidateReviewing,
	CandidateShortlisted,
	CandidateInterviewScheduled,
	CandidateInterviewed,
	CandidateOfferExtended,
	CandidateHired,
	CandidateRejected,
}

// ParseCandidateStatus accepts only the exact enumeration values.
func ParseCandidateStatus(s string) (CandidateStatus, error) {
	for _, st := range CandidateStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown candidate status %q", s)
}

func (s CandidateStatus) Terminal() bool {
	return s == CandidateHired || s == CandidateRejected
}

// Candidate is the employer-side projection of exactly one Application.
type Candidate struct {
	ID              string          `json:"id"`
	ApplicationID   string          `json:"applicationId"`
	EmployerID      string          `json:"employerId"`
	JobID           string          `json:"jobId"`
	UserID          string          `json:"userId"`
	Status          CandidateStatus `json:"status"`
	MatchScore      int             `json:"matchScore"`
	MatchPercentage *int            `json:"matchPercentage,omitempty"`
	Rating          *float64        `json:"rating,omitempty"`
	Tags            []string        `json:"tags"`
	EmployerNotes   string          `json:"employerNotes,omitempty"`
	InterviewDate   *time.Time      `json:"interviewDate,omitempty"`
	InterviewLink   string          `json:"interviewLink,omitempty"`
	Viewed          bool            `json:"viewed"`
	ViewedAt        *time.Time      `json:"viewedAt,omitempty"`
	LastActivity    time.Time       `json:"lastActivity"`
	CreatedAt       time.Time       `json:"createdAt"`
}

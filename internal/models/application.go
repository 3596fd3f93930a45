// internal/models/application.go
package models

import (
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	ApplicationSaved     ApplicationStatus = "saved"
	ApplicationApplied   ApplicationStatus = "applied"
	ApplicationScreening ApplicationStatus = "screening"
	ApplicationInterview ApplicationStatus = "interview"
	ApplicationOffer     ApplicationStatus = "offer"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

var applicationStatuses = map[ApplicationStatus]struct{}{
	ApplicationSaved: {}, ApplicationApplied: {}, ApplicationScreening: {}, ApplicationInterview: {},
	ApplicationOffer: {}, ApplicationRejected: {}, ApplicationWithdrawn: {},
}

// ParseApplicationStatus accepts only the exact enumeration values.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if _, ok := applicationStatuses[st]; !ok {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return st, nil
}

// TimelineEntry is one append-only history record of an application.
type TimelineEntry struct {
	Date   time.Time         `json:"date"`
	Event  string            `json:"event"`
	Status ApplicationStatus `json:"status"`
}

type Application struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	JobID       string            `json:"jobId"`
	EmployerID  string            `json:"employerId"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	AppliedDate time.Time         `json:"appliedDate"`
	LastUpdate  time.Time         `json:"lastUpdate"`
	Timeline    []TimelineEntry   `json:"timeline"`
}

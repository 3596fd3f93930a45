// internal/models/job.go
package models

import (
	"fmt"
	"strings"
	"time"
)

type JobType string

const (
	JobTypeInternship JobType = "internship"
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
)

// ParseJobType accepts the canonical values and the spellings the listing
// forms produce ("Full-time", "part time").
func ParseJobType(s string) (JobType, error) {
	key := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "internship", "intern":
		return JobTypeInternship, nil
	case "full_time", "fulltime":
		return JobTypeFullTime, nil
	case "part_time", "parttime":
		return JobTypePartTime, nil
	case "contract", "contractor", "freelance":
		return JobTypeContract, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

type JobMode string

const (
	JobModeOnsite JobMode = "onsite"
	JobModeHybrid JobMode = "hybrid"
	JobModeRemote JobMode = "remote"
)

func ParseJobMode(s string) (JobMode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "") {
	case "onsite", "on site", "office":
		return JobModeOnsite, nil
	case "hybrid":
		return JobModeHybrid, nil
	case "remote":
		return JobModeRemote, nil
	}
	return "", fmt.Errorf("unknown job mode %q", s)
}

// Job is a listing as stored in the jobs index.
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	EmployerID     string    `json:"employerId"`
	Type           JobType   `json:"type"`
	Mode           JobMode   `json:"mode"`
	RequiredSkills []string  `json:"requiredSkills"`
	Location       string    `json:"location,omitempty"`
	Status         string    `json:"status"`
	PostedAt       time.Time `json:"postedAt"`
}

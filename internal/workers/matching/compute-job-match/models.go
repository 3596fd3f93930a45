// internal/workers/matching/compute-job-match/models.go
package computejobmatch

type Input struct {
	UserID          string    `json:"userId"`
	CandidateSkills []string  `json:"candidateSkills,omitempty"`
	JobID           string    `json:"jobId"`
	Job             *JobInput `json:"job,omitempty"`
	Mode            string    `json:"mode,omitempty"`
	// CandidateID, when set, receives the percentage if it came from the oracle.
	CandidateID string `json:"candidateId,omitempty"`
}

// JobInput is an inline listing for matching jobs not yet indexed.
type JobInput struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	RequiredSkills []string `json:"requiredSkills"`
	Type           string   `json:"type" validate:"required"`
	Mode           string   `json:"mode,omitempty"`
}

type Output struct {
	MatchPercentage int      `json:"matchPercentage"`
	MatchSource     string   `json:"matchSource"`
	Strengths       []string `json:"strengths,omitempty"`
	AreasToImprove  []string `json:"areasToImprove,omitempty"`
}

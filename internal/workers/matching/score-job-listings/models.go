// internal/workers/matching/score-job-listings/models.go
package scorejoblistings

type Input struct {
	UserID          string   `json:"userId"`
	CandidateSkills []string `json:"candidateSkills,omitempty"`
	Filters         Filters  `json:"filters"`
	From            int      `json:"from" validate:"gte=0"`
	Size            int      `json:"size" validate:"gte=0,lte=100"`
}

type Filters struct {
	Types  []string `json:"types,omitempty"`
	Modes  []string `json:"modes,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

type Output struct {
	Jobs  []ScoredListing `json:"jobs"`
	Total int             `json:"total"`
}

// ScoredListing is a job-listing DTO carrying its match percentage.
type ScoredListing struct {
	JobID           string   `json:"jobId"`
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	Mode            string   `json:"mode,omitempty"`
	RequiredSkills  []string `json:"requiredSkills"`
	MatchPercentage int      `json:"matchPercentage"`
	MatchSource     string   `json:"matchSource"`
}

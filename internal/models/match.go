// internal/models/match.go
package models

type MatchSource string

const (
	SourceDeterministic MatchSource = "deterministic"
	SourceExternal      MatchSource = "external"
)

// Rationale explains a percentage; it never carries a percentage of its own.
type Rationale struct {
	Strengths      []string `json:"strengths"`
	AreasToImprove []string `json:"areasToImprove"`
}

// MatchResult is the outcome of one profile/job pairing. Percentage is always
// within [0,100].
type MatchResult struct {
	Percentage int         `json:"percentage"`
	Source     MatchSource `json:"source"`
	Rationale  *Rationale  `json:"rationale,omitempty"`
}

// Package scoring implements the rule-based profile/job match score.
package scoring

import (
	"math"

	"jobmatch-workers/internal/matching/skills"
	"jobmatch-workers/internal/models"
)

const (
	// OpenRequirementsScore is returned when a job lists no required skills.
	OpenRequirementsScore = 60

	exactWeight     = 70.0
	relatedCap      = 20.0
	internshipBonus = 10.0
	contractBonus   = 10.0
	contractRatio   = 0.6
	employmentBonus = 5.0
)

// Breakdown is the per-component view of one score.
type Breakdown struct {
	Score         int            `json:"score"`
	Exact         float64        `json:"exact"`
	Related       float64        `json:"related"`
	TypeModifier  float64        `json:"typeModifier"`
	Matched       []string       `json:"matched"`
	Missing       []string       `json:"missing"`
	RelatedGroups []skills.Group `json:"relatedGroups,omitempty"`
}

// Score returns the deterministic match score in [0,100].
func Score(candidate, required skills.Set, jobType models.JobType) int {
	return Explain(candidate, required, jobType).Score
}

// Explain computes the score and the components it is made of.
func Explain(candidate, required skills.Set, jobType models.JobType) Breakdown {
	if required.Empty() {
		return Breakdown{Score: OpenRequirementsScore, Matched: []string{}, Missing: []string{}}
	}

	matched := candidate.Intersect(required)
	missing := required.Minus(candidate)
	b := Breakdown{
		Matched: matched.Slice(),
		Missing: missing.Slice(),
	}
	if candidate.Empty() {
		return b
	}

	ratio := float64(matched.Len()) / float64(required.Len())
	b.Exact = exactWeight * ratio

	candidateGroups := candidate.ByGroup()
	requiredGroups := required.ByGroup()
	missingGroups := missing.ByGroup()

	// A group earns its bonus only while some of its required skills are still
	// unmatched, and never more than the exact points those skills would give.
	var related float64
	for _, g := range skills.Groups {
		if candidateGroups[g].Empty() || missingGroups[g].Empty() {
			continue
		}
		unearned := exactWeight * float64(missingGroups[g].Len()) / float64(required.Len())
		related += math.Min(g.Weight(), unearned)
		b.RelatedGroups = append(b.RelatedGroups, g)
	}
	b.Related = math.Min(related, relatedCap)

	b.TypeModifier = typeModifier(jobType, ratio, sharesGroup(candidateGroups, requiredGroups))

	b.Score = clamp(int(math.Round(settle(b.Exact + b.Related + b.TypeModifier))))
	return b
}

// settle drops float noise below 1e-6 so equal rational sums round alike.
func settle(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func typeModifier(jobType models.JobType, ratio float64, groupOverlap bool) float64 {
	switch jobType {
	case models.JobTypeInternship:
		if ratio > 0 || groupOverlap {
			return internshipBonus
		}
	case models.JobTypeContract:
		if ratio >= contractRatio {
			return contractBonus
		}
	case models.JobTypeFullTime, models.JobTypePartTime:
		if ratio > 0 {
			return employmentBonus
		}
	}
	return 0
}

func sharesGroup(candidate, required map[skills.Group]skills.Set) bool {
	for g := range required {
		if !candidate[g].Empty() {
			return true
		}
	}
	return false
}

// Clamp bounds any percentage to [0,100].
func Clamp(v int) int {
	return clamp(v)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Package oracle adapts large language models into an external match scorer.
// Oracles are untrusted: callers validate and bound everything they return.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobmatch-workers/internal/models"
)

var (
	ErrMalformedResponse = errors.New("ORACLE_MALFORMED_RESPONSE")
	ErrEmptyResponse     = errors.New("ORACLE_EMPTY_RESPONSE")
)

// Request is the input of one scoring call. Skill lists are normalized.
type Request struct {
	JobID           string
	JobTitle        string
	CandidateSkills []string
	RequiredSkills  []string
	JobType         models.JobType
	JobMode         models.JobMode
}

// ScoringOracle is an external, possibly stochastic scorer.
type ScoringOracle interface {
	// Percentage estimates the fit of a profile to a job on a 0-100 scale.
	Percentage(ctx context.Context, req Request) (float64, error)
	// Rationale explains a percentage that has already been decided.
	Rationale(ctx context.Context, req Request, percentage int) (models.Rationale, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// TextGenerator turns a prompt into raw model text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// LLMOracle implements ScoringOracle on top of a TextGenerator.
type LLMOracle struct {
	name string
	gen  TextGenerator
}

func NewLLMOracle(name string, gen TextGenerator) *LLMOracle {
	return &LLMOracle{name: name, gen: gen}
}

func (o *LLMOracle) Name() string {
	return o.name
}

func (o *LLMOracle) Percentage(ctx context.Context, req Request) (float64, error) {
	raw, err := o.gen.Generate(ctx, percentagePrompt(req))
	if err != nil {
		return 0, fmt.Errorf("%s percentage: %w", o.name, err)
	}
	return ParsePercentage(raw)
}

func (o *LLMOracle) Rationale(ctx context.Context, req Request, percentage int) (models.Rationale, error) {
	raw, err := o.gen.Generate(ctx, rationalePrompt(req, percentage))
	if err != nil {
		return models.Rationale{}, fmt.Errorf("%s rationale: %w", o.name, err)
	}
	return ParseRationale(raw)
}

func describeJob(req Request) string {
	var b strings.Builder
	if req.JobTitle != "" {
		fmt.Fprintf(&b, "Job title: %s\n", req.JobTitle)
	}
	fmt.Fprintf(&b, "Job type: %s\n", req.JobType)
	if req.JobMode != "" {
		fmt.Fprintf(&b, "Work mode: %s\n", req.JobMode)
	}
	fmt.Fprintf(&b, "Required skills: %s\n", joinOrNone(req.RequiredSkills))
	fmt.Fprintf(&b, "Candidate skills: %s\n", joinOrNone(req.CandidateSkills))
	return b.String()
}

func percentagePrompt(req Request) string {
	return "You score how well a candidate's skills fit a job.\n" +
		describeJob(req) +
		"Judge only the skills listed. Respond with JSON only, no prose: " +
		`{"percentage": <number between 0 and 100>}`
}

func rationalePrompt(req Request, percentage int) string {
	return "A candidate was scored " + fmt.Sprintf("%d", percentage) + "% for a job.\n" +
		describeJob(req) +
		"List the candidate's strongest reasons for this match and the areas to improve. " +
		"Do not state or imply any other percentage. Respond with JSON only: " +
		`{"strengths": ["..."], "areasToImprove": ["..."]}`
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

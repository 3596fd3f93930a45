package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/matching/oracle"
	"jobmatch-workers/internal/matching/scoring"
	"jobmatch-workers/internal/models"
)

// rationale explains an already decided percentage. The percentage is passed
// to the oracle and is never re-read from its answer.
func (o *Orchestrator) rationale(ctx context.Context, req oracle.Request, pct int, b scoring.Breakdown) models.Rationale {
	if o.oracle == nil {
		return deterministicRationale(b)
	}
	if reason := o.admit(ctx); reason != "" {
		o.recordFallback(req, reason, nil)
		return deterministicRationale(b)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.opts.OracleTimeout)
	defer cancel()

	start := time.Now()
	r, err := o.oracle.Rationale(callCtx, req, pct)
	metrics.OracleDuration.WithLabelValues(o.oracle.Name(), "rationale").Observe(time.Since(start).Seconds())
	if err != nil {
		o.recordFallback(req, failureReason(ctx, err), err)
		return deterministicRationale(b)
	}
	if len(r.Strengths) == 0 && len(r.AreasToImprove) == 0 {
		o.recordFallback(req, "malformed", nil)
		return deterministicRationale(b)
	}

	r = consistentWith(r, pct)
	if len(r.Strengths) == 0 && len(r.AreasToImprove) == 0 {
		o.recordFallback(req, "conflicting_percentage", nil)
		return deterministicRationale(b)
	}
	return r
}

var percentMention = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:%|percent\b)`)

// consistentWith drops rationale lines that state a percentage other than pct.
func consistentWith(r models.Rationale, pct int) models.Rationale {
	return models.Rationale{
		Strengths:      keepConsistent(r.Strengths, pct),
		AreasToImprove: keepConsistent(r.AreasToImprove, pct),
	}
}

func keepConsistent(lines []string, pct int) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if statesOtherPercentage(line, pct) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func statesOtherPercentage(line string, pct int) bool {
	for _, m := range percentMention.FindAllStringSubmatch(line, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v != float64(pct) {
			return true
		}
	}
	return false
}

func deterministicRationale(b scoring.Breakdown) models.Rationale {
	r := models.Rationale{Strengths: []string{}, AreasToImprove: []string{}}
	if len(b.Matched) == 0 && len(b.Missing) == 0 {
		r.Strengths = append(r.Strengths, "The job lists no specific required skills")
		return r
	}

	for _, s := range b.Matched {
		r.Strengths = append(r.Strengths, fmt.Sprintf("Has required skill %s", s))
	}
	for _, g := range b.RelatedGroups {
		r.Strengths = append(r.Strengths, fmt.Sprintf("Related %s experience", g))
	}
	for _, s := range b.Missing {
		r.AreasToImprove = append(r.AreasToImprove, fmt.Sprintf("Learn %s", s))
	}
	return r
}

// Package orchestrator combines the deterministic scorer with an optional
// external oracle. It never surfaces oracle failures to callers: every
// failure path resolves to the deterministic score.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jobmatch-workers/internal/common/config"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/matching/oracle"
	"jobmatch-workers/internal/matching/scoring"
	"jobmatch-workers/internal/matching/skills"
	"jobmatch-workers/internal/models"
)

type Mode string

const (
	ModePercentage   Mode = "percentage"
	ModeFullAnalysis Mode = "full_analysis"
)

// ParseMode defaults to ModePercentage for an empty value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "percentage":
		return ModePercentage, nil
	case "full_analysis", "full":
		return ModeFullAnalysis, nil
	}
	return "", fmt.Errorf("unknown match mode %q", s)
}

// JobView is the read-only part of a job the scorer looks at.
type JobView struct {
	ID             string
	Title          string
	RequiredSkills []string
	Type           models.JobType
	Mode           models.JobMode
}

func ViewOf(job models.Job) JobView {
	return JobView{
		ID:             job.ID,
		Title:          job.Title,
		RequiredSkills: job.RequiredSkills,
		Type:           job.Type,
		Mode:           job.Mode,
	}
}

type Options struct {
	OracleTimeout time.Duration
	CacheTTL      time.Duration
	BatchCeiling  time.Duration
	// BatchConcurrency bounds in-flight oracle calls per batch.
	BatchConcurrency int
	// SanityBand, when positive, keeps external percentages within this many
	// points of the deterministic score.
	SanityBand int
	RPS        float64
	Burst      int
}

func OptionsFromConfig(cfg config.MatchingConfig) Options {
	return Options{
		OracleTimeout:    config.GetDuration(cfg.Oracle.Timeout),
		CacheTTL:         config.GetDuration(cfg.CacheTTL),
		BatchCeiling:     config.GetDuration(cfg.BatchCeiling),
		BatchConcurrency: cfg.BatchConcurrency,
		SanityBand:       cfg.Oracle.SanityBand,
		RPS:              cfg.Oracle.RPS,
		Burst:            cfg.Oracle.Burst,
	}
}

type Orchestrator struct {
	oracle  oracle.ScoringOracle
	cache   Cache
	limiter *rate.Limiter
	opts    Options
	logger  logger.Logger
}

// New builds an orchestrator. A nil oracle disables external scoring and a
// nil cache disables the idempotence window.
func New(o oracle.ScoringOracle, cache Cache, opts Options, log logger.Logger) *Orchestrator {
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = 4 * time.Second
	}
	if opts.BatchCeiling <= 0 {
		opts.BatchCeiling = 8 * time.Second
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 8
	}

	var limiter *rate.Limiter
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	return &Orchestrator{
		oracle:  o,
		cache:   cache,
		limiter: limiter,
		opts:    opts,
		logger:  log,
	}
}

// ComputeMatch scores one profile against one job.
func (o *Orchestrator) ComputeMatch(ctx context.Context, candidateSkills []string, job JobView, mode Mode) models.MatchResult {
	candidate := skills.Normalize(candidateSkills)
	required := skills.Normalize(job.RequiredSkills)
	breakdown := scoring.Explain(candidate, required, job.Type)
	req := oracle.Request{
		JobID:           job.ID,
		JobTitle:        job.Title,
		CandidateSkills: candidate.Slice(),
		RequiredSkills:  required.Slice(),
		JobType:         job.Type,
		JobMode:         job.Mode,
	}

	result := o.percentage(ctx, req, breakdown.Score)
	if mode == ModeFullAnalysis {
		r := o.rationale(ctx, req, result.Percentage, breakdown)
		result.Rationale = &r
	}

	metrics.MatchResults.WithLabelValues(string(result.Source), string(mode)).Inc()
	return result
}

func (o *Orchestrator) percentage(ctx context.Context, req oracle.Request, deterministic int) models.MatchResult {
	fallback := models.MatchResult{Percentage: deterministic, Source: models.SourceDeterministic}
	if o.oracle == nil {
		return fallback
	}

	key := cacheKey(o.oracle.Name(), req)
	if o.cache != nil {
		pct, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			o.logger.Warn("match cache read failed", map[string]interface{}{"jobId": req.JobID, "error": err})
		} else if ok {
			metrics.MatchCacheHits.Inc()
			return models.MatchResult{Percentage: scoring.Clamp(pct), Source: models.SourceExternal}
		}
	}

	if reason := o.admit(ctx); reason != "" {
		o.recordFallback(req, reason, nil)
		return fallback
	}

	callCtx, cancel := context.WithTimeout(ctx, o.opts.OracleTimeout)
	defer cancel()

	start := time.Now()
	raw, err := o.oracle.Percentage(callCtx, req)
	metrics.OracleDuration.WithLabelValues(o.oracle.Name(), "percentage").Observe(time.Since(start).Seconds())
	if err != nil {
		o.recordFallback(req, failureReason(ctx, err), err)
		return fallback
	}

	pct := o.bound(req, toPercentage(raw), deterministic)
	if o.cache != nil {
		if err := o.cache.Set(ctx, key, pct, o.opts.CacheTTL); err != nil {
			o.logger.Warn("match cache write failed", map[string]interface{}{"jobId": req.JobID, "error": err})
		}
	}
	return models.MatchResult{Percentage: pct, Source: models.SourceExternal}
}

// admit returns a fallback reason when no oracle call may be made right now.
func (o *Orchestrator) admit(ctx context.Context) string {
	if err := ctx.Err(); err != nil {
		return contextReason(err)
	}
	if o.limiter != nil && !o.limiter.Allow() {
		return "rate_limited"
	}
	return ""
}

func (o *Orchestrator) bound(req oracle.Request, pct, deterministic int) int {
	band := o.opts.SanityBand
	if band <= 0 {
		return pct
	}
	lo, hi := scoring.Clamp(deterministic-band), scoring.Clamp(deterministic+band)
	if pct >= lo && pct <= hi {
		return pct
	}

	bounded := min(max(pct, lo), hi)
	o.logger.Warn("external percentage outside sanity band", map[string]interface{}{
		"jobId":         req.JobID,
		"external":      pct,
		"deterministic": deterministic,
		"bounded":       bounded,
	})
	return bounded
}

func (o *Orchestrator) recordFallback(req oracle.Request, reason string, err error) {
	metrics.OracleFallbacks.WithLabelValues(reason).Inc()
	fields := map[string]interface{}{
		"jobId":    req.JobID,
		"provider": o.oracle.Name(),
		"reason":   reason,
	}
	if err != nil {
		fields["error"] = err
	}
	o.logger.Warn("external scoring failed, using deterministic score", fields)
}

// toPercentage rounds and clamps an oracle value. Non-finite values are
// rejected by the oracle parser; they map to 0 here regardless.
func toPercentage(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return 0
	}
	if math.IsInf(v, 1) || v > 100 {
		return 100
	}
	return scoring.Clamp(int(math.Round(v)))
}

func failureReason(parent context.Context, err error) string {
	if parentErr := parent.Err(); parentErr != nil {
		return contextReason(parentErr)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, oracle.ErrMalformedResponse), errors.Is(err, oracle.ErrEmptyResponse):
		return "malformed"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return "error"
}

func contextReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "deadline"
	}
	return "cancelled"
}

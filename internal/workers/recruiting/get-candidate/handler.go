// internal/workers/recruiting/get-candidate/handler.go
package getcandidate

import (
	"context"
	"encoding/json"

	"jobmatch-workers/internal/common/camunda"
	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/common/validation"
	"jobmatch-workers/internal/matching/orchestrator"
	"jobmatch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-candidate"
)

type CandidateReader interface {
	Get(ctx context.Context, id string) (models.Candidate, error)
	RecordMatchPercentage(ctx context.Context, id string, pct int) error
}

type Matcher interface {
	ComputeMatch(ctx context.Context, candidateSkills []string, job orchestrator.JobView, mode orchestrator.Mode) models.MatchResult
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (models.Profile, error)
}

type JobReader interface {
	Get(ctx context.Context, id string) (models.Job, error)
}

type Handler struct {
	config     *Config
	candidates CandidateReader
	matcher    Matcher
	profiles   ProfileReader
	jobs       JobReader
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, candidates CandidateReader, matcher Matcher, profiles ProfileReader, jobs JobReader, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		candidates: candidates,
		matcher:    matcher,
		profiles:   profiles,
		jobs:       jobs,
		errors:     apperrors.NewErrorHandler(scoped),
		logger:     scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(context.Background(), client, job, apperrors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if camunda.CompleteJob(ctx, client, job, output, h.logger) {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validation.Struct(input); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	c, err := h.candidates.Get(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}

	dto := toDTO(c)
	if h.config.FullAnalysis {
		h.analyze(ctx, c, &dto)
	}
	return &Output{Candidate: dto}, nil
}

// analyze attaches the full match analysis. A missing profile or job leaves
// the stored scores in place.
func (h *Handler) analyze(ctx context.Context, c models.Candidate, dto *CandidateDTO) {
	profile, err := h.profiles.Get(ctx, c.UserID)
	if err != nil {
		h.logger.Warn("match analysis skipped: profile unavailable", map[string]interface{}{
			"candidateId": c.ID,
			"error":       err,
		})
		return
	}
	job, err := h.jobs.Get(ctx, c.JobID)
	if err != nil {
		h.logger.Warn("match analysis skipped: job unavailable", map[string]interface{}{
			"candidateId": c.ID,
			"error":       err,
		})
		return
	}

	result := h.matcher.ComputeMatch(ctx, profile.Skills, orchestrator.ViewOf(job), orchestrator.ModeFullAnalysis)
	dto.MatchPercentages = result.Percentage
	dto.MatchSource = string(result.Source)
	if result.Rationale != nil {
		dto.StrongMatchReasons = result.Rationale.Strengths
		dto.AreasToImprove = result.Rationale.AreasToImprove
	}

	stored := c.MatchPercentage
	if result.Source == models.SourceExternal && (stored == nil || *stored != result.Percentage) {
		if err := h.candidates.RecordMatchPercentage(ctx, c.ID, result.Percentage); err != nil {
			h.logger.Warn("failed to record match percentage", map[string]interface{}{
				"candidateId": c.ID,
				"error":       err,
			})
		}
	}
}

func toDTO(c models.Candidate) CandidateDTO {
	dto := CandidateDTO{
		ID:                 c.ID,
		ApplicationID:      c.ApplicationID,
		JobID:              c.JobID,
		UserID:             c.UserID,
		Status:             string(c.Status),
		MatchScore:         c.MatchScore,
		MatchPercentages:   c.MatchScore,
		MatchSource:        string(models.SourceDeterministic),
		StrongMatchReasons: []string{},
		AreasToImprove:     []string{},
		Rating:             c.Rating,
		Tags:               c.Tags,
		EmployerNotes:      c.EmployerNotes,
		InterviewDate:      c.InterviewDate,
		InterviewLink:      c.InterviewLink,
		Viewed:             c.Viewed,
		ViewedAt:           c.ViewedAt,
		LastActivity:       c.LastActivity,
	}
	if c.MatchPercentage != nil {
		dto.MatchPercentages = *c.MatchPercentage
		dto.MatchSource = string(models.SourceExternal)
	}
	return dto
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errors.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

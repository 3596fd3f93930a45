// internal/workers/matching/score-job-listings/handler.go
package scorejoblistings

import (
	"context"
	"encoding/json"
	"fmt"

	"jobmatch-workers/internal/catalog"
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
	TaskType = "score-job-listings"
)

type BatchMatcher interface {
	ComputeBatch(ctx context.Context, candidateSkills []string, jobs []orchestrator.JobView) []orchestrator.ScoredJob
}

type JobSearcher interface {
	Search(ctx context.Context, q catalog.JobQuery) ([]models.Job, error)
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (models.Profile, error)
}

type Handler struct {
	config   *Config
	matcher  BatchMatcher
	jobs     JobSearcher
	profiles ProfileReader
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, matcher BatchMatcher, jobs JobSearcher, profiles ProfileReader, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		matcher:  matcher,
		jobs:     jobs,
		profiles: profiles,
		errors:   apperrors.NewErrorHandler(scoped),
		logger:   scoped,
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
	query, err := buildQuery(input)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	candidateSkills := input.CandidateSkills
	if candidateSkills == nil {
		if input.UserID == "" {
			return nil, apperrors.NewValidationError("userId or candidateSkills is required")
		}
		profile, err := h.profiles.Get(ctx, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		candidateSkills = profile.Skills
	}
	if len(query.Skills) == 0 {
		query.Skills = candidateSkills
	}

	listings, err := h.jobs.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	views := make([]orchestrator.JobView, len(listings))
	for i, l := range listings {
		views[i] = orchestrator.ViewOf(l)
	}
	scored := h.matcher.ComputeBatch(ctx, candidateSkills, views)

	output := &Output{Jobs: make([]ScoredListing, 0, len(scored)), Total: len(scored)}
	for _, s := range scored {
		output.Jobs = append(output.Jobs, ScoredListing{
			JobID:           s.Job.ID,
			Title:           s.Job.Title,
			Type:            string(s.Job.Type),
			Mode:            string(s.Job.Mode),
			RequiredSkills:  s.Job.RequiredSkills,
			MatchPercentage: s.Result.Percentage,
			MatchSource:     string(s.Result.Source),
		})
	}

	h.logger.Info("job listings scored", map[string]interface{}{
		"userId": input.UserID,
		"count":  output.Total,
	})
	return output, nil
}

func buildQuery(input *Input) (catalog.JobQuery, error) {
	q := catalog.JobQuery{Skills: input.Filters.Skills, From: input.From, Size: input.Size}
	for _, raw := range input.Filters.Types {
		t, err := models.ParseJobType(raw)
		if err != nil {
			return catalog.JobQuery{}, err
		}
		q.Types = append(q.Types, t)
	}
	for _, raw := range input.Filters.Modes {
		m, err := models.ParseJobMode(raw)
		if err != nil {
			return catalog.JobQuery{}, err
		}
		q.Modes = append(q.Modes, m)
	}
	return q, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errors.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

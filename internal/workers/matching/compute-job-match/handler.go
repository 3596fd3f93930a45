// internal/workers/matching/compute-job-match/handler.go
package computejobmatch

import (
	"context"
	"encoding/json"
	"fmt"

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
	TaskType = "compute-job-match"
)

type Matcher interface {
	ComputeMatch(ctx context.Context, candidateSkills []string, job orchestrator.JobView, mode orchestrator.Mode) models.MatchResult
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (models.Profile, error)
}

type JobReader interface {
	Get(ctx context.Context, id string) (models.Job, error)
}

type MatchRecorder interface {
	RecordMatchPercentage(ctx context.Context, id string, pct int) error
}

type Handler struct {
	config   *Config
	matcher  Matcher
	profiles ProfileReader
	jobs     JobReader
	recorder MatchRecorder
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, matcher Matcher, profiles ProfileReader, jobs JobReader, recorder MatchRecorder, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		matcher:  matcher,
		profiles: profiles,
		jobs:     jobs,
		recorder: recorder,
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
	mode, err := orchestrator.ParseMode(input.Mode)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	view, err := h.resolveJob(ctx, input)
	if err != nil {
		return nil, err
	}
	candidateSkills, err := h.resolveSkills(ctx, input)
	if err != nil {
		return nil, err
	}

	result := h.matcher.ComputeMatch(ctx, candidateSkills, view, mode)

	if input.CandidateID != "" && result.Source == models.SourceExternal && h.recorder != nil {
		if err := h.recorder.RecordMatchPercentage(ctx, input.CandidateID, result.Percentage); err != nil {
			h.logger.Warn("failed to record match percentage", map[string]interface{}{
				"candidateId": input.CandidateID,
				"error":       err,
			})
		}
	}

	h.logger.Info("match computed", map[string]interface{}{
		"jobId":      view.ID,
		"percentage": result.Percentage,
		"source":     result.Source,
		"mode":       mode,
	})

	output := &Output{
		MatchPercentage: result.Percentage,
		MatchSource:     string(result.Source),
	}
	if result.Rationale != nil {
		output.Strengths = result.Rationale.Strengths
		output.AreasToImprove = result.Rationale.AreasToImprove
	}
	return output, nil
}

func (h *Handler) resolveJob(ctx context.Context, input *Input) (orchestrator.JobView, error) {
	if input.Job == nil {
		if input.JobID == "" {
			return orchestrator.JobView{}, apperrors.NewValidationError("jobId or job is required")
		}
		job, err := h.jobs.Get(ctx, input.JobID)
		if err != nil {
			return orchestrator.JobView{}, err
		}
		return orchestrator.ViewOf(job), nil
	}

	if err := validation.Struct(input.Job); err != nil {
		return orchestrator.JobView{}, apperrors.NewValidationError(err.Error())
	}
	jobType, err := models.ParseJobType(input.Job.Type)
	if err != nil {
		return orchestrator.JobView{}, apperrors.NewValidationError(err.Error())
	}
	view := orchestrator.JobView{
		ID:             input.Job.ID,
		Title:          input.Job.Title,
		RequiredSkills: input.Job.RequiredSkills,
		Type:           jobType,
	}
	if view.ID == "" {
		view.ID = input.JobID
	}
	if input.Job.Mode != "" {
		if view.Mode, err = models.ParseJobMode(input.Job.Mode); err != nil {
			return orchestrator.JobView{}, apperrors.NewValidationError(err.Error())
		}
	}
	return view, nil
}

func (h *Handler) resolveSkills(ctx context.Context, input *Input) ([]string, error) {
	if input.CandidateSkills != nil {
		return input.CandidateSkills, nil
	}
	if input.UserID == "" {
		return nil, apperrors.NewValidationError("userId or candidateSkills is required")
	}
	profile, err := h.profiles.Get(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile.Skills, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errors.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

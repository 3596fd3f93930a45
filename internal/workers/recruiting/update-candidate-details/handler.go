// internal/workers/recruiting/update-candidate-details/handler.go
package updatecandidatedetails

import (
	"context"
	"encoding/json"

	"jobmatch-workers/internal/common/camunda"
	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/common/validation"
	"jobmatch-workers/internal/models"
	"jobmatch-workers/internal/recruiting/candidate"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-candidate-details"
)

type DetailsEditor interface {
	UpdateDetails(ctx context.Context, id string, d candidate.Details) (models.Candidate, error)
	Remove(ctx context.Context, id string) error
}

type Handler struct {
	config  *Config
	service DetailsEditor
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, service DetailsEditor, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		service: service,
		errors:  apperrors.NewErrorHandler(scoped),
		logger:  scoped,
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

	if input.Remove {
		if err := h.service.Remove(ctx, input.CandidateID); err != nil {
			return nil, err
		}
		return &Output{CandidateID: input.CandidateID, Removed: true}, nil
	}

	c, err := h.service.UpdateDetails(ctx, input.CandidateID, candidate.Details{
		Rating: input.Rating,
		Notes:  input.Notes,
		Tags:   input.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		CandidateID:   c.ID,
		Rating:        c.Rating,
		EmployerNotes: c.EmployerNotes,
		Tags:          c.Tags,
		LastActivity:  &c.LastActivity,
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errors.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// internal/workers/recruiting/schedule-interview/handler.go
package scheduleinterview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobmatch-workers/internal/common/camunda"
	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/common/validation"
	"jobmatch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "schedule-interview"
)

type Scheduler interface {
	ScheduleInterview(ctx context.Context, id string, date time.Time, link string) (models.Candidate, bool, error)
}

type Handler struct {
	config  *Config
	service Scheduler
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, service Scheduler, log logger.Logger) *Handler {
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
	input.InterviewLink = strings.TrimSpace(input.InterviewLink)
	if err := validation.Struct(input); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	date, err := time.Parse(time.RFC3339, input.InterviewDate)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("interviewDate: %v", err))
	}

	c, notified, err := h.service.ScheduleInterview(ctx, input.CandidateID, date, input.InterviewLink)
	if err != nil {
		return nil, err
	}

	return &Output{
		CandidateID:       c.ID,
		Status:            string(c.Status),
		InterviewDate:     *c.InterviewDate,
		InterviewLink:     c.InterviewLink,
		ApplicantNotified: notified,
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errors.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

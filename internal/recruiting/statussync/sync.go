// Package statussync projects employer-side candidate stages onto the
// coarser applicant-facing application status.
package statussync

import (
	"context"
	"errors"
	"time"

	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/metrics"
	"jobmatch-workers/internal/models"
	"jobmatch-workers/internal/notify"
	"jobmatch-workers/internal/recruiting/store"
)

const TimelineEvent = "Status updated by employer"

type OutcomeKind string

const (
	SyncedOk    OutcomeKind = "synced"
	SyncSkipped OutcomeKind = "skipped"
	SyncFailed  OutcomeKind = "failed"
)

// Outcome reports what a sync did. A failed outcome never invalidates the
// candidate change that triggered it.
type Outcome struct {
	Kind              OutcomeKind              `json:"kind"`
	ApplicationStatus models.ApplicationStatus `json:"applicationStatus,omitempty"`
	Reason            string                   `json:"reason,omitempty"`
}

var mapping = map[models.CandidateStatus]models.ApplicationStatus{
	models.CandidateReviewing:          models.ApplicationScreening,
	models.CandidateShortlisted:        models.ApplicationScreening,
	models.CandidateInterviewScheduled: models.ApplicationInterview,
	models.CandidateInterviewed:        models.ApplicationInterview,
	models.CandidateOfferExtended:      models.ApplicationOffer,
	models.CandidateHired:              models.ApplicationOffer,
	models.CandidateRejected:           models.ApplicationRejected,
}

// Target returns the application status a candidate status maps to. The
// second result is false for statuses that leave the application unchanged.
func Target(status models.CandidateStatus) (models.ApplicationStatus, bool) {
	s, ok := mapping[status]
	return s, ok
}

type ApplicationStore interface {
	GetApplication(ctx context.Context, id string) (models.Application, error)
	SetApplicationStatus(ctx context.Context, id string, entry models.TimelineEntry) error
}

type DriftReporter interface {
	PublishDrift(ctx context.Context, ev notify.DriftEvent)
}

type Synchronizer struct {
	store  ApplicationStore
	drift  DriftReporter
	logger logger.Logger
	now    func() time.Time
}

// New builds a synchronizer. drift may be nil.
func New(store ApplicationStore, drift DriftReporter, log logger.Logger) *Synchronizer {
	return &Synchronizer{
		store:  store,
		drift:  drift,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Synchronizer) Sync(ctx context.Context, applicationID string, status models.CandidateStatus) Outcome {
	target, ok := Target(status)
	if !ok {
		return s.done(Outcome{Kind: SyncSkipped, Reason: "no application change for " + string(status)})
	}

	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return s.fail(ctx, applicationID, status, target, failReason(err, "application read failed"), err)
	}
	if app.Status == target {
		return s.done(Outcome{Kind: SyncSkipped, ApplicationStatus: target, Reason: "application already " + string(target)})
	}

	entry := models.TimelineEntry{Date: s.now(), Event: TimelineEvent, Status: target}
	if err := s.store.SetApplicationStatus(ctx, applicationID, entry); err != nil {
		return s.fail(ctx, applicationID, status, target, failReason(err, "application write failed"), err)
	}

	s.logger.Info("application status synchronized", map[string]interface{}{
		"applicationId":   applicationID,
		"candidateStatus": status,
		"from":            app.Status,
		"to":              target,
	})
	return s.done(Outcome{Kind: SyncedOk, ApplicationStatus: target})
}

func (s *Synchronizer) done(o Outcome) Outcome {
	metrics.StatusSyncOutcomes.WithLabelValues(string(o.Kind)).Inc()
	return o
}

func (s *Synchronizer) fail(ctx context.Context, applicationID string, status models.CandidateStatus,
	target models.ApplicationStatus, reason string, err error) Outcome {
	s.logger.Warn("application status sync failed", map[string]interface{}{
		"applicationId":   applicationID,
		"candidateStatus": status,
		"targetStatus":    target,
		"reason":          reason,
		"error":           err,
	})
	if s.drift != nil {
		s.drift.PublishDrift(ctx, notify.DriftEvent{
			ApplicationID:   applicationID,
			CandidateStatus: string(status),
			TargetStatus:    string(target),
			Reason:          reason,
			OccurredAt:      s.now(),
		})
	}
	return s.done(Outcome{Kind: SyncFailed, ApplicationStatus: target, Reason: reason})
}

func failReason(err error, fallback string) string {
	if errors.Is(err, store.ErrApplicationNotFound) {
		return "application not found"
	}
	return fallback
}

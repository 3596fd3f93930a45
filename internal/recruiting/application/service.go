// Package application implements the applicant-side lifecycle: apply,
// withdraw and applicant edits. Employer-driven status changes arrive
// through statussync instead.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/validation"
	"jobmatch-workers/internal/matching/scoring"
	"jobmatch-workers/internal/matching/skills"
	"jobmatch-workers/internal/models"
	"jobmatch-workers/internal/recruiting/store"
)

var (
	ErrInvalidStatus           = errors.New("INVALID_STATUS")
	ErrInvalidStatusTransition = errors.New("INVALID_STATUS_TRANSITION")
	ErrValidationFailed        = errors.New("VALIDATION_FAILED")
)

const (
	EventSubmitted     = "Application submitted"
	EventStatusByOwner = "Status updated by applicant"
	EventNotesUpdated  = "Notes updated"
)

// applicantStatuses are the only statuses an applicant may set, and only
// while the application is still in one of them.
var applicantStatuses = map[models.ApplicationStatus]bool{
	models.ApplicationSaved:   true,
	models.ApplicationApplied: true,
}

func ParseStatus(s string) (models.ApplicationStatus, error) {
	st, err := models.ParseApplicationStatus(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	return st, nil
}

type Store interface {
	ApplicationExists(ctx context.Context, userID, jobID string) (bool, error)
	CreateApplicationWithCandidate(ctx context.Context, app models.Application, cand models.Candidate) error
	GetApplication(ctx context.Context, id string) (models.Application, error)
	SaveApplicantChanges(ctx context.Context, app models.Application, entries []models.TimelineEntry) error
	DeleteApplication(ctx context.Context, id string) error
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (models.Profile, error)
}

type JobReader interface {
	Get(ctx context.Context, id string) (models.Job, error)
}

type ApplyRequest struct {
	UserID      string `validate:"required"`
	JobID       string `validate:"required"`
	// EmployerID is optional; the job's employer wins and a mismatch is rejected.
	EmployerID  string
	CoverLetter string `validate:"max=10000"`
}

// ApplicantUpdate holds optional applicant edits.
type ApplicantUpdate struct {
	Notes  *string `validate:"omitempty,max=5000"`
	Status *models.ApplicationStatus
}

type Service struct {
	store    Store
	profiles ProfileReader
	jobs     JobReader
	logger   logger.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(st Store, profiles ProfileReader, jobs JobReader, log logger.Logger) *Service {
	return &Service{
		store:    st,
		profiles: profiles,
		jobs:     jobs,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
}

// Apply creates the application and its candidate together. The candidate's
// match score is the deterministic score at apply time.
func (s *Service) Apply(ctx context.Context, req ApplyRequest) (models.Application, models.Candidate, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.JobID = strings.TrimSpace(req.JobID)
	if err := validation.Struct(req); err != nil {
		return models.Application{}, models.Candidate{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	exists, err := s.store.ApplicationExists(ctx, req.UserID, req.JobID)
	if err != nil {
		return models.Application{}, models.Candidate{}, err
	}
	if exists {
		return models.Application{}, models.Candidate{}, fmt.Errorf("%w: user %s already applied to job %s",
			store.ErrDuplicateApplication, req.UserID, req.JobID)
	}

	job, err := s.jobs.Get(ctx, req.JobID)
	if err != nil {
		return models.Application{}, models.Candidate{}, err
	}
	employerID := job.EmployerID
	switch {
	case employerID == "":
		employerID = req.EmployerID
	case req.EmployerID != "" && req.EmployerID != employerID:
		return models.Application{}, models.Candidate{}, fmt.Errorf("%w: job %s belongs to another employer", ErrValidationFailed, job.ID)
	}

	profile, err := s.profiles.Get(ctx, req.UserID)
	if err != nil {
		return models.Application{}, models.Candidate{}, err
	}

	score := scoring.Score(skills.Normalize(profile.Skills), skills.Normalize(job.RequiredSkills), job.Type)
	now := s.now()

	app := models.Application{
		ID:          s.newID(),
		UserID:      req.UserID,
		JobID:       req.JobID,
		EmployerID:  employerID,
		Status:      models.ApplicationApplied,
		CoverLetter: req.CoverLetter,
		AppliedDate: now,
		LastUpdate:  now,
		Timeline: []models.TimelineEntry{
			{Date: now, Event: EventSubmitted, Status: models.ApplicationApplied},
		},
	}
	cand := models.Candidate{
		ID:            s.newID(),
		ApplicationID: app.ID,
		EmployerID:    employerID,
		JobID:         job.ID,
		UserID:        req.UserID,
		Status:        models.CandidateNew,
		MatchScore:    score,
		Tags:          []string{},
		LastActivity:  now,
		CreatedAt:     now,
	}

	if err := s.store.CreateApplicationWithCandidate(ctx, app, cand); err != nil {
		return models.Application{}, models.Candidate{}, err
	}

	s.logger.Info("application submitted", map[string]interface{}{
		"applicationId": app.ID,
		"candidateId":   cand.ID,
		"jobId":         job.ID,
		"matchScore":    score,
	})
	return app, cand, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Application, error) {
	return s.store.GetApplication(ctx, id)
}

// Withdraw deletes the application and its candidate. Applications owned by
// someone else are reported as not found.
func (s *Service) Withdraw(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.DeleteApplication(ctx, id); err != nil {
		return err
	}
	s.logger.Info("application withdrawn", map[string]interface{}{"applicationId": id})
	return nil
}

// UpdateByApplicant applies applicant edits. Each effective change appends a
// timeline entry; nothing here reaches the candidate.
func (s *Service) UpdateByApplicant(ctx context.Context, id, userID string, u ApplicantUpdate) (models.Application, error) {
	if err := validation.Struct(u); err != nil {
		return models.Application{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	app, err := s.owned(ctx, id, userID)
	if err != nil {
		return models.Application{}, err
	}

	now := s.now()
	var entries []models.TimelineEntry

	if u.Status != nil {
		st, err := ParseStatus(string(*u.Status))
		if err != nil {
			return models.Application{}, err
		}
		if !applicantStatuses[st] || !applicantStatuses[app.Status] {
			return models.Application{}, fmt.Errorf("%w: applicant cannot move %s to %s", ErrInvalidStatusTransition, app.Status, st)
		}
		if st != app.Status {
			app.Status = st
			entries = append(entries, models.TimelineEntry{Date: now, Event: EventStatusByOwner, Status: st})
		}
	}
	if u.Notes != nil && *u.Notes != app.Notes {
		app.Notes = *u.Notes
		entries = append(entries, models.TimelineEntry{Date: now, Event: EventNotesUpdated, Status: app.Status})
	}

	if len(entries) == 0 {
		return app, nil
	}

	app.LastUpdate = now
	if err := s.store.SaveApplicantChanges(ctx, app, entries); err != nil {
		return models.Application{}, err
	}
	app.Timeline = append(app.Timeline, entries...)
	return app, nil
}

func (s *Service) owned(ctx context.Context, id, userID string) (models.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return models.Application{}, err
	}
	if app.UserID != userID {
		return models.Application{}, fmt.Errorf("%w: %s", store.ErrApplicationNotFound, id)
	}
	return app, nil
}

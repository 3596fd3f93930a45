// Package candidate implements the employer-side recruiting pipeline.
package candidate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/validation"
	"jobmatch-workers/internal/matching/skills"
	"jobmatch-workers/internal/models"
	"jobmatch-workers/internal/notify"
	"jobmatch-workers/internal/recruiting/statussync"
	"jobmatch-workers/internal/recruiting/store"
)

type Store interface {
	GetCandidate(ctx context.Context, id string) (models.Candidate, error)
	ListCandidates(ctx context.Context, employerID, jobID string) ([]models.Candidate, error)
	MarkViewed(ctx context.Context, id string, at time.Time) (bool, error)
	SetCandidateStatus(ctx context.Context, id string, status models.CandidateStatus, at time.Time) error
	SetInterview(ctx context.Context, id string, date time.Time, link string, at time.Time) error
	UpdateCandidateDetails(ctx context.Context, id string, d store.CandidateDetails, at time.Time) error
	SetMatchPercentage(ctx context.Context, id string, pct int) error
	DeleteCandidate(ctx context.Context, id string) error
}

type Synchronizer interface {
	Sync(ctx context.Context, applicationID string, status models.CandidateStatus) statussync.Outcome
}

type Notifier interface {
	InterviewScheduled(ctx context.Context, notice notify.InterviewNotice) bool
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (models.Profile, error)
}

type JobReader interface {
	Get(ctx context.Context, id string) (models.Job, error)
}

// Details holds optional employer edits. Nil fields stay unchanged; a non-nil
// empty Tags clears the tags.
type Details struct {
	Rating *float64 `validate:"omitempty,gte=0,lte=5"`
	Notes  *string  `validate:"omitempty,max=5000"`
	Tags   []string `validate:"omitempty,max=50,dive,max=64"`
}

type Service struct {
	store    Store
	sync     Synchronizer
	notifier Notifier
	profiles ProfileReader
	jobs     JobReader
	logger   logger.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithInterviewNotifier enables applicant emails on ScheduleInterview.
func WithInterviewNotifier(n Notifier, profiles ProfileReader, jobs JobReader) Option {
	return func(s *Service) {
		s.notifier = n
		s.profiles = profiles
		s.jobs = jobs
	}
}

func NewService(st Store, sync Synchronizer, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:  st,
		sync:   sync,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateStatus persists a pipeline move and then projects it onto the
// application. The candidate write stands whatever the sync outcome.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.CandidateStatus) (models.Candidate, statussync.Outcome, error) {
	st, err := ParseStatus(string(status))
	if err != nil {
		return models.Candidate{}, statussync.Outcome{}, err
	}

	c, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return models.Candidate{}, statussync.Outcome{}, err
	}
	if err := CheckTransition(c, st); err != nil {
		return models.Candidate{}, statussync.Outcome{}, err
	}

	now := s.now()
	if err := s.store.SetCandidateStatus(ctx, id, st, now); err != nil {
		return models.Candidate{}, statussync.Outcome{}, err
	}
	from := c.Status
	c.Status = st
	c.LastActivity = now

	outcome := s.sync.Sync(ctx, c.ApplicationID, st)
	s.logger.Info("candidate status updated", map[string]interface{}{
		"candidateId": id,
		"from":        from,
		"to":          st,
		"sync":        outcome.Kind,
	})
	return c, outcome, nil
}

// ScheduleInterview attaches interview logistics without touching the status.
// The bool reports whether the applicant was emailed.
func (s *Service) ScheduleInterview(ctx context.Context, id string, date time.Time, link string) (models.Candidate, bool, error) {
	if date.IsZero() {
		return models.Candidate{}, false, fmt.Errorf("%w: interviewDate is required", ErrValidationFailed)
	}
	link = strings.TrimSpace(link)

	c, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return models.Candidate{}, false, err
	}

	now := s.now()
	date = date.UTC()
	if err := s.store.SetInterview(ctx, id, date, link, now); err != nil {
		return models.Candidate{}, false, err
	}
	c.InterviewDate = &date
	c.InterviewLink = link
	c.LastActivity = now

	return c, s.notifyInterview(ctx, c), nil
}

func (s *Service) notifyInterview(ctx context.Context, c models.Candidate) bool {
	if s.notifier == nil || s.profiles == nil {
		return false
	}
	profile, err := s.profiles.Get(ctx, c.UserID)
	if err != nil {
		s.logger.Warn("cannot load applicant for interview email", map[string]interface{}{
			"candidateId": c.ID,
			"error":       err,
		})
		return false
	}

	notice := notify.InterviewNotice{
		To:            profile.Email,
		CandidateName: profile.FullName,
		Date:          *c.InterviewDate,
		Link:          c.InterviewLink,
	}
	if s.jobs != nil {
		if job, err := s.jobs.Get(ctx, c.JobID); err == nil {
			notice.JobTitle = job.Title
		}
	}
	return s.notifier.InterviewScheduled(ctx, notice)
}

// Get reads a candidate and marks it viewed on first read. viewedAt is set
// once and never moves afterwards.
func (s *Service) Get(ctx context.Context, id string) (models.Candidate, error) {
	c, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return models.Candidate{}, err
	}
	if c.Viewed {
		return c, nil
	}
	return s.MarkViewed(ctx, c)
}

// MarkViewed flips the viewed flag of c if no other reader has.
func (s *Service) MarkViewed(ctx context.Context, c models.Candidate) (models.Candidate, error) {
	now := s.now()
	flipped, err := s.store.MarkViewed(ctx, c.ID, now)
	if err != nil {
		s.logger.Warn("failed to mark candidate viewed", map[string]interface{}{"candidateId": c.ID, "error": err})
		return c, nil
	}
	if flipped {
		c.Viewed = true
		c.ViewedAt = &now
		return c, nil
	}
	// Another reader won the flip; return its timestamp.
	return s.store.GetCandidate(ctx, c.ID)
}

func (s *Service) UpdateDetails(ctx context.Context, id string, d Details) (models.Candidate, error) {
	if d.Rating != nil && (math.IsNaN(*d.Rating) || *d.Rating < 0 || *d.Rating > 5) {
		return models.Candidate{}, fmt.Errorf("%w: rating %v not in [0,5]", ErrRatingOutOfRange, *d.Rating)
	}
	if err := validation.Struct(d); err != nil {
		return models.Candidate{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	update := store.CandidateDetails{Rating: d.Rating, Notes: d.Notes}
	if d.Tags != nil {
		update.Tags = skills.Normalize(d.Tags).Slice()
	}
	if err := s.store.UpdateCandidateDetails(ctx, id, update, s.now()); err != nil {
		return models.Candidate{}, err
	}
	return s.store.GetCandidate(ctx, id)
}

func (s *Service) RecordMatchPercentage(ctx context.Context, id string, pct int) error {
	return s.store.SetMatchPercentage(ctx, id, pct)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.DeleteCandidate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("candidate removed", map[string]interface{}{"candidateId": id})
	return nil
}

func (s *Service) ListForJob(ctx context.Context, employerID, jobID string) ([]models.Candidate, error) {
	return s.store.ListCandidates(ctx, employerID, jobID)
}

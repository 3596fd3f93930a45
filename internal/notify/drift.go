package notify

import (
	"context"
	"encoding/json"
	"time"

	"jobmatch-workers/internal/common/logger"
)

type Publisher interface {
	PublishJSON(ctx context.Context, topicARN, subject, message string, attrs map[string]string) (string, error)
}

// DriftEvent describes a Candidate status change whose Application
// projection could not be written.
type DriftEvent struct {
	ApplicationID   string    `json:"applicationId"`
	CandidateStatus string    `json:"candidateStatus"`
	TargetStatus    string    `json:"targetStatus"`
	Reason          string    `json:"reason"`
	OccurredAt      time.Time `json:"occurredAt"`
}

type DriftPublisher struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

// NewDriftPublisher returns nil when no topic is configured; a nil publisher
// drops events.
func NewDriftPublisher(publisher Publisher, topicARN string, log logger.Logger) *DriftPublisher {
	if publisher == nil || topicARN == "" {
		return nil
	}
	return &DriftPublisher{publisher: publisher, topicARN: topicARN, logger: log}
}

func (d *DriftPublisher) PublishDrift(ctx context.Context, ev DriftEvent) {
	if d == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	_, err = d.publisher.PublishJSON(ctx, d.topicARN, "application status drift", string(payload), map[string]string{
		"event":        "status_sync_failed",
		"targetStatus": ev.TargetStatus,
	})
	if err != nil {
		d.logger.Warn("drift event publish failed", map[string]interface{}{
			"applicationId": ev.ApplicationID,
			"error":         err,
		})
	}
}

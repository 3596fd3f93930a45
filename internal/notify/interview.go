// Package notify delivers best-effort side notifications. Nothing here is
// allowed to fail the operation that triggered it.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobmatch-workers/internal/common/logger"
)

type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

type InterviewNotice struct {
	To            string
	CandidateName string
	JobTitle      string
	Date          time.Time
	Link          string
}

type InterviewNotifier struct {
	sender EmailSender
	logger logger.Logger
}

func NewInterviewNotifier(sender EmailSender, log logger.Logger) *InterviewNotifier {
	return &InterviewNotifier{sender: sender, logger: log}
}

// InterviewScheduled emails the applicant and reports whether a message was sent.
func (n *InterviewNotifier) InterviewScheduled(ctx context.Context, notice InterviewNotice) bool {
	if n == nil || n.sender == nil {
		return false
	}
	if strings.TrimSpace(notice.To) == "" {
		n.logger.Warn("no applicant email, skipping interview notification", nil)
		return false
	}

	subject, body := interviewEmail(notice)
	id, err := n.sender.SendText(ctx, notice.To, subject, body)
	if err != nil {
		n.logger.Warn("interview notification failed", map[string]interface{}{
			"to":    notice.To,
			"error": err,
		})
		return false
	}

	n.logger.Info("interview notification sent", map[string]interface{}{"messageId": id})
	return true
}

func interviewEmail(n InterviewNotice) (string, string) {
	title := n.JobTitle
	if title == "" {
		title = "your application"
	}
	subject := fmt.Sprintf("Interview scheduled: %s", title)

	var b strings.Builder
	name := n.CandidateName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "An interview for %s has been scheduled on %s.\n", title, n.Date.UTC().Format("Mon, 02 Jan 2006 15:04 MST"))
	if n.Link != "" {
		fmt.Fprintf(&b, "Join here: %s\n", n.Link)
	}
	b.WriteString("\nGood luck!\n")
	return subject, b.String()
}

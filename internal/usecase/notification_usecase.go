package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/email"
	"go-recruitment-crm/pkg/logger"
)

const notificationFooter = "You receive this because email notifications are on in your settings."

type notificationUsecase struct {
	userRepo      domain.UserRepository
	candidateRepo domain.CandidateRepository
	jobRepo       domain.JobRepository
	mailer        Mailer
}

func NewNotificationUsecase(
	userRepo domain.UserRepository,
	candidateRepo domain.CandidateRepository,
	jobRepo domain.JobRepository,
	mailer Mailer,
) domain.NotificationUsecase {
	return &notificationUsecase{
		userRepo:      userRepo,
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		mailer:        mailer,
	}
}

// recipient returns the user when they exist, are enabled and accept email
// notifications. A nil user means skip.
func (u *notificationUsecase) recipient(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if user.IsDisabled {
		return nil, nil
	}
	settings, err := u.userRepo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !settings.EmailNotifications {
		return nil, nil
	}
	return user, nil
}

func (u *notificationUsecase) send(ctx context.Context, to *domain.User, subject, bodyHTML string) error {
	page, err := email.Render(subject, template.HTML(bodyHTML), notificationFooter)
	if err != nil {
		return err
	}
	return u.mailer.Send(ctx, email.Message{To: []string{to.Email}, Subject: subject, HTML: page})
}

func (u *notificationUsecase) mailerReady() bool {
	if u.mailer == nil || !u.mailer.IsConfigured() {
		logger.Log.Debug("email not configured, dropping notification")
		return false
	}
	return true
}

// HandleStageChanged emails the candidate's owner unless they made the
// change themselves.
func (u *notificationUsecase) HandleStageChanged(ctx context.Context, ev domain.StageChangedEvent) error {
	if !u.mailerReady() {
		return nil
	}
	candidate, err := u.candidateRepo.GetByID(ctx, ev.CandidateID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if candidate.OwnerID == nil || *candidate.OwnerID == ev.ChangedBy {
		return nil
	}
	owner, err := u.recipient(ctx, *candidate.OwnerID)
	if err != nil || owner == nil {
		return err
	}

	jobTitle := "a job"
	if job, err := u.jobRepo.GetByID(ctx, ev.JobID); err == nil {
		jobTitle = job.Title
		if job.CompanyName != "" {
			jobTitle += " at " + job.CompanyName
		}
	}

	name := candidate.FullName()
	subject := fmt.Sprintf("%s moved to %s", name, ev.ToStage)
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(owner.FirstName))
	fmt.Fprintf(&b, "<p><strong>%s</strong>'s application for <strong>%s</strong> moved from %s to <strong>%s</strong>.</p>",
		html.EscapeString(name), html.EscapeString(jobTitle), ev.FromStage, ev.ToStage)
	if ev.Reason != nil && *ev.Reason != "" {
		fmt.Fprintf(&b, "<p>Reason: %s</p>", html.EscapeString(*ev.Reason))
	}
	return u.send(ctx, owner, subject, b.String())
}

// HandleMessageSent emails each recipient. Failures for one recipient are
// logged and do not block the others, and the event is not retried so
// nobody receives the same mail twice.
func (u *notificationUsecase) HandleMessageSent(ctx context.Context, ev domain.MessageSentEvent) error {
	if !u.mailerReady() {
		return nil
	}
	senderName := "A colleague"
	if sender, err := u.userRepo.GetByID(ctx, ev.SenderID); err == nil {
		senderName = sender.FullName()
	}

	subject := fmt.Sprintf("New message: %s", ev.Subject)
	body := fmt.Sprintf("<p><strong>%s</strong> wrote:</p><blockquote>%s</blockquote>",
		html.EscapeString(senderName), html.EscapeString(ev.Preview))

	for _, id := range ev.RecipientIDs {
		user, err := u.recipient(ctx, id)
		if err != nil {
			logger.Log.Warn("failed to load notification recipient", "user_id", id, "error", err)
			continue
		}
		if user == nil {
			continue
		}
		if err := u.send(ctx, user, subject, body); err != nil {
			logger.Log.Warn("failed to send message notification", "user_id", id, "message_id", ev.MessageID, "error", err)
		}
	}
	return nil
}

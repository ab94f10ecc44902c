package usecase

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/email"
	"go-recruitment-crm/pkg/logger"
	"go-recruitment-crm/pkg/markdown"
)

const previewLength = 140

// Mailer is satisfied by *email.EmailService.
type Mailer interface {
	IsConfigured() bool
	Send(ctx context.Context, msg email.Message) error
}

type messagingUsecase struct {
	convRepo      domain.ConversationRepository
	userRepo      domain.UserRepository
	candidateRepo domain.CandidateRepository
	md            MarkdownRenderer
	mailer        Mailer
	publisher     domain.EventPublisher
	now           func() time.Time
}

func NewMessagingUsecase(
	convRepo domain.ConversationRepository,
	userRepo domain.UserRepository,
	candidateRepo domain.CandidateRepository,
	md MarkdownRenderer,
	mailer Mailer,
	publisher domain.EventPublisher,
) domain.MessagingUsecase {
	return &messagingUsecase{
		convRepo:      convRepo,
		userRepo:      userRepo,
		candidateRepo: candidateRepo,
		md:            md,
		mailer:        mailer,
		publisher:     publisher,
		now:           time.Now,
	}
}

func preview(html string) string {
	text := strings.Join(strings.Fields(markdown.StripTags(html)), " ")
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	r := []rune(text)
	return string(r[:previewLength-1]) + "…"
}

func (u *messagingUsecase) renderBody(body string) (string, error) {
	html, err := u.md.Render(body)
	if err != nil {
		return "", apperror.WithKind(apperror.KindValidation, "body", "Message body could not be rendered")
	}
	return html, nil
}

// conversationFor loads a conversation the user takes part in.
func (u *messagingUsecase) conversationFor(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	conv, err := u.convRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Conversation")
	}
	for _, p := range conv.Participants {
		if p.UserID == userID {
			return conv, nil
		}
	}
	return nil, apperror.Forbidden("You are not a participant in this conversation")
}

// requireParticipant is the lighter check for operations that do not need
// the conversation itself.
func (u *messagingUsecase) requireParticipant(ctx context.Context, userID, id string) error {
	ok, err := u.convRepo.IsParticipant(ctx, id, userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := u.convRepo.GetByID(ctx, id); err != nil {
		return notFound(err, "Conversation")
	}
	return apperror.Forbidden("You are not a participant in this conversation")
}

func (u *messagingUsecase) ListConversations(ctx context.Context, userID string, filter domain.ConversationFilter) (*domain.PaginatedResult[domain.Conversation], error) {
	filter.Normalize()
	convs, total, err := u.convRepo.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(convs, total, filter.PageQuery), nil
}

func (u *messagingUsecase) CreateConversation(ctx context.Context, userID string, req domain.CreateConversationRequest) (*domain.Conversation, error) {
	participants := []string{userID}
	seen := map[string]bool{userID: true}
	for _, id := range req.ParticipantIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := u.userRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.WithKind(apperror.KindValidation, "participant_ids", "Unknown participant: "+id)
			}
			return nil, err
		}
		participants = append(participants, id)
	}
	if len(participants) < 2 {
		return nil, apperror.WithKind(apperror.KindValidation, "participant_ids", "A conversation needs at least one other participant")
	}
	if req.CandidateID != nil {
		if _, err := u.candidateRepo.GetByID(ctx, *req.CandidateID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.WithKind(apperror.KindValidation, "candidate_id", "Candidate does not exist")
			}
			return nil, err
		}
	}

	html, err := u.renderBody(req.Body)
	if err != nil {
		return nil, err
	}
	conv := &domain.Conversation{
		Subject:     strings.TrimSpace(req.Subject),
		CandidateID: req.CandidateID,
		CreatedBy:   userID,
	}
	first := &domain.Message{SenderID: userID, Body: req.Body, BodyHTML: html}
	if err := u.convRepo.Create(ctx, conv, participants, first); err != nil {
		return nil, err
	}

	u.announce(ctx, conv.Subject, first, participants)
	return u.convRepo.GetByID(ctx, conv.ID)
}

func (u *messagingUsecase) GetConversation(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	return u.conversationFor(ctx, userID, id)
}

func (u *messagingUsecase) ListMessages(ctx context.Context, userID, id string, page domain.PageQuery) (*domain.PaginatedResult[domain.Message], error) {
	if err := u.requireParticipant(ctx, userID, id); err != nil {
		return nil, err
	}
	page.Normalize()
	msgs, total, err := u.convRepo.ListMessages(ctx, id, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(msgs, total, page), nil
}

// SendMessage posts to the conversation. With SendEmail the message is also
// mailed to the linked candidate; a delivery failure leaves the message
// stored with emailed=false.
func (u *messagingUsecase) SendMessage(ctx context.Context, userID, id string, req domain.SendMessageRequest) (*domain.Message, error) {
	conv, err := u.conversationFor(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var candidate *domain.Candidate
	if req.SendEmail {
		if conv.CandidateID == nil {
			return nil, apperror.WithKind(apperror.KindValidation, "send_email", "Conversation has no linked candidate to email")
		}
		if u.mailer == nil || !u.mailer.IsConfigured() {
			return nil, apperror.New(http.StatusServiceUnavailable, "Email delivery is not configured", nil)
		}
		candidate, err = u.candidateRepo.GetByID(ctx, *conv.CandidateID)
		if err != nil {
			return nil, notFound(err, "Candidate")
		}
	}

	html, err := u.renderBody(req.Body)
	if err != nil {
		return nil, err
	}
	msg := &domain.Message{ConversationID: id, SenderID: userID, Body: req.Body, BodyHTML: html}
	if err := u.convRepo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	if candidate != nil {
		u.emailCandidate(ctx, conv, candidate, msg)
	}

	ids := make([]string, 0, len(conv.Participants))
	for _, p := range conv.Participants {
		ids = append(ids, p.UserID)
	}
	u.announce(ctx, conv.Subject, msg, ids)
	return msg, nil
}

func (u *messagingUsecase) emailCandidate(ctx context.Context, conv *domain.Conversation, candidate *domain.Candidate, msg *domain.Message) {
	var replyTo, footer string
	if sender, err := u.userRepo.GetByID(ctx, msg.SenderID); err == nil {
		replyTo = sender.Email
		footer = "Sent by " + sender.FullName()
	}
	body, err := email.Render(conv.Subject, template.HTML(msg.BodyHTML), footer)
	if err != nil {
		logger.Log.Error("failed to render message email", "message_id", msg.ID, "error", err)
		return
	}
	err = u.mailer.Send(ctx, email.Message{
		To:      []string{candidate.Email},
		ReplyTo: replyTo,
		Subject: conv.Subject,
		HTML:    body,
	})
	if err != nil {
		logger.Log.Warn("failed to email candidate", "message_id", msg.ID, "candidate_id", candidate.ID, "error", err)
		return
	}
	if err := u.convRepo.MarkEmailed(ctx, msg.ID); err != nil {
		logger.Log.Warn("failed to flag message as emailed", "message_id", msg.ID, "error", err)
	}
	msg.Emailed = true
}

func (u *messagingUsecase) announce(ctx context.Context, subject string, msg *domain.Message, participants []string) {
	recipients := make([]string, 0, len(participants))
	for _, id := range participants {
		if id != msg.SenderID {
			recipients = append(recipients, id)
		}
	}
	sentAt := msg.CreatedAt
	if sentAt.IsZero() {
		sentAt = u.now().UTC()
	}
	publish(ctx, u.publisher, domain.EventMessageSent, domain.MessageSentEvent{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		Subject:        subject,
		SenderID:       msg.SenderID,
		RecipientIDs:   recipients,
		Preview:        preview(msg.BodyHTML),
		SentAt:         sentAt,
	})
}

func (u *messagingUsecase) MarkRead(ctx context.Context, userID, id string) error {
	if err := u.requireParticipant(ctx, userID, id); err != nil {
		return err
	}
	return u.convRepo.MarkRead(ctx, id, userID, u.now().UTC())
}

func (u *messagingUsecase) SetArchived(ctx context.Context, userID, id string, archived bool) error {
	if err := u.requireParticipant(ctx, userID, id); err != nil {
		return err
	}
	return u.convRepo.SetArchived(ctx, id, userID, archived)
}

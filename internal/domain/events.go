package domain

import (
	"context"
	"time"
)

// Routing keys on the events exchange.
const (
	EventApplicationStageChanged = "application.stage_changed"
	EventMessageSent             = "message.sent"
	EventCandidateCreated        = "candidate.created"
)

type StageChangedEvent struct {
	ApplicationID string    `json:"application_id"`
	CandidateID   string    `json:"candidate_id"`
	JobID         string    `json:"job_id"`
	FromStage     Stage     `json:"from_stage"`
	ToStage       Stage     `json:"to_stage"`
	Reason        *string   `json:"reason,omitempty"`
	ChangedBy     string    `json:"changed_by"`
	ChangedAt     time.Time `json:"changed_at"`
}

type MessageSentEvent struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	Subject        string    `json:"subject"`
	SenderID       string    `json:"sender_id"`
	RecipientIDs   []string  `json:"recipient_ids"`
	Preview        string    `json:"preview"`
	SentAt         time.Time `json:"sent_at"`
}

type CandidateCreatedEvent struct {
	CandidateID string    `json:"candidate_id"`
	Name        string    `json:"name"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventPublisher is satisfied by mq.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// NotificationUsecase turns bus events into user notifications.
type NotificationUsecase interface {
	HandleStageChanged(ctx context.Context, ev StageChangedEvent) error
	HandleMessageSent(ctx context.Context, ev MessageSentEvent) error
}

package domain

import (
	"context"
	"time"
)

type Participant struct {
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
}

type Conversation struct {
	ID            string        `json:"id"`
	Subject       string        `json:"subject"`
	CandidateID   *string       `json:"candidate_id,omitempty"`
	CreatedBy     string        `json:"created_by"`
	Participants  []Participant `json:"participants,omitempty"`
	LastMessageAt *time.Time    `json:"last_message_at,omitempty"`
	UnreadCount   int           `json:"unread_count"`
	IsArchived    bool          `json:"is_archived"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name,omitempty"`
	Body           string    `json:"body"`
	BodyHTML       string    `json:"body_html"`
	Emailed        bool      `json:"emailed"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationFilter struct {
	PageQuery
	Archived bool `form:"archived"`
}

type ConversationRepository interface {
	// Create stores the conversation, its participants and the opening message atomically.
	Create(ctx context.Context, conv *Conversation, participantIDs []string, first *Message) error
	GetByID(ctx context.Context, id string) (*Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	ListForUser(ctx context.Context, userID string, filter ConversationFilter) ([]Conversation, int64, error)
	ListMessages(ctx context.Context, conversationID string, page PageQuery) ([]Message, int64, error)
	AddMessage(ctx context.Context, msg *Message) error
	MarkEmailed(ctx context.Context, messageID string) error
	MarkRead(ctx context.Context, conversationID, userID string, at time.Time) error
	SetArchived(ctx context.Context, conversationID, userID string, archived bool) error
}

type CreateConversationRequest struct {
	Subject        string   `json:"subject" binding:"required,min=1,max=200"`
	ParticipantIDs []string `json:"participant_ids" binding:"required,min=1,max=50,dive,uuid"`
	CandidateID    *string  `json:"candidate_id" binding:"omitempty,uuid"`
	Body           string   `json:"body" binding:"required,min=1,max=20000"`
}

type SendMessageRequest struct {
	Body      string `json:"body" binding:"required,min=1,max=20000"`
	SendEmail bool   `json:"send_email"`
}

type ArchiveRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

type MessagingUsecase interface {
	ListConversations(ctx context.Context, userID string, filter ConversationFilter) (*PaginatedResult[Conversation], error)
	CreateConversation(ctx context.Context, userID string, req CreateConversationRequest) (*Conversation, error)
	GetConversation(ctx context.Context, userID, id string) (*Conversation, error)
	ListMessages(ctx context.Context, userID, id string, page PageQuery) (*PaginatedResult[Message], error)
	SendMessage(ctx context.Context, userID, id string, req SendMessageRequest) (*Message, error)
	MarkRead(ctx context.Context, userID, id string) error
	SetArchived(ctx context.Context, userID, id string, archived bool) error
}

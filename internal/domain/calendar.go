package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventInterview EventType = "interview"
	EventCall      EventType = "call"
	EventMeeting   EventType = "meeting"
	EventOther     EventType = "other"
)

type CalendarEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Type          EventType `json:"type"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	Location      string    `json:"location"`
	OrganizerID   string    `json:"organizer_id"`
	CandidateID   *string   `json:"candidate_id,omitempty"`
	ApplicationID *string   `json:"application_id,omitempty"`
	AttendeeIDs   []string  `json:"attendee_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CalendarFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type CalendarRepository interface {
	Create(ctx context.Context, ev *CalendarEvent) error
	GetByID(ctx context.Context, id string) (*CalendarEvent, error)
	// ListForUser returns events the user organises or attends that intersect [from, to).
	ListForUser(ctx context.Context, userID string, from, to time.Time) ([]CalendarEvent, error)
	Update(ctx context.Context, ev *CalendarEvent) error
	SoftDelete(ctx context.Context, id string) error
	HasOverlap(ctx context.Context, organizerID string, start, end time.Time, excludeID string) (bool, error)
}

type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required,min=1,max=200"`
	Description   string    `json:"description" binding:"omitempty,max=5000"`
	Type          string    `json:"type" binding:"omitempty,oneof=interview call meeting other"`
	StartsAt      time.Time `json:"starts_at" binding:"required"`
	EndsAt        time.Time `json:"ends_at" binding:"required"`
	Location      string    `json:"location" binding:"omitempty,max=300"`
	CandidateID   *string   `json:"candidate_id" binding:"omitempty,uuid"`
	ApplicationID *string   `json:"application_id" binding:"omitempty,uuid"`
	AttendeeIDs   []string  `json:"attendee_ids" binding:"omitempty,max=50,dive,uuid"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Type        *string    `json:"type" binding:"omitempty,oneof=interview call meeting other"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Location    *string    `json:"location" binding:"omitempty,max=300"`
	AttendeeIDs *[]string  `json:"attendee_ids" binding:"omitempty,max=50,dive,uuid"`
}

type CalendarUsecase interface {
	List(ctx context.Context, userID string, filter CalendarFilter) ([]CalendarEvent, error)
	Create(ctx context.Context, userID string, req CreateEventRequest) (*CalendarEvent, error)
	Get(ctx context.Context, userID, id string) (*CalendarEvent, error)
	Update(ctx context.Context, userID, id string, req UpdateEventRequest) (*CalendarEvent, error)
	Delete(ctx context.Context, userID, id string) error
}

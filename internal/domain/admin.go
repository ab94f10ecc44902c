package domain

import (
	"context"
	"time"

	"go-recruitment-crm/pkg/security"
)

type AdminCreateUserRequest struct {
	Email     string  `json:"email" binding:"required,email,max=255"`
	Password  string  `json:"password" binding:"required,min=8,max=128"`
	FirstName string  `json:"first_name" binding:"required,min=1,max=100,valid_name"`
	LastName  string  `json:"last_name" binding:"required,min=1,max=100,valid_name"`
	Phone     *string `json:"phone" binding:"omitempty,valid_phone"`
	Role      string  `json:"role" binding:"required,oneof=admin manager consultant"`
}

type AdminUpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100,valid_name"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100,valid_name"`
	Phone     *string `json:"phone" binding:"omitempty,valid_phone"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin manager consultant"`
}

type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

type SecurityEventFilter struct {
	PageQuery
	EventType string     `form:"event_type"`
	Severity  string     `form:"severity" binding:"omitempty,oneof=INFO MEDIUM WARN HIGH info medium warn high"`
	From      *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// SecurityEventReader is satisfied by security.SecurityEventRepository.
type SecurityEventReader interface {
	ListEvents(ctx context.Context, f security.EventFilter) ([]security.SecurityEvent, int64, error)
}

type AdminUsecase interface {
	ListUsers(ctx context.Context, filter UserFilter) (*PaginatedResult[User], error)
	CreateUser(ctx context.Context, req AdminCreateUserRequest) (*User, error)
	UpdateUser(ctx context.Context, actorID, id string, req AdminUpdateUserRequest) (*User, error)
	SetDisabled(ctx context.Context, actorID, id string, disabled bool) (*User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
	ListSecurityEvents(ctx context.Context, filter SecurityEventFilter) (*PaginatedResult[security.SecurityEvent], error)
}

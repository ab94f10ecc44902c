package domain

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleConsultant Role = "consultant"
)

var roleRank = map[Role]int{
	RoleConsultant: 1,
	RoleManager:    2,
	RoleAdmin:      3,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min] && roleRank[r] > 0
}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        *string    `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	IsDisabled   bool       `json:"is_disabled"`
	TOTPSecret   *string    `json:"-"`
	TOTPEnabled  bool       `json:"two_factor_enabled"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type UserSettings struct {
	UserID             string    `json:"user_id"`
	Theme              string    `json:"theme"`
	Language           string    `json:"language"`
	Timezone           string    `json:"timezone"`
	EmailNotifications bool      `json:"email_notifications"`
	Signature          string    `json:"signature"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultUserSettings is returned for users who never saved settings.
func DefaultUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:             userID,
		Theme:              "system",
		Language:           "en",
		Timezone:           "UTC",
		EmailNotifications: true,
	}
}

type UserFilter struct {
	PageQuery
	Query           string `form:"q"`
	Role            string `form:"role" binding:"omitempty,oneof=admin manager consultant"`
	IncludeDisabled bool   `form:"include_disabled"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetTOTP(ctx context.Context, id string, secret *string, enabled bool) error
	SoftDelete(ctx context.Context, id string) error
	GetSettings(ctx context.Context, userID string) (*UserSettings, error)
	UpsertSettings(ctx context.Context, settings *UserSettings) error
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100,valid_name"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100,valid_name"`
	Phone     *string `json:"phone" binding:"omitempty,valid_phone"`
}

type UpdateSettingsRequest struct {
	Theme              *string `json:"theme" binding:"omitempty,oneof=light dark system"`
	Language           *string `json:"language" binding:"omitempty,min=2,max=10"`
	Timezone           *string `json:"timezone" binding:"omitempty,timezone"`
	EmailNotifications *bool   `json:"email_notifications"`
	Signature          *string `json:"signature" binding:"omitempty,max=2000"`
}

type UserUsecase interface {
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error)
	GetSettings(ctx context.Context, userID string) (*UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*UserSettings, error)
	ListUsers(ctx context.Context, filter UserFilter) (*PaginatedResult[User], error)
	GetUser(ctx context.Context, id string) (*User, error)
}

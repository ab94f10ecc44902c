package domain

import (
	"context"
	"time"
)

type Office struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Address   string    `json:"address"`
	Timezone  string    `json:"timezone"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Consultant struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	OfficeID        *string   `json:"office_id,omitempty"`
	OfficeName      string    `json:"office_name,omitempty"`
	Title           string    `json:"title"`
	Specializations []string  `json:"specializations"`
	Phone           *string   `json:"phone,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ConsultantFilter struct {
	PageQuery
	OfficeID   string `form:"office_id" binding:"omitempty,uuid"`
	ActiveOnly bool   `form:"active"`
}

type OfficeRepository interface {
	Create(ctx context.Context, o *Office) error
	GetByID(ctx context.Context, id string) (*Office, error)
	List(ctx context.Context, page PageQuery) ([]Office, int64, error)
	Update(ctx context.Context, o *Office) error
	SoftDelete(ctx context.Context, id string) error
}

type ConsultantRepository interface {
	Create(ctx context.Context, c *Consultant) error
	GetByID(ctx context.Context, id string) (*Consultant, error)
	List(ctx context.Context, filter ConsultantFilter) ([]Consultant, int64, error)
	Update(ctx context.Context, c *Consultant) error
	SoftDelete(ctx context.Context, id string) error
}

type CreateOfficeRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=200"`
	City     string  `json:"city" binding:"omitempty,max=100"`
	Country  string  `json:"country" binding:"omitempty,max=100"`
	Address  string  `json:"address" binding:"omitempty,max=300"`
	Timezone string  `json:"timezone" binding:"omitempty,timezone"`
	Phone    *string `json:"phone" binding:"omitempty,valid_phone"`
}

type UpdateOfficeRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	City     *string `json:"city" binding:"omitempty,max=100"`
	Country  *string `json:"country" binding:"omitempty,max=100"`
	Address  *string `json:"address" binding:"omitempty,max=300"`
	Timezone *string `json:"timezone" binding:"omitempty,timezone"`
	Phone    *string `json:"phone" binding:"omitempty,valid_phone"`
}

type CreateConsultantRequest struct {
	UserID          string   `json:"user_id" binding:"required,uuid"`
	OfficeID        *string  `json:"office_id" binding:"omitempty,uuid"`
	Title           string   `json:"title" binding:"omitempty,max=200"`
	Specializations []string `json:"specializations" binding:"omitempty,max=20,dive,min=1,max=100"`
	Phone           *string  `json:"phone" binding:"omitempty,valid_phone"`
}

type UpdateConsultantRequest struct {
	OfficeID        *string   `json:"office_id" binding:"omitempty,uuid"`
	Title           *string   `json:"title" binding:"omitempty,max=200"`
	Specializations *[]string `json:"specializations" binding:"omitempty,max=20,dive,min=1,max=100"`
	Phone           *string   `json:"phone" binding:"omitempty,valid_phone"`
	IsActive        *bool     `json:"is_active"`
}

type OfficeUsecase interface {
	ListOffices(ctx context.Context, page PageQuery) (*PaginatedResult[Office], error)
	CreateOffice(ctx context.Context, req CreateOfficeRequest) (*Office, error)
	GetOffice(ctx context.Context, id string) (*Office, error)
	UpdateOffice(ctx context.Context, id string, req UpdateOfficeRequest) (*Office, error)
	DeleteOffice(ctx context.Context, id string) error
	ListConsultants(ctx context.Context, filter ConsultantFilter) (*PaginatedResult[Consultant], error)
	CreateConsultant(ctx context.Context, req CreateConsultantRequest) (*Consultant, error)
	GetConsultant(ctx context.Context, id string) (*Consultant, error)
	UpdateConsultant(ctx context.Context, id string, req UpdateConsultantRequest) (*Consultant, error)
	DeleteConsultant(ctx context.Context, id string) error
}

package domain

import (
	"context"
	"time"
)

type CompanyStatus string

const (
	CompanyProspect CompanyStatus = "prospect"
	CompanyClient   CompanyStatus = "client"
	CompanyInactive CompanyStatus = "inactive"
)

type Company struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Industry    string        `json:"industry"`
	Website     *string       `json:"website,omitempty"`
	Size        *string       `json:"size,omitempty"`
	Location    string        `json:"location"`
	Description string        `json:"description"`
	Status      CompanyStatus `json:"status"`
	OwnerID     *string       `json:"owner_id,omitempty"`
	OpenJobs    int           `json:"open_jobs"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type CompanyFilter struct {
	PageQuery
	Query    string `form:"q"`
	Status   string `form:"status" binding:"omitempty,oneof=prospect client inactive"`
	Industry string `form:"industry"`
}

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context, filter CompanyFilter) ([]Company, int64, error)
	Update(ctx context.Context, c *Company) error
	SoftDelete(ctx context.Context, id string) error
	CountActiveJobs(ctx context.Context, id string) (int, error)
}

type CreateCompanyRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Industry    string  `json:"industry" binding:"omitempty,max=100"`
	Website     *string `json:"website" binding:"omitempty,url,max=500"`
	Size        *string `json:"size" binding:"omitempty,oneof=1-10 11-50 51-200 201-1000 1000+"`
	Location    string  `json:"location" binding:"omitempty,max=200"`
	Description string  `json:"description" binding:"omitempty,max=10000"`
	Status      string  `json:"status" binding:"omitempty,oneof=prospect client inactive"`
	OwnerID     *string `json:"owner_id" binding:"omitempty,uuid"`
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Industry    *string `json:"industry" binding:"omitempty,max=100"`
	Website     *string `json:"website" binding:"omitempty,url,max=500"`
	Size        *string `json:"size" binding:"omitempty,oneof=1-10 11-50 51-200 201-1000 1000+"`
	Location    *string `json:"location" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=10000"`
	Status      *string `json:"status" binding:"omitempty,oneof=prospect client inactive"`
	OwnerID     *string `json:"owner_id" binding:"omitempty,uuid"`
}

type CompanyUsecase interface {
	Create(ctx context.Context, req CreateCompanyRequest) (*Company, error)
	Get(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context, filter CompanyFilter) (*PaginatedResult[Company], error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (*Company, error)
	Delete(ctx context.Context, id string) error
	ListJobs(ctx context.Context, id string, page PageQuery) (*PaginatedResult[Job], error)
}

package domain

import (
	"context"
	"time"
)

type JobStatus string

const (
	JobDraft  JobStatus = "draft"
	JobOpen   JobStatus = "open"
	JobOnHold JobStatus = "on_hold"
	JobClosed JobStatus = "closed"
	JobFilled JobStatus = "filled"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobDraft:  {JobOpen, JobClosed},
	JobOpen:   {JobOnHold, JobClosed, JobFilled},
	JobOnHold: {JobOpen, JobClosed},
	JobClosed: {JobOpen},
	JobFilled: {JobOpen},
}

func (s JobStatus) Valid() bool {
	_, ok := jobTransitions[s]
	return ok
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentTemporary  EmploymentType = "temporary"
	EmploymentInternship EmploymentType = "internship"
)

type Job struct {
	ID             string         `json:"id"`
	CompanyID      string         `json:"company_id"`
	CompanyName    string         `json:"company_name,omitempty"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employment_type"`
	SalaryMin      *float64       `json:"salary_min,omitempty"`
	SalaryMax      *float64       `json:"salary_max,omitempty"`
	Currency       string         `json:"currency"`
	Openings       int            `json:"openings"`
	Status         JobStatus      `json:"status"`
	ConsultantID   *string        `json:"consultant_id,omitempty"`
	Skills         []JobSkill     `json:"skills,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type JobSkill struct {
	SkillID  string        `json:"skill_id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	MinLevel int           `json:"min_level"`
	Required bool          `json:"required"`
}

type JobFilter struct {
	PageQuery
	Query          string `form:"q"`
	Status         string `form:"status" binding:"omitempty,oneof=draft open on_hold closed filled"`
	CompanyID      string `form:"company_id" binding:"omitempty,uuid"`
	ConsultantID   string `form:"consultant_id" binding:"omitempty,uuid"`
	EmploymentType string `form:"employment_type" binding:"omitempty,oneof=full_time part_time contract temporary internship"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, filter JobFilter) ([]Job, int64, error)
	Update(ctx context.Context, job *Job) error
	UpdateStatus(ctx context.Context, id string, status JobStatus) error
	SoftDelete(ctx context.Context, id string) error
	GetSkills(ctx context.Context, jobID string) ([]JobSkill, error)
	ReplaceSkills(ctx context.Context, jobID string, skills []JobSkill) error
}

type CreateJobRequest struct {
	CompanyID      string   `json:"company_id" binding:"required,uuid"`
	Title          string   `json:"title" binding:"required,min=2,max=200"`
	Description    string   `json:"description" binding:"omitempty,max=20000"`
	Location       string   `json:"location" binding:"omitempty,max=200"`
	EmploymentType string   `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract temporary internship"`
	SalaryMin      *float64 `json:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax      *float64 `json:"salary_max" binding:"omitempty,gte=0"`
	Currency       string   `json:"currency" binding:"omitempty,len=3"`
	Openings       int      `json:"openings" binding:"omitempty,min=1,max=1000"`
	Status         string   `json:"status" binding:"omitempty,oneof=draft open"`
	ConsultantID   *string  `json:"consultant_id" binding:"omitempty,uuid"`
}

type UpdateJobRequest struct {
	Title          *string  `json:"title" binding:"omitempty,min=2,max=200"`
	Description    *string  `json:"description" binding:"omitempty,max=20000"`
	Location       *string  `json:"location" binding:"omitempty,max=200"`
	EmploymentType *string  `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract temporary internship"`
	SalaryMin      *float64 `json:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax      *float64 `json:"salary_max" binding:"omitempty,gte=0"`
	Currency       *string  `json:"currency" binding:"omitempty,len=3"`
	Openings       *int     `json:"openings" binding:"omitempty,min=1,max=1000"`
	ConsultantID   *string  `json:"consultant_id" binding:"omitempty,uuid"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft open on_hold closed filled"`
}

type JobSkillInput struct {
	SkillID  string `json:"skill_id" binding:"required,uuid"`
	MinLevel int    `json:"min_level" binding:"omitempty,min=1,max=5"`
	Required bool   `json:"required"`
}

type SetJobSkillsRequest struct {
	Skills []JobSkillInput `json:"skills" binding:"max=100,dive"`
}

type JobUsecase interface {
	Create(ctx context.Context, req CreateJobRequest) (*Job, error)
	Get(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, filter JobFilter) (*PaginatedResult[Job], error)
	Update(ctx context.Context, id string, req UpdateJobRequest) (*Job, error)
	UpdateStatus(ctx context.Context, id string, req UpdateJobStatusRequest) (*Job, error)
	Delete(ctx context.Context, id string) error
	SetSkills(ctx context.Context, id string, req SetJobSkillsRequest) (*Job, error)
	ListApplications(ctx context.Context, id string, page PageQuery) (*PaginatedResult[Application], error)
}

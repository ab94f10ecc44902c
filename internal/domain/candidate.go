package domain

import (
	"context"
	"strings"
	"time"
)

type CandidateStatus string

const (
	CandidateNew          CandidateStatus = "new"
	CandidateActive       CandidateStatus = "active"
	CandidateInterviewing CandidateStatus = "interviewing"
	CandidatePlaced       CandidateStatus = "placed"
	CandidateArchived     CandidateStatus = "archived"
)

type Candidate struct {
	ID             string           `json:"id"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	Email          string           `json:"email"`
	Phone          *string          `json:"phone,omitempty"`
	Location       string           `json:"location"`
	CurrentTitle   string           `json:"current_title"`
	CurrentCompany string           `json:"current_company"`
	Summary        string           `json:"summary"`
	CVText         string           `json:"cv_text,omitempty"`
	LinkedInURL    *string          `json:"linkedin_url,omitempty"`
	Source         string           `json:"source"`
	Status         CandidateStatus  `json:"status"`
	OwnerID        *string          `json:"owner_id,omitempty"`
	Tags           []string         `json:"tags"`
	Skills         []CandidateSkill `json:"skills,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type CandidateSkill struct {
	SkillID  string        `json:"skill_id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	Level    int           `json:"level"`
	Years    float64       `json:"years"`
}

type CandidateFilter struct {
	PageQuery
	Query   string `form:"q"`
	Status  string `form:"status" binding:"omitempty,oneof=new active interviewing placed archived"`
	SkillID string `form:"skill_id" binding:"omitempty,uuid"`
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
	Tag     string `form:"tag"`
}

type CandidateRepository interface {
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id string) (*Candidate, error)
	List(ctx context.Context, filter CandidateFilter) ([]Candidate, int64, error)
	Update(ctx context.Context, c *Candidate) error
	SoftDelete(ctx context.Context, id string) error
	GetSkills(ctx context.Context, candidateID string) ([]CandidateSkill, error)
	ReplaceSkills(ctx context.Context, candidateID string, skills []CandidateSkill) error
	// MergeSkills inserts skills and raises level/years on existing rows, never lowering them.
	MergeSkills(ctx context.Context, candidateID string, skills []CandidateSkill) error
}

type CreateCandidateRequest struct {
	FirstName      string   `json:"first_name" binding:"required,min=1,max=100,valid_name"`
	LastName       string   `json:"last_name" binding:"required,min=1,max=100,valid_name"`
	Email          string   `json:"email" binding:"required,email,max=255"`
	Phone          *string  `json:"phone" binding:"omitempty,valid_phone"`
	Location       string   `json:"location" binding:"omitempty,max=200"`
	CurrentTitle   string   `json:"current_title" binding:"omitempty,max=200"`
	CurrentCompany string   `json:"current_company" binding:"omitempty,max=200"`
	Summary        string   `json:"summary" binding:"omitempty,max=5000"`
	CVText         string   `json:"cv_text" binding:"omitempty,max=100000"`
	LinkedInURL    *string  `json:"linkedin_url" binding:"omitempty,url,max=500"`
	Source         string   `json:"source" binding:"omitempty,max=100"`
	OwnerID        *string  `json:"owner_id" binding:"omitempty,uuid"`
	Tags           []string `json:"tags" binding:"omitempty,max=30,dive,min=1,max=50"`
}

type UpdateCandidateRequest struct {
	FirstName      *string   `json:"first_name" binding:"omitempty,min=1,max=100,valid_name"`
	LastName       *string   `json:"last_name" binding:"omitempty,min=1,max=100,valid_name"`
	Email          *string   `json:"email" binding:"omitempty,email,max=255"`
	Phone          *string   `json:"phone" binding:"omitempty,valid_phone"`
	Location       *string   `json:"location" binding:"omitempty,max=200"`
	CurrentTitle   *string   `json:"current_title" binding:"omitempty,max=200"`
	CurrentCompany *string   `json:"current_company" binding:"omitempty,max=200"`
	Summary        *string   `json:"summary" binding:"omitempty,max=5000"`
	CVText         *string   `json:"cv_text" binding:"omitempty,max=100000"`
	LinkedInURL    *string   `json:"linkedin_url" binding:"omitempty,url,max=500"`
	Source         *string   `json:"source" binding:"omitempty,max=100"`
	Status         *string   `json:"status" binding:"omitempty,oneof=new active interviewing placed archived"`
	OwnerID        *string   `json:"owner_id" binding:"omitempty,uuid"`
	Tags           *[]string `json:"tags" binding:"omitempty,max=30,dive,min=1,max=50"`
}

type CandidateSkillInput struct {
	SkillID string  `json:"skill_id" binding:"required,uuid"`
	Level   int     `json:"level" binding:"required,min=1,max=5"`
	Years   float64 `json:"years" binding:"gte=0,lte=60"`
}

type SetCandidateSkillsRequest struct {
	Skills []CandidateSkillInput `json:"skills" binding:"max=100,dive"`
}

type CandidateUsecase interface {
	Create(ctx context.Context, req CreateCandidateRequest) (*Candidate, error)
	Get(ctx context.Context, id string) (*Candidate, error)
	List(ctx context.Context, filter CandidateFilter) (*PaginatedResult[Candidate], error)
	Update(ctx context.Context, id string, req UpdateCandidateRequest) (*Candidate, error)
	Delete(ctx context.Context, id string) error
	SetSkills(ctx context.Context, id string, req SetCandidateSkillsRequest) (*Candidate, error)
	ListApplications(ctx context.Context, id string, page PageQuery) (*PaginatedResult[Application], error)
}

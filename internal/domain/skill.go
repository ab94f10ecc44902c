package domain

import (
	"context"
	"time"
)

type SkillCategory string

const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
	SkillLanguage  SkillCategory = "language"
	SkillTool      SkillCategory = "tool"
	SkillDomain    SkillCategory = "domain"
)

func (c SkillCategory) Valid() bool {
	switch c {
	case SkillTechnical, SkillSoft, SkillLanguage, SkillTool, SkillDomain:
		return true
	}
	return false
}

type Skill struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Category  SkillCategory `json:"category"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type SkillFilter struct {
	PageQuery
	Query    string `form:"q"`
	Category string `form:"category" binding:"omitempty,oneof=technical soft language tool domain"`
}

type SkillRepository interface {
	Create(ctx context.Context, s *Skill) error
	GetByID(ctx context.Context, id string) (*Skill, error)
	List(ctx context.Context, filter SkillFilter) ([]Skill, int64, error)
	Update(ctx context.Context, s *Skill) error
	SoftDelete(ctx context.Context, id string) error
	// UpsertByName returns the existing skill matching name case-insensitively or creates it.
	UpsertByName(ctx context.Context, name string, category SkillCategory) (*Skill, error)
	ListNames(ctx context.Context, limit int) ([]string, error)
}

type CreateSkillRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Category string `json:"category" binding:"omitempty,oneof=technical soft language tool domain"`
}

type UpdateSkillRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Category *string `json:"category" binding:"omitempty,oneof=technical soft language tool domain"`
}

type SkillUsecase interface {
	Create(ctx context.Context, req CreateSkillRequest) (*Skill, error)
	Get(ctx context.Context, id string) (*Skill, error)
	List(ctx context.Context, filter SkillFilter) (*PaginatedResult[Skill], error)
	Update(ctx context.Context, id string, req UpdateSkillRequest) (*Skill, error)
	Delete(ctx context.Context, id string) error
}

package usecase

import (
	"context"
	"strings"

	"go-recruitment-crm/internal/domain"
)

type skillUsecase struct {
	skillRepo domain.SkillRepository
}

func NewSkillUsecase(skillRepo domain.SkillRepository) domain.SkillUsecase {
	return &skillUsecase{skillRepo: skillRepo}
}

func (u *skillUsecase) Create(ctx context.Context, req domain.CreateSkillRequest) (*domain.Skill, error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	s := &domain.Skill{
		Name:     strings.TrimSpace(req.Name),
		Category: domain.SkillCategory(req.Category),
	}
	if s.Category == "" {
		s.Category = domain.SkillTechnical
	}
	if err := u.skillRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (u *skillUsecase) Get(ctx context.Context, id string) (*domain.Skill, error) {
	s, err := u.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Skill")
	}
	return s, nil
}

func (u *skillUsecase) List(ctx context.Context, filter domain.SkillFilter) (*domain.PaginatedResult[domain.Skill], error) {
	filter.Normalize()
	skills, total, err := u.skillRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(skills, total, filter.PageQuery), nil
}

func (u *skillUsecase) Update(ctx context.Context, id string, req domain.UpdateSkillRequest) (*domain.Skill, error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	s, err := u.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Skill")
	}
	if req.Name != nil {
		s.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		s.Category = domain.SkillCategory(*req.Category)
	}
	if err := u.skillRepo.Update(ctx, s); err != nil {
		return nil, notFound(err, "Skill")
	}
	return s, nil
}

func (u *skillUsecase) Delete(ctx context.Context, id string) error {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return err
	}
	return notFound(u.skillRepo.SoftDelete(ctx, id), "Skill")
}

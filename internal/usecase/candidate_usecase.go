package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
)

type candidateUsecase struct {
	candidateRepo domain.CandidateRepository
	skillRepo     domain.SkillRepository
	appRepo       domain.ApplicationRepository
	publisher     domain.EventPublisher
}

func NewCandidateUsecase(
	candidateRepo domain.CandidateRepository,
	skillRepo domain.SkillRepository,
	appRepo domain.ApplicationRepository,
	publisher domain.EventPublisher,
) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo: candidateRepo,
		skillRepo:     skillRepo,
		appRepo:       appRepo,
		publisher:     publisher,
	}
}

func (u *candidateUsecase) Create(ctx context.Context, req domain.CreateCandidateRequest) (*domain.Candidate, error) {
	actor, err := currentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	c := &domain.Candidate{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          trimmed(req.Phone),
		Location:       strings.TrimSpace(req.Location),
		CurrentTitle:   strings.TrimSpace(req.CurrentTitle),
		CurrentCompany: strings.TrimSpace(req.CurrentCompany),
		Summary:        req.Summary,
		CVText:         req.CVText,
		LinkedInURL:    trimmed(req.LinkedInURL),
		Source:         strings.TrimSpace(req.Source),
		Status:         domain.CandidateNew,
		OwnerID:        req.OwnerID,
		Tags:           cleanTags(req.Tags),
	}
	if c.OwnerID == nil {
		c.OwnerID = &actor.UserID
	}
	if err := u.candidateRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	c.Skills = []domain.CandidateSkill{}

	publish(ctx, u.publisher, domain.EventCandidateCreated, domain.CandidateCreatedEvent{
		CandidateID: c.ID,
		Name:        c.FullName(),
		OwnerID:     c.OwnerID,
		CreatedAt:   c.CreatedAt,
	})
	return c, nil
}

func (u *candidateUsecase) Get(ctx context.Context, id string) (*domain.Candidate, error) {
	c, err := u.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Candidate")
	}
	return c, nil
}

func (u *candidateUsecase) List(ctx context.Context, filter domain.CandidateFilter) (*domain.PaginatedResult[domain.Candidate], error) {
	filter.Normalize()
	list, total, err := u.candidateRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(list, total, filter.PageQuery), nil
}

func (u *candidateUsecase) Update(ctx context.Context, id string, req domain.UpdateCandidateRequest) (*domain.Candidate, error) {
	c, err := u.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Candidate")
	}
	if req.FirstName != nil {
		c.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		c.Phone = trimmed(req.Phone)
	}
	if req.LinkedInURL != nil {
		c.LinkedInURL = trimmed(req.LinkedInURL)
	}
	setIf(&c.Location, req.Location)
	setIf(&c.CurrentTitle, req.CurrentTitle)
	setIf(&c.CurrentCompany, req.CurrentCompany)
	setIf(&c.Summary, req.Summary)
	setIf(&c.CVText, req.CVText)
	setIf(&c.Source, req.Source)
	if req.Status != nil {
		c.Status = domain.CandidateStatus(*req.Status)
	}
	if req.OwnerID != nil {
		c.OwnerID = req.OwnerID
	}
	if req.Tags != nil {
		c.Tags = cleanTags(*req.Tags)
	}

	if err := u.candidateRepo.Update(ctx, c); err != nil {
		return nil, notFound(err, "Candidate")
	}
	return c, nil
}

// Delete is allowed for the owning consultant and for managers.
func (u *candidateUsecase) Delete(ctx context.Context, id string) error {
	actor, err := currentPrincipal(ctx)
	if err != nil {
		return err
	}
	c, err := u.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Candidate")
	}
	isOwner := c.OwnerID != nil && *c.OwnerID == actor.UserID
	if !isOwner && !actor.Role.AtLeast(domain.RoleManager) {
		return apperror.Forbidden("Only the owner or a manager can delete this candidate")
	}
	return notFound(u.candidateRepo.SoftDelete(ctx, id), "Candidate")
}

func (u *candidateUsecase) SetSkills(ctx context.Context, id string, req domain.SetCandidateSkillsRequest) (*domain.Candidate, error) {
	if _, err := u.candidateRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, "Candidate")
	}

	seen := make(map[string]struct{}, len(req.Skills))
	skills := make([]domain.CandidateSkill, 0, len(req.Skills))
	for i, in := range req.Skills {
		if _, dup := seen[in.SkillID]; dup {
			return nil, apperror.WithKind(apperror.KindValidation, fmt.Sprintf("skills[%d].skill_id", i), "Skill is listed twice")
		}
		seen[in.SkillID] = struct{}{}

		if _, err := u.skillRepo.GetByID(ctx, in.SkillID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.WithKind(apperror.KindValidation, fmt.Sprintf("skills[%d].skill_id", i), "Skill does not exist")
			}
			return nil, err
		}
		skills = append(skills, domain.CandidateSkill{SkillID: in.SkillID, Level: in.Level, Years: in.Years})
	}

	if err := u.candidateRepo.ReplaceSkills(ctx, id, skills); err != nil {
		return nil, err
	}
	return u.Get(ctx, id)
}

func (u *candidateUsecase) ListApplications(ctx context.Context, id string, page domain.PageQuery) (*domain.PaginatedResult[domain.Application], error) {
	if _, err := u.candidateRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, "Candidate")
	}
	filter := domain.ApplicationFilter{PageQuery: page, CandidateID: id}
	filter.Normalize()
	apps, total, err := u.appRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(apps, total, filter.PageQuery), nil
}


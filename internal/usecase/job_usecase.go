package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
)

type jobUsecase struct {
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyRepository
	skillRepo   domain.SkillRepository
	appRepo     domain.ApplicationRepository
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	companyRepo domain.CompanyRepository,
	skillRepo domain.SkillRepository,
	appRepo domain.ApplicationRepository,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		skillRepo:   skillRepo,
		appRepo:     appRepo,
	}
}

func validateSalary(min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return apperror.WithKind(apperror.KindValidation, "salary_min", "salary_min cannot be greater than salary_max")
	}
	return nil
}

func (u *jobUsecase) Create(ctx context.Context, req domain.CreateJobRequest) (*domain.Job, error) {
	actor, err := currentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateSalary(req.SalaryMin, req.SalaryMax); err != nil {
		return nil, err
	}
	company, err := u.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.WithKind(apperror.KindValidation, "company_id", "Company does not exist")
		}
		return nil, err
	}

	job := &domain.Job{
		CompanyID:      company.ID,
		CompanyName:    company.Name,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Location:       strings.TrimSpace(req.Location),
		EmploymentType: domain.EmploymentType(req.EmploymentType),
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Currency:       strings.ToUpper(req.Currency),
		Openings:       req.Openings,
		Status:         domain.JobStatus(req.Status),
		ConsultantID:   req.ConsultantID,
		Skills:         []domain.JobSkill{},
	}
	if job.EmploymentType == "" {
		job.EmploymentType = domain.EmploymentFullTime
	}
	if job.Currency == "" {
		job.Currency = "EUR"
	}
	if job.Openings == 0 {
		job.Openings = 1
	}
	if job.Status == "" {
		job.Status = domain.JobDraft
	}
	if job.ConsultantID == nil {
		job.ConsultantID = &actor.UserID
	}

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *jobUsecase) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job")
	}
	return job, nil
}

func (u *jobUsecase) List(ctx context.Context, filter domain.JobFilter) (*domain.PaginatedResult[domain.Job], error) {
	filter.Normalize()
	jobs, total, err := u.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(jobs, total, filter.PageQuery), nil
}

func (u *jobUsecase) Update(ctx context.Context, id string, req domain.UpdateJobRequest) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job")
	}
	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	setIf(&job.Description, req.Description)
	setIf(&job.Location, req.Location)
	if req.EmploymentType != nil {
		job.EmploymentType = domain.EmploymentType(*req.EmploymentType)
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if req.Currency != nil {
		job.Currency = strings.ToUpper(*req.Currency)
	}
	setIf(&job.Openings, req.Openings)
	if req.ConsultantID != nil {
		job.ConsultantID = req.ConsultantID
	}
	if err := validateSalary(job.SalaryMin, job.SalaryMax); err != nil {
		return nil, err
	}

	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, notFound(err, "Job")
	}
	return job, nil
}

func (u *jobUsecase) UpdateStatus(ctx context.Context, id string, req domain.UpdateJobStatusRequest) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job")
	}
	next := domain.JobStatus(req.Status)
	if next == job.Status {
		return job, nil
	}
	if !job.Status.CanTransitionTo(next) {
		return nil, apperror.WithKind(apperror.KindValidation, "status",
			fmt.Sprintf("Cannot change job status from %s to %s", job.Status, next))
	}
	if err := u.jobRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, notFound(err, "Job")
	}
	job.Status = next
	return job, nil
}

// Delete is allowed for the assigned consultant and for managers.
func (u *jobUsecase) Delete(ctx context.Context, id string) error {
	actor, err := currentPrincipal(ctx)
	if err != nil {
		return err
	}
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Job")
	}
	assigned := job.ConsultantID != nil && *job.ConsultantID == actor.UserID
	if !assigned && !actor.Role.AtLeast(domain.RoleManager) {
		return apperror.Forbidden("Only the assigned consultant or a manager can delete this job")
	}
	return notFound(u.jobRepo.SoftDelete(ctx, id), "Job")
}

func (u *jobUsecase) SetSkills(ctx context.Context, id string, req domain.SetJobSkillsRequest) (*domain.Job, error) {
	if _, err := u.jobRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, "Job")
	}

	seen := make(map[string]struct{}, len(req.Skills))
	skills := make([]domain.JobSkill, 0, len(req.Skills))
	for i, in := range req.Skills {
		field := fmt.Sprintf("skills[%d].skill_id", i)
		if _, dup := seen[in.SkillID]; dup {
			return nil, apperror.WithKind(apperror.KindValidation, field, "Skill is listed twice")
		}
		seen[in.SkillID] = struct{}{}
		if _, err := u.skillRepo.GetByID(ctx, in.SkillID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.WithKind(apperror.KindValidation, field, "Skill does not exist")
			}
			return nil, err
		}
		level := in.MinLevel
		if level == 0 {
			level = 1
		}
		skills = append(skills, domain.JobSkill{SkillID: in.SkillID, MinLevel: level, Required: in.Required})
	}

	if err := u.jobRepo.ReplaceSkills(ctx, id, skills); err != nil {
		return nil, err
	}
	return u.Get(ctx, id)
}

func (u *jobUsecase) ListApplications(ctx context.Context, id string, page domain.PageQuery) (*domain.PaginatedResult[domain.Application], error) {
	if _, err := u.jobRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, "Job")
	}
	filter := domain.ApplicationFilter{PageQuery: page, JobID: id}
	filter.Normalize()
	apps, total, err := u.appRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(apps, total, filter.PageQuery), nil
}

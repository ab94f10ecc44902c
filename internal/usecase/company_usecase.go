package usecase

import (
	"context"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
)

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	jobRepo     domain.JobRepository
}

func NewCompanyUsecase(companyRepo domain.CompanyRepository, jobRepo domain.JobRepository) domain.CompanyUsecase {
	return &companyUsecase{companyRepo: companyRepo, jobRepo: jobRepo}
}

func (u *companyUsecase) Create(ctx context.Context, req domain.CreateCompanyRequest) (*domain.Company, error) {
	actor, err := currentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	c := &domain.Company{
		Name:        strings.TrimSpace(req.Name),
		Industry:    strings.TrimSpace(req.Industry),
		Website:     trimmed(req.Website),
		Size:        trimmed(req.Size),
		Location:    strings.TrimSpace(req.Location),
		Description: req.Description,
		Status:      domain.CompanyStatus(req.Status),
		OwnerID:     req.OwnerID,
	}
	if c.Status == "" {
		c.Status = domain.CompanyProspect
	}
	if c.OwnerID == nil {
		c.OwnerID = &actor.UserID
	}
	if err := u.companyRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *companyUsecase) Get(ctx context.Context, id string) (*domain.Company, error) {
	c, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Company")
	}
	return c, nil
}

func (u *companyUsecase) List(ctx context.Context, filter domain.CompanyFilter) (*domain.PaginatedResult[domain.Company], error) {
	filter.Normalize()
	list, total, err := u.companyRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(list, total, filter.PageQuery), nil
}

func (u *companyUsecase) Update(ctx context.Context, id string, req domain.UpdateCompanyRequest) (*domain.Company, error) {
	c, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Company")
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Website != nil {
		c.Website = trimmed(req.Website)
	}
	if req.Size != nil {
		c.Size = trimmed(req.Size)
	}
	setIf(&c.Industry, req.Industry)
	setIf(&c.Location, req.Location)
	setIf(&c.Description, req.Description)
	if req.Status != nil {
		c.Status = domain.CompanyStatus(*req.Status)
	}
	if req.OwnerID != nil {
		c.OwnerID = req.OwnerID
	}
	if err := u.companyRepo.Update(ctx, c); err != nil {
		return nil, notFound(err, "Company")
	}
	return c, nil
}

// Delete refuses while the company still has draft, open or on-hold jobs.
func (u *companyUsecase) Delete(ctx context.Context, id string) error {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return err
	}
	if _, err := u.companyRepo.GetByID(ctx, id); err != nil {
		return notFound(err, "Company")
	}
	active, err := u.companyRepo.CountActiveJobs(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperror.Conflict("Company still has active jobs; close them first")
	}
	return notFound(u.companyRepo.SoftDelete(ctx, id), "Company")
}

func (u *companyUsecase) ListJobs(ctx context.Context, id string, page domain.PageQuery) (*domain.PaginatedResult[domain.Job], error) {
	if _, err := u.companyRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, "Company")
	}
	filter := domain.JobFilter{PageQuery: page, CompanyID: id}
	filter.Normalize()
	jobs, total, err := u.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(jobs, total, filter.PageQuery), nil
}

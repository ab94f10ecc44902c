package usecase

import (
	"context"
	"errors"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
)

type officeUsecase struct {
	officeRepo     domain.OfficeRepository
	consultantRepo domain.ConsultantRepository
	userRepo       domain.UserRepository
}

func NewOfficeUsecase(officeRepo domain.OfficeRepository, consultantRepo domain.ConsultantRepository, userRepo domain.UserRepository) domain.OfficeUsecase {
	return &officeUsecase{officeRepo: officeRepo, consultantRepo: consultantRepo, userRepo: userRepo}
}

func (u *officeUsecase) ListOffices(ctx context.Context, page domain.PageQuery) (*domain.PaginatedResult[domain.Office], error) {
	page.Normalize()
	offices, total, err := u.officeRepo.List(ctx, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(offices, total, page), nil
}

func (u *officeUsecase) CreateOffice(ctx context.Context, req domain.CreateOfficeRequest) (*domain.Office, error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	o := &domain.Office{
		Name:     strings.TrimSpace(req.Name),
		City:     strings.TrimSpace(req.City),
		Country:  strings.TrimSpace(req.Country),
		Address:  strings.TrimSpace(req.Address),
		Timezone: req.Timezone,
		Phone:    trimmed(req.Phone),
	}
	if o.Timezone == "" {
		o.Timezone = "UTC"
	}
	if err := u.officeRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (u *officeUsecase) GetOffice(ctx context.Context, id string) (*domain.Office, error) {
	o, err := u.officeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Office")
	}
	return o, nil
}

func (u *officeUsecase) UpdateOffice(ctx context.Context, id string, req domain.UpdateOfficeRequest) (*domain.Office, error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	o, err := u.officeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Office")
	}
	if req.Name != nil {
		o.Name = strings.TrimSpace(*req.Name)
	}
	setIf(&o.City, req.City)
	setIf(&o.Country, req.Country)
	setIf(&o.Address, req.Address)
	setIf(&o.Timezone, req.Timezone)
	if req.Phone != nil {
		o.Phone = trimmed(req.Phone)
	}
	if err := u.officeRepo.Update(ctx, o); err != nil {
		return nil, notFound(err, "Office")
	}
	return o, nil
}

func (u *officeUsecase) DeleteOffice(ctx context.Context, id string) error {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return err
	}
	return notFound(u.officeRepo.SoftDelete(ctx, id), "Office")
}

func (u *officeUsecase) ListConsultants(ctx context.Context, filter domain.ConsultantFilter) (*domain.PaginatedResult[domain.Consultant], error) {
	filter.Normalize()
	list, total, err := u.consultantRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(list, total, filter.PageQuery), nil
}

func (u *officeUsecase) checkOffice(ctx context.Context, officeID *string) error {
	if officeID == nil {
		return nil
	}
	if _, err := u.officeRepo.GetByID(ctx, *officeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.WithKind(apperror.KindValidation, "office_id", "Office does not exist")
		}
		return err
	}
	return nil
}

func (u *officeUsecase) CreateConsultant(ctx context.Context, req domain.CreateConsultantRequest) (*domain.Consultant, error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	user, err := u.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.WithKind(apperror.KindValidation, "user_id", "User does not exist")
		}
		return nil, err
	}
	if err := u.checkOffice(ctx, req.OfficeID); err != nil {
		return nil, err
	}

	c := &domain.Consultant{
		UserID:          user.ID,
		Name:            user.FullName(),
		Email:           user.Email,
		OfficeID:        req.OfficeID,
		Title:           strings.TrimSpace(req.Title),
		Specializations: cleanTags(req.Specializations),
		Phone:           trimmed(req.Phone),
		IsActive:        true,
	}
	if err := u.consultantRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *officeUsecase) GetConsultant(ctx context.Context, id string) (*domain.Consultant, error) {
	c, err := u.consultantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Consultant")
	}
	return c, nil
}

func (u *officeUsecase) UpdateConsultant(ctx context.Context, id string, req domain.UpdateConsultantRequest) (*domain.Consultant, error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	c, err := u.consultantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Consultant")
	}
	if req.OfficeID != nil {
		if err := u.checkOffice(ctx, req.OfficeID); err != nil {
			return nil, err
		}
		c.OfficeID = req.OfficeID
	}
	setIf(&c.Title, req.Title)
	if req.Specializations != nil {
		c.Specializations = cleanTags(*req.Specializations)
	}
	if req.Phone != nil {
		c.Phone = trimmed(req.Phone)
	}
	setIf(&c.IsActive, req.IsActive)
	if err := u.consultantRepo.Update(ctx, c); err != nil {
		return nil, notFound(err, "Consultant")
	}
	return c, nil
}

func (u *officeUsecase) DeleteConsultant(ctx context.Context, id string) error {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return err
	}
	return notFound(u.consultantRepo.SoftDelete(ctx, id), "Consultant")
}

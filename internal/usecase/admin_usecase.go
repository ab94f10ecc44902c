package usecase

import (
	"context"
	"net/http"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/auth"
	"go-recruitment-crm/pkg/security"
)

type adminUsecase struct {
	userRepo domain.UserRepository
	events   domain.SecurityEventReader
	secLog   *security.SecurityLogger
}

func NewAdminUsecase(userRepo domain.UserRepository, events domain.SecurityEventReader, secLog *security.SecurityLogger) domain.AdminUsecase {
	return &adminUsecase{userRepo: userRepo, events: events, secLog: secLog}
}

func (u *adminUsecase) ListUsers(ctx context.Context, filter domain.UserFilter) (*domain.PaginatedResult[domain.User], error) {
	if _, err := requireRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	filter.Normalize()
	filter.IncludeDisabled = true
	users, total, err := u.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(users, total, filter.PageQuery), nil
}

func (u *adminUsecase) CreateUser(ctx context.Context, req domain.AdminCreateUserRequest) (*domain.User, error) {
	actor, err := requireRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.WithKind(apperror.KindValidation, "password", err.Error())
	}
	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        trimmed(req.Phone),
		Role:         domain.Role(req.Role),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	u.secLog.LogUserEvent(ctx, security.EventUserCreated, user.ID, map[string]interface{}{
		"role":  string(user.Role),
		"actor": security.HashValue(actor.UserID),
	})
	return user, nil
}

func (u *adminUsecase) UpdateUser(ctx context.Context, actorID, id string, req domain.AdminUpdateUserRequest) (*domain.User, error) {
	if _, err := requireRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	if req.Role != nil && actorID == id && domain.Role(*req.Role) != user.Role {
		return nil, apperror.BadRequest("You cannot change your own role")
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = trimmed(req.Phone)
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err, "User")
	}
	u.secLog.LogUserEvent(ctx, security.EventUserUpdated, id, map[string]interface{}{"role": string(user.Role)})
	return user, nil
}

func (u *adminUsecase) SetDisabled(ctx context.Context, actorID, id string, disabled bool) (*domain.User, error) {
	if _, err := requireRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if actorID == id && disabled {
		return nil, apperror.BadRequest("You cannot disable your own account")
	}
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	user.IsDisabled = disabled
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err, "User")
	}
	u.secLog.LogUserEvent(ctx, security.EventUserDisabled, id, map[string]interface{}{"disabled": disabled})
	return user, nil
}

func (u *adminUsecase) DeleteUser(ctx context.Context, actorID, id string) error {
	if _, err := requireRole(ctx, domain.RoleAdmin); err != nil {
		return err
	}
	if actorID == id {
		return apperror.BadRequest("You cannot delete your own account")
	}
	if err := u.userRepo.SoftDelete(ctx, id); err != nil {
		return notFound(err, "User")
	}
	u.secLog.LogUserEvent(ctx, security.EventUserDeleted, id, nil)
	return nil
}

func (u *adminUsecase) ListSecurityEvents(ctx context.Context, filter domain.SecurityEventFilter) (*domain.PaginatedResult[security.SecurityEvent], error) {
	if _, err := requireRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if u.events == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Security event storage is not enabled", nil)
	}
	filter.Normalize()
	events, total, err := u.events.ListEvents(ctx, security.EventFilter{
		EventType: filter.EventType,
		Severity:  filter.Severity,
		From:      filter.From,
		To:        filter.To,
		Limit:     filter.PageSize,
		Offset:    filter.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(events, total, filter.PageQuery), nil
}

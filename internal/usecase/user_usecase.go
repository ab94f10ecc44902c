package usecase

import (
	"context"
	"strings"

	"go-recruitment-crm/internal/domain"
)

type userUsecase struct {
	userRepo domain.UserRepository
}

func NewUserUsecase(userRepo domain.UserRepository) domain.UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User")
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
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

func (u *userUsecase) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	return u.userRepo.GetSettings(ctx, userID)
}

func (u *userUsecase) UpdateSettings(ctx context.Context, userID string, req domain.UpdateSettingsRequest) (*domain.UserSettings, error) {
	settings, err := u.userRepo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	setIf(&settings.Theme, req.Theme)
	setIf(&settings.Language, req.Language)
	setIf(&settings.Timezone, req.Timezone)
	setIf(&settings.EmailNotifications, req.EmailNotifications)
	setIf(&settings.Signature, req.Signature)
	settings.UserID = userID

	if err := u.userRepo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (u *userUsecase) ListUsers(ctx context.Context, filter domain.UserFilter) (*domain.PaginatedResult[domain.User], error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	filter.Normalize()
	filter.IncludeDisabled = false
	users, total, err := u.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(users, total, filter.PageQuery), nil
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

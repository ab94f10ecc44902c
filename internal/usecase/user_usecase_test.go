package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("trims names and clears a blank phone", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(repo)
		repo.On("GetByID", ctx, "u-1").Return(&domain.User{ID: "u-1", FirstName: "Ana", LastName: "Smith", Phone: strp("+4912345678")}, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := uc.UpdateProfile(ctx, "u-1", domain.UpdateProfileRequest{FirstName: strp("  Anna "), Phone: strp("   ")})
		require.NoError(t, err)
		assert.Equal(t, "Anna", user.FirstName)
		assert.Equal(t, "Smith", user.LastName)
		assert.Nil(t, user.Phone)
	})

	t.Run("phone is trimmed", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(repo)
		repo.On("GetByID", ctx, "u-1").Return(&domain.User{ID: "u-1"}, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := uc.UpdateProfile(ctx, "u-1", domain.UpdateProfileRequest{Phone: strp(" +441234567 ")})
		require.NoError(t, err)
		require.NotNil(t, user.Phone)
		assert.Equal(t, "+441234567", *user.Phone)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(repo)
		repo.On("GetByID", ctx, "gone").Return(nil, domain.ErrNotFound)

		_, err := uc.UpdateProfile(ctx, "gone", domain.UpdateProfileRequest{})
		assert.Equal(t, http.StatusNotFound, appErr(t, err).Code)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestGetSettings_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	uc := usecase.NewUserUsecase(repo)
	repo.On("GetSettings", ctx, "u-1").Return(domain.DefaultUserSettings("u-1"), nil)

	s, err := uc.GetSettings(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "system", s.Theme)
	assert.Equal(t, "en", s.Language)
	assert.Equal(t, "UTC", s.Timezone)
	assert.True(t, s.EmailNotifications)
}

func TestUpdateSettings_Partial(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	uc := usecase.NewUserUsecase(repo)
	repo.On("GetSettings", ctx, "u-1").Return(domain.DefaultUserSettings("u-1"), nil)
	repo.On("UpsertSettings", ctx, mock.AnythingOfType("*domain.UserSettings")).Return(nil)

	off := false
	s, err := uc.UpdateSettings(ctx, "u-1", domain.UpdateSettingsRequest{Theme: strp("dark"), EmailNotifications: &off})
	require.NoError(t, err)
	assert.Equal(t, "dark", s.Theme)
	assert.False(t, s.EmailNotifications)
	assert.Equal(t, "en", s.Language, "fields not sent keep their value")
	assert.Equal(t, "UTC", s.Timezone)
	assert.Equal(t, "u-1", s.UserID)
	repo.AssertExpectations(t)
}

func TestUpdateSettings_StoreError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	uc := usecase.NewUserUsecase(repo)
	boom := errors.New("connection reset")
	repo.On("GetSettings", ctx, "u-1").Return(nil, boom)

	_, err := uc.UpdateSettings(ctx, "u-1", domain.UpdateSettingsRequest{Theme: strp("light")})
	assert.ErrorIs(t, err, boom)
	repo.AssertNotCalled(t, "UpsertSettings", mock.Anything, mock.Anything)
}

func TestListUsers(t *testing.T) {
	t.Run("consultants are refused", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(repo)

		_, err := uc.ListUsers(consultantCtx, domain.UserFilter{})
		assert.Equal(t, http.StatusForbidden, appErr(t, err).Code)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("disabled users stay hidden", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(repo)
		repo.On("List", managerCtx, mock.MatchedBy(func(f domain.UserFilter) bool {
			return !f.IncludeDisabled && f.Page == 1 && f.PageSize == domain.DefaultPageSize && f.Role == "consultant"
		})).Return([]domain.User{{ID: "u-1"}, {ID: "u-2"}}, int64(2), nil)

		res, err := uc.ListUsers(managerCtx, domain.UserFilter{Role: "consultant", IncludeDisabled: true})
		require.NoError(t, err)
		assert.Len(t, res.Data, 2)
		assert.Equal(t, 1, res.TotalPages)
	})
}

func TestGetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	uc := usecase.NewUserUsecase(repo)
	repo.On("GetByID", ctx, "nope").Return(nil, domain.ErrNotFound)

	_, err := uc.GetUser(ctx, "nope")
	assert.Equal(t, http.StatusNotFound, appErr(t, err).Code)
}

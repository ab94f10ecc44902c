package usecase_test

import (
	"net/http"
	"testing"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompanyCreateDefaults(t *testing.T) {
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockJobRepo))
	repo.On("Create", consultantCtx, mock.AnythingOfType("*domain.Company")).Return(nil)

	c, err := uc.Create(consultantCtx, domain.CreateCompanyRequest{Name: "  Acme  "})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, domain.CompanyProspect, c.Status)
	assert.Equal(t, "consultant-1", *c.OwnerID)
}

func TestCompanyDelete(t *testing.T) {
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockJobRepo))
	repo.On("GetByID", mock.Anything, "co-1").Return(&domain.Company{ID: "co-1"}, nil)

	t.Run("consultants cannot delete companies", func(t *testing.T) {
		err := uc.Delete(consultantCtx, "co-1")
		assert.Equal(t, http.StatusForbidden, appErr(t, err).Code)
	})

	t.Run("active jobs block deletion", func(t *testing.T) {
		repo.On("CountActiveJobs", managerCtx, "co-1").Return(2, nil).Once()
		err := uc.Delete(managerCtx, "co-1")
		assert.Equal(t, http.StatusConflict, appErr(t, err).Code)
		repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})

	t.Run("deletes when no active jobs remain", func(t *testing.T) {
		repo.On("CountActiveJobs", managerCtx, "co-1").Return(0, nil).Once()
		repo.On("SoftDelete", managerCtx, "co-1").Return(nil).Once()
		assert.NoError(t, uc.Delete(managerCtx, "co-1"))
	})
}

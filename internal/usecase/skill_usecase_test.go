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

func TestSkillWritesNeedManager(t *testing.T) {
	repo := new(MockSkillRepo)
	uc := usecase.NewSkillUsecase(repo)

	_, err := uc.Create(consultantCtx, domain.CreateSkillRequest{Name: "Go"})
	assert.Equal(t, http.StatusForbidden, appErr(t, err).Code)

	repo.On("Create", managerCtx, mock.AnythingOfType("*domain.Skill")).Return(nil).Once()
	s, err := uc.Create(managerCtx, domain.CreateSkillRequest{Name: " Go "})
	require.NoError(t, err)
	assert.Equal(t, "Go", s.Name)
	assert.Equal(t, domain.SkillTechnical, s.Category)

	err = uc.Delete(consultantCtx, "skill-1")
	assert.Equal(t, http.StatusForbidden, appErr(t, err).Code)
}

func TestSkillList(t *testing.T) {
	repo := new(MockSkillRepo)
	uc := usecase.NewSkillUsecase(repo)
	repo.On("List", consultantCtx, mock.MatchedBy(func(f domain.SkillFilter) bool {
		return f.Page == 1 && f.PageSize == domain.DefaultPageSize
	})).Return([]domain.Skill{{ID: "s1", Name: "Go"}}, int64(41), nil)

	res, err := uc.List(consultantCtx, domain.SkillFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Data, 1)
}

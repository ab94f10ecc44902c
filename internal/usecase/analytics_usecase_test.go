package usecase_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/export"
	"go-recruitment-crm/internal/usecase"
	"go-recruitment-crm/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPipeline_Funnel(t *testing.T) {
	repo := new(MockAnalyticsRepo)
	uc := usecase.NewAnalyticsUsecase(repo, nil, nil)
	repo.On("FurthestStageCounts", mock.Anything, (*string)(nil)).Return(map[domain.Stage]int64{
		domain.StageSourced:   2,
		domain.StageApplied:   3,
		domain.StageInterview: 4,
		domain.StageHired:     1,
	}, nil)
	repo.On("ApplicationsByStage", mock.Anything, (*string)(nil)).Return(map[string]int64{
		"sourced": 1, "applied": 2, "interview": 3, "hired": 1, "rejected": 3,
	}, nil)

	report, err := uc.Pipeline(consultantCtx, nil)
	require.NoError(t, err)
	require.Len(t, report.Stages, len(domain.FunnelStages))

	counts := make([]int64, 0, len(report.Stages))
	for _, s := range report.Stages {
		counts = append(counts, s.Count)
	}
	// sourced, applied, screening, interview, offer, hired
	assert.Equal(t, []int64{10, 8, 5, 5, 1, 1}, counts)
	assert.Nil(t, report.Stages[0].ConversionRate)
	assert.InDelta(t, 0.8, *report.Stages[1].ConversionRate, 1e-9)
	assert.InDelta(t, 0.2, *report.Stages[4].ConversionRate, 1e-9)
	assert.Equal(t, int64(3), report.Rejected)
	assert.Equal(t, int64(10), report.Total)
}

func TestPipeline_EmptyHasNoRates(t *testing.T) {
	repo := new(MockAnalyticsRepo)
	uc := usecase.NewAnalyticsUsecase(repo, nil, nil)
	repo.On("FurthestStageCounts", mock.Anything, mock.Anything).Return(map[domain.Stage]int64{}, nil)
	repo.On("ApplicationsByStage", mock.Anything, mock.Anything).Return(map[string]int64{}, nil)

	report, err := uc.Pipeline(consultantCtx, nil)
	require.NoError(t, err)
	for _, s := range report.Stages {
		assert.Zero(t, s.Count)
		assert.Nil(t, s.ConversionRate)
	}
}

func TestDashboard(t *testing.T) {
	repo := new(MockAnalyticsRepo)
	uc := usecase.NewAnalyticsUsecase(repo, nil, nil)
	repo.On("CandidatesByStatus", mock.Anything).Return(map[string]int64{"new": 4}, nil)
	repo.On("ApplicationsByStage", mock.Anything, (*string)(nil)).Return(map[string]int64{"applied": 2}, nil)
	repo.On("CountOpenJobs", mock.Anything).Return(int64(3), nil)
	repo.On("CountPlacementsSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(1), nil)
	repo.On("CountCandidatesSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(4), nil)

	stats, err := uc.Dashboard(consultantCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.OpenJobs)
	assert.Equal(t, int64(4), stats.CandidatesByStatus["new"])
	assert.Equal(t, int64(1), stats.PlacementsLast30Days)
}

func TestExport(t *testing.T) {
	rows := []domain.CandidateExportRow{{ID: "c1", Name: "Ana Smith", Email: "ana@example.com", Tags: []string{"go"}, CreatedAt: time.Now()}}

	t.Run("consultants cannot export", func(t *testing.T) {
		uc := usecase.NewAnalyticsUsecase(new(MockAnalyticsRepo), nil, nil)
		_, err := uc.Export(consultantCtx, "consultant-1", domain.ExportRequest{Type: "candidates"})
		assert.Equal(t, http.StatusForbidden, appErr(t, err).Code)
	})

	t.Run("csv download", func(t *testing.T) {
		repo := new(MockAnalyticsRepo)
		repo.On("ExportCandidates", mock.Anything).Return(rows, nil)
		uc := usecase.NewAnalyticsUsecase(repo, nil, security.NewSecurityLogger(zap.NewNop(), "test", "test"))

		file, err := uc.Export(managerCtx, "manager-1", domain.ExportRequest{Type: "candidates", Format: "csv"})
		require.NoError(t, err)
		assert.Equal(t, export.ContentTypeCSV, file.ContentType)
		assert.Equal(t, 1, file.Rows)
		assert.True(t, bytes.HasPrefix(file.Data, []byte("ID,Name,Email")))
		assert.Contains(t, file.Filename, ".csv")
	})

	t.Run("archive without storage is unavailable", func(t *testing.T) {
		uc := usecase.NewAnalyticsUsecase(new(MockAnalyticsRepo), nil, nil)
		_, err := uc.Export(managerCtx, "manager-1", domain.ExportRequest{Type: "candidates", Archive: true})
		assert.Equal(t, http.StatusServiceUnavailable, appErr(t, err).Code)
	})

	t.Run("archive uploads and presigns", func(t *testing.T) {
		repo := new(MockAnalyticsRepo)
		repo.On("ExportApplications", mock.Anything).Return([]domain.ApplicationExportRow{{ID: "a1"}}, nil)
		store := new(MockStore)
		store.On("Put", mock.Anything, mock.MatchedBy(func(k string) bool {
			return strings.HasPrefix(k, "exports/manager-1/applications-") && strings.HasSuffix(k, ".xlsx")
		}), export.ContentTypeXLSX, mock.Anything).Return(nil).Once()
		store.On("PresignGet", mock.Anything, mock.Anything, 15*time.Minute).Return("https://s3.example/x", nil).Once()
		uc := usecase.NewAnalyticsUsecase(repo, store, nil)

		file, err := uc.Export(managerCtx, "manager-1", domain.ExportRequest{Type: "applications", Archive: true})
		require.NoError(t, err)
		assert.Equal(t, "https://s3.example/x", file.URL)
		assert.NotNil(t, file.ExpiresAt)
		assert.Nil(t, file.Data)
		store.AssertExpectations(t)
	})
}

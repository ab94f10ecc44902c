package usecase_test

import (
	"net/http"
	"testing"
	"time"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type appFixture struct {
	apps       *MockApplicationRepo
	candidates *MockCandidateRepo
	jobs       *MockJobRepo
	pub        *MockPublisher
	uc         domain.ApplicationUsecase
}

func newAppFixture() *appFixture {
	f := &appFixture{
		apps:       new(MockApplicationRepo),
		candidates: new(MockCandidateRepo),
		jobs:       new(MockJobRepo),
		pub:        new(MockPublisher),
	}
	f.uc = usecase.NewApplicationUsecase(f.apps, f.candidates, f.jobs, f.pub)
	return f
}

func TestApplicationCreate(t *testing.T) {
	f := newAppFixture()
	f.candidates.On("GetByID", mock.Anything, "cand-1").Return(&domain.Candidate{ID: "cand-1", FirstName: "Ana", LastName: "Smith"}, nil)
	f.jobs.On("GetByID", mock.Anything, "job-open").Return(&domain.Job{ID: "job-open", Title: "Go Dev", Status: domain.JobOpen}, nil)
	f.jobs.On("GetByID", mock.Anything, "job-draft").Return(&domain.Job{ID: "job-draft", Status: domain.JobDraft}, nil)

	t.Run("job must be open", func(t *testing.T) {
		_, err := f.uc.Create(consultantCtx, domain.CreateApplicationRequest{CandidateID: "cand-1", JobID: "job-draft"})
		assert.Equal(t, http.StatusConflict, appErr(t, err).Code)
	})

	t.Run("duplicate application conflicts", func(t *testing.T) {
		f.apps.On("FindByCandidateAndJob", consultantCtx, "cand-1", "job-open").Return(&domain.Application{ID: "app-0"}, nil).Once()
		_, err := f.uc.Create(consultantCtx, domain.CreateApplicationRequest{CandidateID: "cand-1", JobID: "job-open"})
		assert.Equal(t, http.StatusConflict, appErr(t, err).Code)
	})

	t.Run("defaults to sourced", func(t *testing.T) {
		f.apps.On("FindByCandidateAndJob", consultantCtx, "cand-1", "job-open").Return(nil, domain.ErrNotFound).Once()
		f.apps.On("Create", consultantCtx, mock.AnythingOfType("*domain.Application")).Return(nil).Once()
		app, err := f.uc.Create(consultantCtx, domain.CreateApplicationRequest{CandidateID: "cand-1", JobID: "job-open"})
		require.NoError(t, err)
		assert.Equal(t, domain.StageSourced, app.Stage)
		assert.Equal(t, "Ana Smith", app.CandidateName)
		assert.Equal(t, "consultant-1", *app.CreatedBy)
	})
}

func TestApplicationChangeStage(t *testing.T) {
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	t.Run("terminal stage cannot move", func(t *testing.T) {
		f := newAppFixture()
		f.apps.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{ID: "app-1", Stage: domain.StageHired}, nil)
		_, err := f.uc.ChangeStage(consultantCtx, "app-1", domain.ChangeStageRequest{Stage: "offer"})
		assert.Equal(t, http.StatusConflict, appErr(t, err).Code)
	})

	t.Run("skipping stages is refused", func(t *testing.T) {
		f := newAppFixture()
		f.apps.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{ID: "app-1", Stage: domain.StageSourced}, nil)
		_, err := f.uc.ChangeStage(consultantCtx, "app-1", domain.ChangeStageRequest{Stage: "offer"})
		assert.Equal(t, http.StatusConflict, appErr(t, err).Code)
		f.apps.AssertNotCalled(t, "ChangeStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent change surfaces as conflict", func(t *testing.T) {
		f := newAppFixture()
		f.apps.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{ID: "app-1", Stage: domain.StageApplied}, nil)
		f.apps.On("ChangeStage", consultantCtx, "app-1", domain.StageApplied, domain.StageScreening, (*string)(nil), "consultant-1").
			Return(nil, domain.ErrStaleState)
		_, err := f.uc.ChangeStage(consultantCtx, "app-1", domain.ChangeStageRequest{Stage: "screening"})
		assert.Equal(t, http.StatusConflict, appErr(t, err).Code)
		f.pub.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejection records reason and publishes", func(t *testing.T) {
		f := newAppFixture()
		f.apps.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{
			ID: "app-1", CandidateID: "cand-1", JobID: "job-1", Stage: domain.StageInterview,
		}, nil)
		f.apps.On("ChangeStage", consultantCtx, "app-1", domain.StageInterview, domain.StageRejected,
			mock.MatchedBy(func(r *string) bool { return r != nil && *r == "Salary mismatch" }), "consultant-1").
			Return(&domain.StageChangeResult{Change: domain.StageChange{ChangedAt: at}}, nil)
		f.pub.On("PublishJSON", consultantCtx, domain.EventApplicationStageChanged, mock.MatchedBy(func(ev domain.StageChangedEvent) bool {
			return ev.FromStage == domain.StageInterview && ev.ToStage == domain.StageRejected && ev.ChangedAt.Equal(at)
		})).Return(nil).Once()

		reason := "  Salary mismatch "
		app, err := f.uc.ChangeStage(consultantCtx, "app-1", domain.ChangeStageRequest{Stage: "rejected", Reason: &reason})
		require.NoError(t, err)
		assert.Equal(t, domain.StageRejected, app.Stage)
		assert.Equal(t, "Salary mismatch", *app.RejectionReason)
		f.pub.AssertExpectations(t)
	})
}

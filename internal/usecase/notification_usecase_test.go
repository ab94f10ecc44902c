package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/usecase"
	"go-recruitment-crm/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func strp(s string) *string { return &s }

func TestHandleStageChanged(t *testing.T) {
	ctx := context.Background()
	ev := domain.StageChangedEvent{
		ApplicationID: "app-1",
		CandidateID:   "cand-1",
		JobID:         "job-1",
		FromStage:     domain.StageInterview,
		ToStage:       domain.StageRejected,
		Reason:        strp("<b>not a fit</b>"),
		ChangedBy:     "u2",
	}

	t.Run("mails the owner", func(t *testing.T) {
		users, candidates, jobs := new(MockUserRepo), new(MockCandidateRepo), new(MockJobRepo)
		mailer := &MockMailer{configured: true}
		candidates.On("GetByID", ctx, "cand-1").Return(&domain.Candidate{ID: "cand-1", FirstName: "Ana", LastName: "Smith", OwnerID: strp("u1")}, nil)
		users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Email: "owner@example.com", FirstName: "Bo"}, nil)
		users.On("GetSettings", ctx, "u1").Return(&domain.UserSettings{EmailNotifications: true}, nil)
		jobs.On("GetByID", ctx, "job-1").Return(&domain.Job{Title: "Go Dev", CompanyName: "Acme"}, nil)
		mailer.On("Send", ctx, mock.MatchedBy(func(m email.Message) bool {
			return m.To[0] == "owner@example.com" &&
				m.Subject == "Ana Smith moved to rejected" &&
				strings.Contains(m.HTML, "Go Dev at Acme") &&
				strings.Contains(m.HTML, "&lt;b&gt;not a fit&lt;/b&gt;")
		})).Return(nil).Once()

		uc := usecase.NewNotificationUsecase(users, candidates, jobs, mailer)
		assert.NoError(t, uc.HandleStageChanged(ctx, ev))
		mailer.AssertExpectations(t)
	})

	t.Run("owner made the change", func(t *testing.T) {
		candidates := new(MockCandidateRepo)
		mailer := &MockMailer{configured: true}
		candidates.On("GetByID", ctx, "cand-1").Return(&domain.Candidate{ID: "cand-1", OwnerID: strp("u2")}, nil)

		uc := usecase.NewNotificationUsecase(new(MockUserRepo), candidates, new(MockJobRepo), mailer)
		assert.NoError(t, uc.HandleStageChanged(ctx, ev))
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("owner opted out", func(t *testing.T) {
		users, candidates := new(MockUserRepo), new(MockCandidateRepo)
		mailer := &MockMailer{configured: true}
		candidates.On("GetByID", ctx, "cand-1").Return(&domain.Candidate{ID: "cand-1", OwnerID: strp("u1")}, nil)
		users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1"}, nil)
		users.On("GetSettings", ctx, "u1").Return(&domain.UserSettings{EmailNotifications: false}, nil)

		uc := usecase.NewNotificationUsecase(users, candidates, new(MockJobRepo), mailer)
		assert.NoError(t, uc.HandleStageChanged(ctx, ev))
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("mail not configured", func(t *testing.T) {
		uc := usecase.NewNotificationUsecase(new(MockUserRepo), new(MockCandidateRepo), new(MockJobRepo), &MockMailer{})
		assert.NoError(t, uc.HandleStageChanged(ctx, ev))
	})
}

func TestHandleMessageSent_ContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepo)
	mailer := &MockMailer{configured: true}
	users.On("GetByID", ctx, "sender").Return(&domain.User{FirstName: "Bo", LastName: "Lee"}, nil)
	users.On("GetByID", ctx, "r1").Return(&domain.User{ID: "r1", Email: "r1@example.com"}, nil)
	users.On("GetByID", ctx, "r2").Return(&domain.User{ID: "r2", Email: "r2@example.com", IsDisabled: true}, nil)
	users.On("GetByID", ctx, "r3").Return(&domain.User{ID: "r3", Email: "r3@example.com"}, nil)
	users.On("GetSettings", ctx, mock.Anything).Return(&domain.UserSettings{EmailNotifications: true}, nil)
	mailer.On("Send", ctx, mock.MatchedBy(func(m email.Message) bool { return m.To[0] == "r1@example.com" })).
		Return(errors.New("smtp down")).Once()
	mailer.On("Send", ctx, mock.MatchedBy(func(m email.Message) bool { return m.To[0] == "r3@example.com" })).
		Return(nil).Once()

	uc := usecase.NewNotificationUsecase(users, new(MockCandidateRepo), new(MockJobRepo), mailer)
	err := uc.HandleMessageSent(ctx, domain.MessageSentEvent{
		MessageID:    "m1",
		Subject:      "Shortlist",
		SenderID:     "sender",
		RecipientIDs: []string{"r1", "r2", "r3"},
		Preview:      "see attached",
	})
	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

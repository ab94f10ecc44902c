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

func TestCalendarCreate(t *testing.T) {
	repo := new(MockCalendarRepo)
	uc := usecase.NewCalendarUsecase(repo, new(MockCandidateRepo), new(MockApplicationRepo))
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("end must follow start", func(t *testing.T) {
		_, err := uc.Create(consultantCtx, "u1", domain.CreateEventRequest{Title: "Call", StartsAt: start, EndsAt: start})
		assert.Equal(t, "ends_at", appErr(t, err).Field)
	})

	t.Run("double booking conflicts", func(t *testing.T) {
		repo.On("HasOverlap", consultantCtx, "u1", start, start.Add(time.Hour), "").Return(true, nil).Once()
		_, err := uc.Create(consultantCtx, "u1", domain.CreateEventRequest{Title: "Call", StartsAt: start, EndsAt: start.Add(time.Hour)})
		assert.Equal(t, http.StatusConflict, appErr(t, err).Code)
	})

	t.Run("organizer is not listed as attendee", func(t *testing.T) {
		repo.On("HasOverlap", consultantCtx, "u1", start, start.Add(time.Hour), "").Return(false, nil).Once()
		repo.On("Create", consultantCtx, mock.AnythingOfType("*domain.CalendarEvent")).Return(nil).Once()
		ev, err := uc.Create(consultantCtx, "u1", domain.CreateEventRequest{
			Title: "Call", StartsAt: start, EndsAt: start.Add(time.Hour),
			AttendeeIDs: []string{"u1", "u2", "u2"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"u2"}, ev.AttendeeIDs)
		assert.Equal(t, domain.EventMeeting, ev.Type)
	})
}

func TestCalendarOwnership(t *testing.T) {
	repo := new(MockCalendarRepo)
	uc := usecase.NewCalendarUsecase(repo, new(MockCandidateRepo), new(MockApplicationRepo))
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.On("GetByID", mock.Anything, "ev-1").Return(&domain.CalendarEvent{
		ID: "ev-1", OrganizerID: "u1", AttendeeIDs: []string{"u2"}, StartsAt: start, EndsAt: start.Add(time.Hour),
	}, nil)

	_, err := uc.Get(consultantCtx, "u2", "ev-1")
	assert.NoError(t, err, "attendees can view")

	_, err = uc.Get(consultantCtx, "u3", "ev-1")
	assert.Equal(t, http.StatusNotFound, appErr(t, err).Code)

	err = uc.Delete(consultantCtx, "u2", "ev-1")
	assert.Equal(t, http.StatusForbidden, appErr(t, err).Code)

	later := start.Add(2 * time.Hour)
	repo.On("HasOverlap", consultantCtx, "u1", later, start.Add(time.Hour), "ev-1").Return(false, nil).Maybe()
	_, err = uc.Update(consultantCtx, "u1", "ev-1", domain.UpdateEventRequest{StartsAt: &later})
	assert.Equal(t, "ends_at", appErr(t, err).Field)
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
)

// defaultCalendarSpan is the window listed when no range is given.
const defaultCalendarSpan = 30 * 24 * time.Hour

type calendarUsecase struct {
	repo          domain.CalendarRepository
	candidateRepo domain.CandidateRepository
	appRepo       domain.ApplicationRepository
	now           func() time.Time
}

func NewCalendarUsecase(repo domain.CalendarRepository, candidateRepo domain.CandidateRepository, appRepo domain.ApplicationRepository) domain.CalendarUsecase {
	return &calendarUsecase{repo: repo, candidateRepo: candidateRepo, appRepo: appRepo, now: time.Now}
}

func checkTimes(start, end time.Time) error {
	if !end.After(start) {
		return apperror.WithKind(apperror.KindValidation, "ends_at", "ends_at must be after starts_at")
	}
	return nil
}

func dedupeIDs(ids []string, skip string) []string {
	seen := map[string]bool{skip: true}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (u *calendarUsecase) checkOverlap(ctx context.Context, organizerID string, start, end time.Time, excludeID string) error {
	clash, err := u.repo.HasOverlap(ctx, organizerID, start, end, excludeID)
	if err != nil {
		return err
	}
	if clash {
		return apperror.Conflict("You already have an event during this time")
	}
	return nil
}

// List returns the user's events in [from, to). With no bounds it covers
// the next 30 days; a single bound extends 30 days from it.
func (u *calendarUsecase) List(ctx context.Context, userID string, filter domain.CalendarFilter) ([]domain.CalendarEvent, error) {
	var from, to time.Time
	switch {
	case filter.From != nil && filter.To != nil:
		from, to = *filter.From, *filter.To
	case filter.From != nil:
		from = *filter.From
		to = from.Add(defaultCalendarSpan)
	case filter.To != nil:
		to = *filter.To
		from = to.Add(-defaultCalendarSpan)
	default:
		from = u.now().UTC()
		to = from.Add(defaultCalendarSpan)
	}
	if !to.After(from) {
		return nil, apperror.WithKind(apperror.KindValidation, "to", "to must be after from")
	}
	events, err := u.repo.ListForUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.CalendarEvent{}
	}
	return events, nil
}

func (u *calendarUsecase) Create(ctx context.Context, userID string, req domain.CreateEventRequest) (*domain.CalendarEvent, error) {
	if err := checkTimes(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	if req.CandidateID != nil {
		if _, err := u.candidateRepo.GetByID(ctx, *req.CandidateID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.WithKind(apperror.KindValidation, "candidate_id", "Candidate does not exist")
			}
			return nil, err
		}
	}
	if req.ApplicationID != nil {
		app, err := u.appRepo.GetByID(ctx, *req.ApplicationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.WithKind(apperror.KindValidation, "application_id", "Application does not exist")
			}
			return nil, err
		}
		if req.CandidateID == nil {
			req.CandidateID = &app.CandidateID
		}
	}
	if err := u.checkOverlap(ctx, userID, req.StartsAt, req.EndsAt, ""); err != nil {
		return nil, err
	}

	ev := &domain.CalendarEvent{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Type:          domain.EventType(req.Type),
		StartsAt:      req.StartsAt.UTC(),
		EndsAt:        req.EndsAt.UTC(),
		Location:      strings.TrimSpace(req.Location),
		OrganizerID:   userID,
		CandidateID:   req.CandidateID,
		ApplicationID: req.ApplicationID,
		AttendeeIDs:   dedupeIDs(req.AttendeeIDs, userID),
	}
	if ev.Type == "" {
		ev.Type = domain.EventMeeting
	}
	if err := u.repo.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Get is visible to the organizer and attendees.
func (u *calendarUsecase) Get(ctx context.Context, userID, id string) (*domain.CalendarEvent, error) {
	ev, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Event")
	}
	if ev.OrganizerID == userID {
		return ev, nil
	}
	for _, a := range ev.AttendeeIDs {
		if a == userID {
			return ev, nil
		}
	}
	return nil, apperror.NotFound("Event not found")
}

func (u *calendarUsecase) owned(ctx context.Context, userID, id string) (*domain.CalendarEvent, error) {
	ev, err := u.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if ev.OrganizerID != userID {
		return nil, apperror.Forbidden("Only the organizer can change this event")
	}
	return ev, nil
}

func (u *calendarUsecase) Update(ctx context.Context, userID, id string, req domain.UpdateEventRequest) (*domain.CalendarEvent, error) {
	ev, err := u.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		ev.Title = strings.TrimSpace(*req.Title)
	}
	setIf(&ev.Description, req.Description)
	setIf(&ev.Location, req.Location)
	if req.Type != nil {
		ev.Type = domain.EventType(*req.Type)
	}
	if req.AttendeeIDs != nil {
		ev.AttendeeIDs = dedupeIDs(*req.AttendeeIDs, userID)
	}
	rescheduled := req.StartsAt != nil || req.EndsAt != nil
	if req.StartsAt != nil {
		ev.StartsAt = req.StartsAt.UTC()
	}
	if req.EndsAt != nil {
		ev.EndsAt = req.EndsAt.UTC()
	}
	if err := checkTimes(ev.StartsAt, ev.EndsAt); err != nil {
		return nil, err
	}
	if rescheduled {
		if err := u.checkOverlap(ctx, userID, ev.StartsAt, ev.EndsAt, ev.ID); err != nil {
			return nil, err
		}
	}
	if err := u.repo.Update(ctx, ev); err != nil {
		return nil, notFound(err, "Event")
	}
	return ev, nil
}

func (u *calendarUsecase) Delete(ctx context.Context, userID, id string) error {
	if _, err := u.owned(ctx, userID, id); err != nil {
		return err
	}
	return notFound(u.repo.SoftDelete(ctx, id), "Event")
}

package postgres

import (
	"context"
	"time"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type calendarRepo struct {
	db *pgxpool.Pool
}

func NewCalendarRepository(db *pgxpool.Pool) domain.CalendarRepository {
	return &calendarRepo{db: db}
}

const calendarColumns = `id, title, description, type, starts_at, ends_at, location, organizer_id,
	candidate_id, application_id, attendee_ids::text[], created_at, updated_at`

func scanCalendarEvent(row interface{ Scan(...any) error }) (*domain.CalendarEvent, error) {
	var ev domain.CalendarEvent
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Type, &ev.StartsAt, &ev.EndsAt, &ev.Location,
		&ev.OrganizerID, &ev.CandidateID, &ev.ApplicationID, pq.Array(&ev.AttendeeIDs), &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if ev.AttendeeIDs == nil {
		ev.AttendeeIDs = []string{}
	}
	return &ev, nil
}

func (r *calendarRepo) Create(ctx context.Context, ev *domain.CalendarEvent) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO calendar_events (title, description, type, starts_at, ends_at, location, organizer_id,
		                             candidate_id, application_id, attendee_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::uuid[])
		RETURNING id, created_at, updated_at`,
		ev.Title, ev.Description, ev.Type, ev.StartsAt, ev.EndsAt, ev.Location, ev.OrganizerID,
		ev.CandidateID, ev.ApplicationID, pq.Array(ev.AttendeeIDs),
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	return mapWriteError(err, "Event already exists")
}

func (r *calendarRepo) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	ev, err := scanCalendarEvent(r.db.QueryRow(ctx,
		`SELECT `+calendarColumns+` FROM calendar_events WHERE id = $1 AND NOT is_deleted`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return ev, nil
}

func (r *calendarRepo) ListForUser(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	rows, err := r.db.Query(ctx, `SELECT `+calendarColumns+` FROM calendar_events
		WHERE NOT is_deleted
		  AND (organizer_id = $1 OR $1 = ANY(attendee_ids))
		  AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at, id`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.CalendarEvent{}
	for rows.Next() {
		ev, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func (r *calendarRepo) Update(ctx context.Context, ev *domain.CalendarEvent) error {
	err := r.db.QueryRow(ctx, `
		UPDATE calendar_events SET title = $2, description = $3, type = $4, starts_at = $5, ends_at = $6,
		       location = $7, attendee_ids = $8::uuid[], updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
		RETURNING updated_at`,
		ev.ID, ev.Title, ev.Description, ev.Type, ev.StartsAt, ev.EndsAt, ev.Location, pq.Array(ev.AttendeeIDs),
	).Scan(&ev.UpdatedAt)
	if err != nil {
		if err = mapReadError(err); err == domain.ErrNotFound {
			return err
		}
		return mapWriteError(err, "Event already exists")
	}
	return nil
}

func (r *calendarRepo) SoftDelete(ctx context.Context, id string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE calendar_events SET is_deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT is_deleted`, id))
}

// HasOverlap reports whether the organizer already has an event intersecting
// [start, end). Back-to-back events do not overlap.
func (r *calendarRepo) HasOverlap(ctx context.Context, organizerID string, start, end time.Time, excludeID string) (bool, error) {
	var exclude any
	if excludeID != "" {
		exclude = excludeID
	}
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(
		SELECT 1 FROM calendar_events
		WHERE organizer_id = $1 AND NOT is_deleted
		  AND starts_at < $3 AND ends_at > $2
		  AND ($4::uuid IS NULL OR id <> $4::uuid))`, organizerID, start, end, exclude).Scan(&ok)
	return ok, err
}

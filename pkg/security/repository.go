package security

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SecurityEventRepository struct {
	db *pgxpool.Pool
}

func NewSecurityEventRepository(db *pgxpool.Pool) *SecurityEventRepository {
	return &SecurityEventRepository{db: db}
}

func (r *SecurityEventRepository) PersistEvent(ctx context.Context, event SecurityEvent) error {
	query := `
		INSERT INTO security_events (
			event_type, service, environment, level, severity,
			subject_type, subject_value, ip_address, user_agent,
			request_id, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	detailsJSON := []byte("null")
	if len(event.Details) > 0 {
		detailsJSON, _ = json.Marshal(event.Details)
	}

	var ipAddr interface{}
	if event.IP != "" {
		ipAddr = event.IP
	}

	_, err := r.db.Exec(ctx, query,
		string(event.Event),
		event.Service,
		event.Environment,
		event.Level,
		string(event.Severity),
		event.SubjectType,
		event.SubjectValue,
		ipAddr,
		event.UserAgent,
		event.RequestID,
		detailsJSON,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to persist security event: %w", err)
	}
	return nil
}

// EventFilter narrows ListEvents. Zero values mean "no filter".
type EventFilter struct {
	EventType string
	Severity  string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// ListEvents returns events newest first plus the total matching count.
func (r *SecurityEventRepository) ListEvents(ctx context.Context, f EventFilter) ([]SecurityEvent, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.EventType != "" {
		add("event_type = $%d", f.EventType)
	}
	if f.Severity != "" {
		add("severity = $%d", strings.ToUpper(f.Severity))
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM security_events "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT id, event_type, service, environment, level, severity,
		       COALESCE(subject_type, ''), COALESCE(subject_value, ''),
		       COALESCE(HOST(ip_address), ''), COALESCE(user_agent, ''),
		       COALESCE(request_id, ''), details, created_at
		FROM security_events %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []SecurityEvent
	for rows.Next() {
		var (
			e        SecurityEvent
			evType   string
			severity string
			details  []byte
		)
		if err := rows.Scan(&e.ID, &evType, &e.Service, &e.Environment, &e.Level, &severity,
			&e.SubjectType, &e.SubjectValue, &e.IP, &e.UserAgent, &e.RequestID, &details, &e.Timestamp); err != nil {
			return nil, 0, err
		}
		e.Event = EventType(evType)
		e.Severity = Severity(severity)
		if len(details) > 0 {
			_ = json.Unmarshal(details, &e.Details)
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *SecurityEventRepository) CreatePersistFunc() PersistFunc {
	return r.PersistEvent
}

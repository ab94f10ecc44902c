package postgres

import (
	"context"
	"fmt"
	"time"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type analyticsRepo struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) domain.AnalyticsRepository {
	return &analyticsRepo{db: db}
}

func (r *analyticsRepo) countBy(ctx context.Context, query string, args ...any) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			key string
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

func (r *analyticsRepo) CandidatesByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM candidates WHERE NOT is_deleted GROUP BY status`)
}

func (r *analyticsRepo) ApplicationsByStage(ctx context.Context, jobID *string) (map[string]int64, error) {
	return r.countBy(ctx, `SELECT stage, COUNT(*) FROM applications
		WHERE NOT is_deleted AND ($1::uuid IS NULL OR job_id = $1::uuid)
		GROUP BY stage`, jobID)
}

func (r *analyticsRepo) CountOpenJobs(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE status = 'open' AND NOT is_deleted`).Scan(&n)
	return n, err
}

func (r *analyticsRepo) CountPlacementsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT h.application_id)
		FROM application_stage_history h
		JOIN applications a ON a.id = h.application_id AND NOT a.is_deleted
		WHERE h.to_stage = 'hired' AND h.changed_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *analyticsRepo) CountCandidatesSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidates WHERE NOT is_deleted AND created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *analyticsRepo) FurthestStageCounts(ctx context.Context, jobID *string) (map[domain.Stage]int64, error) {
	rows, err := r.db.Query(ctx, `
		WITH ranked AS (
			SELECT h.application_id,
			       MAX(array_position(ARRAY['sourced','applied','screening','interview','offer','hired'], h.to_stage)) AS furthest
			FROM application_stage_history h
			JOIN applications a ON a.id = h.application_id AND NOT a.is_deleted
			WHERE ($1::uuid IS NULL OR a.job_id = $1::uuid)
			GROUP BY h.application_id
		)
		SELECT (ARRAY['sourced','applied','screening','interview','offer','hired'])[furthest], COUNT(*)
		FROM ranked
		WHERE furthest IS NOT NULL
		GROUP BY furthest`, jobID)
	if err != nil {
		return nil, fmt.Errorf("funnel query failed: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Stage]int64)
	for rows.Next() {
		var (
			stage string
			n     int64
		)
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		out[domain.Stage(stage)] = n
	}
	return out, rows.Err()
}

func (r *analyticsRepo) ConsultantStats(ctx context.Context) ([]domain.ConsultantStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.first_name || ' ' || u.last_name,
		       (SELECT COUNT(*) FROM candidates c WHERE c.owner_id = u.id AND NOT c.is_deleted),
		       (SELECT COUNT(*) FROM applications a WHERE a.created_by = u.id AND NOT a.is_deleted),
		       (SELECT COUNT(DISTINCT h.application_id) FROM application_stage_history h
		          JOIN applications a ON a.id = h.application_id AND NOT a.is_deleted
		          JOIN candidates c ON c.id = a.candidate_id
		        WHERE h.to_stage = 'hired' AND c.owner_id = u.id)
		FROM users u
		WHERE NOT u.is_deleted AND u.role IN ('consultant', 'manager')
		ORDER BY 5 DESC, 2`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []domain.ConsultantStats{}
	for rows.Next() {
		var s domain.ConsultantStats
		if err := rows.Scan(&s.UserID, &s.Name, &s.CandidatesOwned, &s.ApplicationsCreated, &s.Placements); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *analyticsRepo) ExportCandidates(ctx context.Context) ([]domain.CandidateExportRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.first_name || ' ' || c.last_name, c.email, c.status, c.current_title, c.location,
		       COALESCE(u.first_name || ' ' || u.last_name, ''), c.tags, c.created_at
		FROM candidates c
		LEFT JOIN users u ON u.id = c.owner_id
		WHERE NOT c.is_deleted
		ORDER BY c.created_at, c.id`)
	if err != nil {
		return nil, fmt.Errorf("export query failed: %w", err)
	}
	defer rows.Close()

	var out []domain.CandidateExportRow
	for rows.Next() {
		var row domain.CandidateExportRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Email, &row.Status, &row.CurrentTitle, &row.Location,
			&row.Owner, pq.Array(&row.Tags), &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) ExportApplications(ctx context.Context) ([]domain.ApplicationExportRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, c.first_name || ' ' || c.last_name, j.title, co.name, a.stage, a.match_score::int,
		       a.created_at, a.updated_at
		FROM applications a
		JOIN candidates c ON c.id = a.candidate_id
		JOIN jobs j ON j.id = a.job_id
		JOIN companies co ON co.id = j.company_id
		WHERE NOT a.is_deleted
		ORDER BY a.created_at, a.id`)
	if err != nil {
		return nil, fmt.Errorf("export query failed: %w", err)
	}
	defer rows.Close()

	var out []domain.ApplicationExportRow
	for rows.Next() {
		var row domain.ApplicationExportRow
		if err := rows.Scan(&row.ID, &row.Candidate, &row.Job, &row.Company, &row.Stage, &row.MatchScore,
			&row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

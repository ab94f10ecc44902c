package postgres

import (
	"context"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type searchRepo struct {
	db *pgxpool.Pool
}

func NewSearchRepository(db *pgxpool.Pool) domain.SearchRepository {
	return &searchRepo{db: db}
}

func (r *searchRepo) hits(ctx context.Context, kind, query string, args ...any) ([]domain.SearchHit, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := []domain.SearchHit{}
	for rows.Next() {
		h := domain.SearchHit{Type: kind}
		if err := rows.Scan(&h.ID, &h.Title, &h.Subtitle); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (r *searchRepo) SearchCandidates(ctx context.Context, q string, limit int) ([]domain.SearchHit, error) {
	return r.hits(ctx, domain.SearchCandidates, `
		SELECT id, first_name || ' ' || last_name, CONCAT_WS(' · ', NULLIF(current_title, ''), email)
		FROM candidates
		WHERE NOT is_deleted
		  AND (first_name || ' ' || last_name ILIKE $1 OR email ILIKE $1 OR current_title ILIKE $1)
		ORDER BY last_name, first_name
		LIMIT $2`, likePattern(q), limit)
}

func (r *searchRepo) SearchCompanies(ctx context.Context, q string, limit int) ([]domain.SearchHit, error) {
	return r.hits(ctx, domain.SearchCompanies, `
		SELECT id, name, CONCAT_WS(' · ', NULLIF(industry, ''), NULLIF(location, ''))
		FROM companies
		WHERE NOT is_deleted AND (name ILIKE $1 OR industry ILIKE $1)
		ORDER BY name
		LIMIT $2`, likePattern(q), limit)
}

func (r *searchRepo) SearchJobs(ctx context.Context, q string, limit int) ([]domain.SearchHit, error) {
	return r.hits(ctx, domain.SearchJobs, `
		SELECT j.id, j.title, CONCAT_WS(' · ', co.name, NULLIF(j.location, ''), j.status)
		FROM jobs j
		JOIN companies co ON co.id = j.company_id
		WHERE NOT j.is_deleted AND (j.title ILIKE $1 OR co.name ILIKE $1)
		ORDER BY j.created_at DESC
		LIMIT $2`, likePattern(q), limit)
}

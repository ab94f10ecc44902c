package postgres

import (
	"context"
	"fmt"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type candidateRepo struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

const candidateColumns = `c.id, c.first_name, c.last_name, c.email, c.phone, c.location, c.current_title,
	c.current_company, c.summary, c.cv_text, c.linkedin_url, c.source, c.status, c.owner_id, c.tags,
	c.created_at, c.updated_at`

func scanCandidate(row interface{ Scan(...any) error }) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Location, &c.CurrentTitle,
		&c.CurrentCompany, &c.Summary, &c.CVText, &c.LinkedInURL, &c.Source, &c.Status, &c.OwnerID,
		pq.Array(&c.Tags), &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}

func (r *candidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	query := `INSERT INTO candidates (first_name, last_name, email, phone, location, current_title, current_company,
                  summary, cv_text, linkedin_url, source, status, owner_id, tags)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Location, c.CurrentTitle, c.CurrentCompany,
		c.Summary, c.CVText, c.LinkedInURL, c.Source, c.Status, c.OwnerID, pq.Array(c.Tags),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapWriteError(err, "Candidate with this email already exists")
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates c WHERE c.id = $1 AND NOT c.is_deleted`
	c, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	skills, err := r.GetSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Skills = skills
	return c, nil
}

func (r *candidateRepo) List(ctx context.Context, f domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	w := newWhere("NOT c.is_deleted")
	if f.Query != "" {
		w.add(`(c.first_name ILIKE $%[1]d OR c.last_name ILIKE $%[1]d OR c.email ILIKE $%[1]d
			OR c.current_title ILIKE $%[1]d OR (c.first_name || ' ' || c.last_name) ILIKE $%[1]d)`, likePattern(f.Query))
	}
	if f.Status != "" {
		w.add("c.status = $%d", f.Status)
	}
	if f.OwnerID != "" {
		w.add("c.owner_id = $%d", f.OwnerID)
	}
	if f.Tag != "" {
		w.add("$%d = ANY(c.tags)", f.Tag)
	}
	if f.SkillID != "" {
		w.add("EXISTS (SELECT 1 FROM candidate_skills cs WHERE cs.candidate_id = c.id AND cs.skill_id = $%d)", f.SkillID)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidates c `+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	limit, args := w.page(f.PageQuery)
	rows, err := r.db.Query(ctx, `SELECT `+candidateColumns+` FROM candidates c `+w.sql()+
		` ORDER BY c.created_at DESC, c.id `+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var list []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

func (r *candidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	query := `UPDATE candidates SET first_name = $2, last_name = $3, email = $4, phone = $5, location = $6,
                  current_title = $7, current_company = $8, summary = $9, cv_text = $10, linkedin_url = $11,
                  source = $12, status = $13, owner_id = $14, tags = $15, updated_at = NOW()
              WHERE id = $1 AND NOT is_deleted
              RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Location, c.CurrentTitle, c.CurrentCompany,
		c.Summary, c.CVText, c.LinkedInURL, c.Source, c.Status, c.OwnerID, pq.Array(c.Tags),
	).Scan(&c.UpdatedAt)
	if err != nil {
		if err = mapReadError(err); err == domain.ErrNotFound {
			return err
		}
		return mapWriteError(err, "Candidate with this email already exists")
	}
	return nil
}

func (r *candidateRepo) SoftDelete(ctx context.Context, id string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE candidates SET is_deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT is_deleted`, id))
}

func (r *candidateRepo) GetSkills(ctx context.Context, candidateID string) ([]domain.CandidateSkill, error) {
	query := `SELECT s.id, s.name, s.category, cs.level, cs.years
              FROM candidate_skills cs
              JOIN skills s ON s.id = cs.skill_id AND NOT s.is_deleted
              WHERE cs.candidate_id = $1
              ORDER BY cs.level DESC, s.name`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch skills: %w", err)
	}
	defer rows.Close()

	skills := []domain.CandidateSkill{}
	for rows.Next() {
		var s domain.CandidateSkill
		if err := rows.Scan(&s.SkillID, &s.Name, &s.Category, &s.Level, &s.Years); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *candidateRepo) ReplaceSkills(ctx context.Context, candidateID string, skills []domain.CandidateSkill) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM candidate_skills WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clean skills: %w", err)
	}
	for _, s := range skills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO candidate_skills (candidate_id, skill_id, level, years) VALUES ($1, $2, $3, $4)`,
			candidateID, s.SkillID, s.Level, s.Years); err != nil {
			return mapWriteError(fmt.Errorf("failed to insert skill %s: %w", s.SkillID, err), "Duplicate skill")
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE candidates SET updated_at = NOW() WHERE id = $1`, candidateID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *candidateRepo) MergeSkills(ctx context.Context, candidateID string, skills []domain.CandidateSkill) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range skills {
		_, err := tx.Exec(ctx, `
			INSERT INTO candidate_skills (candidate_id, skill_id, level, years) VALUES ($1, $2, $3, $4)
			ON CONFLICT (candidate_id, skill_id) DO UPDATE SET
				level = GREATEST(candidate_skills.level, EXCLUDED.level),
				years = GREATEST(candidate_skills.years, EXCLUDED.years)`,
			candidateID, s.SkillID, s.Level, s.Years)
		if err != nil {
			return mapWriteError(fmt.Errorf("failed to merge skill %s: %w", s.SkillID, err), "Duplicate skill")
		}
	}
	return tx.Commit(ctx)
}

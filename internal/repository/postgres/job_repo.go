package postgres

import (
	"context"
	"fmt"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `j.id, j.company_id, co.name, j.title, j.description, j.location, j.employment_type,
	j.salary_min::float8, j.salary_max::float8, j.currency, j.openings, j.status, j.consultant_id,
	j.created_at, j.updated_at`

const jobFrom = ` FROM jobs j JOIN companies co ON co.id = j.company_id `

func scanJob(row interface{ Scan(...any) error }) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Description, &j.Location, &j.EmploymentType,
		&j.SalaryMin, &j.SalaryMax, &j.Currency, &j.Openings, &j.Status, &j.ConsultantID,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (company_id, title, description, location, employment_type, salary_min, salary_max,
                  currency, openings, status, consultant_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		job.CompanyID, job.Title, job.Description, job.Location, job.EmploymentType, job.SalaryMin, job.SalaryMax,
		job.Currency, job.Openings, job.Status, job.ConsultantID,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	return mapWriteError(err, "Job already exists")
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + jobFrom + `WHERE j.id = $1 AND NOT j.is_deleted`
	j, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	skills, err := r.GetSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	j.Skills = skills
	return j, nil
}

func (r *jobRepo) List(ctx context.Context, f domain.JobFilter) ([]domain.Job, int64, error) {
	w := newWhere("NOT j.is_deleted")
	if f.Query != "" {
		w.add("(j.title ILIKE $%[1]d OR j.location ILIKE $%[1]d OR co.name ILIKE $%[1]d)", likePattern(f.Query))
	}
	if f.Status != "" {
		w.add("j.status = $%d", f.Status)
	}
	if f.CompanyID != "" {
		w.add("j.company_id = $%d", f.CompanyID)
	}
	if f.ConsultantID != "" {
		w.add("j.consultant_id = $%d", f.ConsultantID)
	}
	if f.EmploymentType != "" {
		w.add("j.employment_type = $%d", f.EmploymentType)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+jobFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.PageQuery)
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+jobFrom+w.sql()+` ORDER BY j.created_at DESC, j.id `+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET title = $2, description = $3, location = $4, employment_type = $5, salary_min = $6,
                  salary_max = $7, currency = $8, openings = $9, consultant_id = $10, updated_at = NOW()
              WHERE id = $1 AND NOT is_deleted
              RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		job.ID, job.Title, job.Description, job.Location, job.EmploymentType, job.SalaryMin,
		job.SalaryMax, job.Currency, job.Openings, job.ConsultantID,
	).Scan(&job.UpdatedAt)
	if err != nil {
		if err = mapReadError(err); err == domain.ErrNotFound {
			return err
		}
		return mapWriteError(err, "Job already exists")
	}
	return nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`, id, status))
}

func (r *jobRepo) SoftDelete(ctx context.Context, id string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE jobs SET is_deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT is_deleted`, id))
}

func (r *jobRepo) GetSkills(ctx context.Context, jobID string) ([]domain.JobSkill, error) {
	query := `SELECT s.id, s.name, s.category, js.min_level, js.required
              FROM job_skills js
              JOIN skills s ON s.id = js.skill_id AND NOT s.is_deleted
              WHERE js.job_id = $1
              ORDER BY js.required DESC, s.name`
	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job skills: %w", err)
	}
	defer rows.Close()

	skills := []domain.JobSkill{}
	for rows.Next() {
		var s domain.JobSkill
		if err := rows.Scan(&s.SkillID, &s.Name, &s.Category, &s.MinLevel, &s.Required); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *jobRepo) ReplaceSkills(ctx context.Context, jobID string, skills []domain.JobSkill) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM job_skills WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("failed to clean job skills: %w", err)
	}
	for _, s := range skills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_skills (job_id, skill_id, min_level, required) VALUES ($1, $2, $3, $4)`,
			jobID, s.SkillID, s.MinLevel, s.Required); err != nil {
			return mapWriteError(fmt.Errorf("failed to insert job skill %s: %w", s.SkillID, err), "Duplicate skill")
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE jobs SET updated_at = NOW() WHERE id = $1`, jobID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

package postgres

import (
	"context"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type skillRepo struct {
	db *pgxpool.Pool
}

func NewSkillRepository(db *pgxpool.Pool) domain.SkillRepository {
	return &skillRepo{db: db}
}

const skillColumns = `id, name, category, created_at, updated_at`

func scanSkill(row interface{ Scan(...any) error }) (*domain.Skill, error) {
	var s domain.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *skillRepo) Create(ctx context.Context, s *domain.Skill) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO skills (name, category) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		s.Name, s.Category,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return mapWriteError(err, "Skill with this name already exists")
}

func (r *skillRepo) GetByID(ctx context.Context, id string) (*domain.Skill, error) {
	s, err := scanSkill(r.db.QueryRow(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE id = $1 AND NOT is_deleted`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return s, nil
}

func (r *skillRepo) List(ctx context.Context, f domain.SkillFilter) ([]domain.Skill, int64, error) {
	w := newWhere("NOT is_deleted")
	if f.Query != "" {
		w.add("name ILIKE $%d", likePattern(f.Query))
	}
	if f.Category != "" {
		w.add("category = $%d", f.Category)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM skills `+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.PageQuery)
	rows, err := r.db.Query(ctx, `SELECT `+skillColumns+` FROM skills `+w.sql()+` ORDER BY LOWER(name), id `+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, 0, err
		}
		skills = append(skills, *s)
	}
	return skills, total, rows.Err()
}

func (r *skillRepo) Update(ctx context.Context, s *domain.Skill) error {
	err := r.db.QueryRow(ctx,
		`UPDATE skills SET name = $2, category = $3, updated_at = NOW() WHERE id = $1 AND NOT is_deleted RETURNING updated_at`,
		s.ID, s.Name, s.Category,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if err = mapReadError(err); err == domain.ErrNotFound {
			return err
		}
		return mapWriteError(err, "Skill with this name already exists")
	}
	return nil
}

func (r *skillRepo) SoftDelete(ctx context.Context, id string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE skills SET is_deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT is_deleted`, id))
}

// UpsertByName relies on the partial unique index on LOWER(name). The no-op
// DO UPDATE makes RETURNING yield the existing row on conflict.
func (r *skillRepo) UpsertByName(ctx context.Context, name string, category domain.SkillCategory) (*domain.Skill, error) {
	query := `INSERT INTO skills (name, category) VALUES ($1, $2)
              ON CONFLICT (LOWER(name)) WHERE NOT is_deleted DO UPDATE SET name = skills.name
              RETURNING ` + skillColumns
	s, err := scanSkill(r.db.QueryRow(ctx, query, name, category))
	if err != nil {
		return nil, mapWriteError(err, "Skill with this name already exists")
	}
	return s, nil
}

func (r *skillRepo) ListNames(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM skills WHERE NOT is_deleted ORDER BY LOWER(name) LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

package postgres

import (
	"context"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `co.id, co.name, co.industry, co.website, co.size, co.location, co.description,
	co.status, co.owner_id, co.created_at, co.updated_at,
	(SELECT COUNT(*) FROM jobs j WHERE j.company_id = co.id AND j.status = 'open' AND NOT j.is_deleted)`

func scanCompany(row interface{ Scan(...any) error }) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Website, &c.Size, &c.Location, &c.Description,
		&c.Status, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt, &c.OpenJobs)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) Create(ctx context.Context, c *domain.Company) error {
	query := `INSERT INTO companies (name, industry, website, size, location, description, status, owner_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		c.Name, c.Industry, c.Website, c.Size, c.Location, c.Description, c.Status, c.OwnerID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapWriteError(err, "Company with this name already exists")
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies co WHERE co.id = $1 AND NOT co.is_deleted`
	c, err := scanCompany(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return c, nil
}

func (r *companyRepo) List(ctx context.Context, f domain.CompanyFilter) ([]domain.Company, int64, error) {
	w := newWhere("NOT co.is_deleted")
	if f.Query != "" {
		w.add("(co.name ILIKE $%[1]d OR co.industry ILIKE $%[1]d OR co.location ILIKE $%[1]d)", likePattern(f.Query))
	}
	if f.Status != "" {
		w.add("co.status = $%d", f.Status)
	}
	if f.Industry != "" {
		w.add("LOWER(co.industry) = LOWER($%d)", f.Industry)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies co `+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.PageQuery)
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies co `+w.sql()+
		` ORDER BY co.name, co.id `+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

func (r *companyRepo) Update(ctx context.Context, c *domain.Company) error {
	query := `UPDATE companies SET name = $2, industry = $3, website = $4, size = $5, location = $6,
                  description = $7, status = $8, owner_id = $9, updated_at = NOW()
              WHERE id = $1 AND NOT is_deleted
              RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Industry, c.Website, c.Size, c.Location, c.Description, c.Status, c.OwnerID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if err = mapReadError(err); err == domain.ErrNotFound {
			return err
		}
		return mapWriteError(err, "Company with this name already exists")
	}
	return nil
}

func (r *companyRepo) SoftDelete(ctx context.Context, id string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE companies SET is_deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT is_deleted`, id))
}

// CountActiveJobs counts jobs that are not closed, filled or deleted.
func (r *companyRepo) CountActiveJobs(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs
		WHERE company_id = $1 AND NOT is_deleted AND status IN ('draft', 'open', 'on_hold')`, id).Scan(&n)
	return n, err
}

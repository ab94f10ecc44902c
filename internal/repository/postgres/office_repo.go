package postgres

import (
	"context"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type officeRepo struct {
	db *pgxpool.Pool
}

func NewOfficeRepository(db *pgxpool.Pool) domain.OfficeRepository {
	return &officeRepo{db: db}
}

const officeColumns = `id, name, city, country, address, timezone, phone, created_at, updated_at`

func scanOffice(row interface{ Scan(...any) error }) (*domain.Office, error) {
	var o domain.Office
	err := row.Scan(&o.ID, &o.Name, &o.City, &o.Country, &o.Address, &o.Timezone, &o.Phone, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *officeRepo) Create(ctx context.Context, o *domain.Office) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO offices (name, city, country, address, timezone, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		o.Name, o.City, o.Country, o.Address, o.Timezone, o.Phone,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return mapWriteError(err, "Office with this name already exists")
}

func (r *officeRepo) GetByID(ctx context.Context, id string) (*domain.Office, error) {
	o, err := scanOffice(r.db.QueryRow(ctx, `SELECT `+officeColumns+` FROM offices WHERE id = $1 AND NOT is_deleted`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return o, nil
}

func (r *officeRepo) List(ctx context.Context, page domain.PageQuery) ([]domain.Office, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM offices WHERE NOT is_deleted`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+officeColumns+` FROM offices WHERE NOT is_deleted
		ORDER BY name, id LIMIT $1 OFFSET $2`, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var offices []domain.Office
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, 0, err
		}
		offices = append(offices, *o)
	}
	return offices, total, rows.Err()
}

func (r *officeRepo) Update(ctx context.Context, o *domain.Office) error {
	err := r.db.QueryRow(ctx, `
		UPDATE offices SET name = $2, city = $3, country = $4, address = $5, timezone = $6, phone = $7, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
		RETURNING updated_at`,
		o.ID, o.Name, o.City, o.Country, o.Address, o.Timezone, o.Phone,
	).Scan(&o.UpdatedAt)
	if err != nil {
		if err = mapReadError(err); err == domain.ErrNotFound {
			return err
		}
		return mapWriteError(err, "Office with this name already exists")
	}
	return nil
}

// SoftDelete also detaches the office's consultants.
func (r *officeRepo) SoftDelete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := checkAffected(tx.Exec(ctx,
		`UPDATE offices SET is_deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT is_deleted`, id)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE consultants SET office_id = NULL, updated_at = NOW() WHERE office_id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type consultantRepo struct {
	db *pgxpool.Pool
}

func NewConsultantRepository(db *pgxpool.Pool) domain.ConsultantRepository {
	return &consultantRepo{db: db}
}

const consultantColumns = `cn.id, cn.user_id, u.first_name || ' ' || u.last_name, u.email, cn.office_id,
	COALESCE(o.name, ''), cn.title, cn.specializations, cn.phone, cn.is_active, cn.created_at, cn.updated_at`

const consultantFrom = ` FROM consultants cn
	JOIN users u ON u.id = cn.user_id
	LEFT JOIN offices o ON o.id = cn.office_id AND NOT o.is_deleted `

func scanConsultant(row interface{ Scan(...any) error }) (*domain.Consultant, error) {
	var c domain.Consultant
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.OfficeID, &c.OfficeName, &c.Title,
		pq.Array(&c.Specializations), &c.Phone, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Specializations == nil {
		c.Specializations = []string{}
	}
	return &c, nil
}

func (r *consultantRepo) Create(ctx context.Context, c *domain.Consultant) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO consultants (user_id, office_id, title, specializations, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		c.UserID, c.OfficeID, c.Title, pq.Array(c.Specializations), c.Phone, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapWriteError(err, "User already has a consultant profile")
}

func (r *consultantRepo) GetByID(ctx context.Context, id string) (*domain.Consultant, error) {
	c, err := scanConsultant(r.db.QueryRow(ctx, `SELECT `+consultantColumns+consultantFrom+
		`WHERE cn.id = $1 AND NOT cn.is_deleted`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return c, nil
}

func (r *consultantRepo) List(ctx context.Context, f domain.ConsultantFilter) ([]domain.Consultant, int64, error) {
	w := newWhere("NOT cn.is_deleted", "NOT u.is_deleted")
	if f.OfficeID != "" {
		w.add("cn.office_id = $%d", f.OfficeID)
	}
	if f.ActiveOnly {
		w.conds = append(w.conds, "cn.is_active")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+consultantFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.PageQuery)
	rows, err := r.db.Query(ctx, `SELECT `+consultantColumns+consultantFrom+w.sql()+
		` ORDER BY u.last_name, u.first_name, cn.id `+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []domain.Consultant
	for rows.Next() {
		c, err := scanConsultant(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

func (r *consultantRepo) Update(ctx context.Context, c *domain.Consultant) error {
	err := r.db.QueryRow(ctx, `
		UPDATE consultants SET office_id = $2, title = $3, specializations = $4, phone = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
		RETURNING updated_at`,
		c.ID, c.OfficeID, c.Title, pq.Array(c.Specializations), c.Phone, c.IsActive,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if err = mapReadError(err); err == domain.ErrNotFound {
			return err
		}
		return mapWriteError(err, "User already has a consultant profile")
	}
	return nil
}

func (r *consultantRepo) SoftDelete(ctx context.Context, id string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE consultants SET is_deleted = TRUE, deleted_at = NOW(), is_active = FALSE WHERE id = $1 AND NOT is_deleted`, id))
}

package postgres

import (
	"context"
	"time"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, role,
	is_disabled, totp_secret, totp_enabled, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Role,
		&u.IsDisabled, &u.TOTPSecret, &u.TOTPEnabled, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, password_hash, first_name, last_name, phone, role, is_disabled)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.Role, user.IsDisabled,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapWriteError(err, "User with this email already exists")
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND NOT is_deleted`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) AND NOT is_deleted`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapReadError(err)
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	w := newWhere("NOT is_deleted")
	if !f.IncludeDisabled {
		w.conds = append(w.conds, "NOT is_disabled")
	}
	if f.Role != "" {
		w.add("role = $%d", f.Role)
	}
	if f.Query != "" {
		w.add(`(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR email ILIKE $%[1]d)`, likePattern(f.Query))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users `+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.PageQuery)
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users `+w.sql()+
		` ORDER BY last_name, first_name, id `+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET first_name = $2, last_name = $3, phone = $4, role = $5, is_disabled = $6, updated_at = NOW()
              WHERE id = $1 AND NOT is_deleted
              RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Phone, user.Role, user.IsDisabled,
	).Scan(&user.UpdatedAt)
	return mapReadError(err)
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`, id, passwordHash))
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return checkAffected(r.db.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at))
}

func (r *userRepo) SetTOTP(ctx context.Context, id string, secret *string, enabled bool) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE users SET totp_secret = $2, totp_enabled = $3, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`,
		id, secret, enabled))
}

func (r *userRepo) SoftDelete(ctx context.Context, id string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE users SET is_deleted = TRUE, deleted_at = NOW(), is_disabled = TRUE WHERE id = $1 AND NOT is_deleted`, id))
}

func (r *userRepo) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	query := `SELECT user_id, theme, language, timezone, email_notifications, signature, updated_at
              FROM user_settings WHERE user_id = $1`
	var s domain.UserSettings
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.Theme, &s.Language, &s.Timezone, &s.EmailNotifications, &s.Signature, &s.UpdatedAt,
	)
	if err != nil {
		if err = mapReadError(err); err == domain.ErrNotFound {
			return domain.DefaultUserSettings(userID), nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *userRepo) UpsertSettings(ctx context.Context, s *domain.UserSettings) error {
	query := `INSERT INTO user_settings (user_id, theme, language, timezone, email_notifications, signature, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, NOW())
              ON CONFLICT (user_id) DO UPDATE SET
                  theme = EXCLUDED.theme,
                  language = EXCLUDED.language,
                  timezone = EXCLUDED.timezone,
                  email_notifications = EXCLUDED.email_notifications,
                  signature = EXCLUDED.signature,
                  updated_at = NOW()
              RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		s.UserID, s.Theme, s.Language, s.Timezone, s.EmailNotifications, s.Signature,
	).Scan(&s.UpdatedAt)
	return mapWriteError(err, "Settings already exist")
}

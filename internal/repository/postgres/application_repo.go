package postgres

import (
	"context"
	"fmt"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `a.id, a.candidate_id, a.job_id, c.first_name || ' ' || c.last_name, j.title, co.name,
	a.stage, a.match_score, a.notes, a.rejection_reason, a.created_by, a.created_at, a.updated_at`

const applicationFrom = ` FROM applications a
	JOIN candidates c ON c.id = a.candidate_id
	JOIN jobs j ON j.id = a.job_id
	JOIN companies co ON co.id = j.company_id `

func scanApplication(row interface{ Scan(...any) error }) (*domain.Application, error) {
	var a domain.Application
	var score *int16
	err := row.Scan(&a.ID, &a.CandidateID, &a.JobID, &a.CandidateName, &a.JobTitle, &a.CompanyName,
		&a.Stage, &score, &a.Notes, &a.RejectionReason, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if score != nil {
		v := int(*score)
		a.MatchScore = &v
	}
	return &a, nil
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO applications (candidate_id, job_id, stage, notes, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		app.CandidateID, app.JobID, app.Stage, app.Notes, app.CreatedBy,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Candidate already has an application for this job")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO application_stage_history (application_id, from_stage, to_stage, changed_by, changed_at)
		VALUES ($1, NULL, $2, $3, $4)`,
		app.ID, app.Stage, app.CreatedBy, app.CreatedAt); err != nil {
		return fmt.Errorf("failed to record initial stage: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	a, err := scanApplication(r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+applicationFrom+`WHERE a.id = $1 AND NOT a.is_deleted`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return a, nil
}

func (r *applicationRepo) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int64, error) {
	w := newWhere("NOT a.is_deleted", "NOT c.is_deleted", "NOT j.is_deleted")
	if f.JobID != "" {
		w.add("a.job_id = $%d", f.JobID)
	}
	if f.CandidateID != "" {
		w.add("a.candidate_id = $%d", f.CandidateID)
	}
	if f.Stage != "" {
		w.add("a.stage = $%d", f.Stage)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+applicationFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.PageQuery)
	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+applicationFrom+w.sql()+
		` ORDER BY a.updated_at DESC, a.id `+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, *a)
	}
	return apps, total, rows.Err()
}

func (r *applicationRepo) ChangeStage(ctx context.Context, id string, from, to domain.Stage, reason *string, changedBy string) (*domain.StageChangeResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var rejection *string
	if to == domain.StageRejected {
		rejection = reason
	}

	var candidateID, jobID string
	err = tx.QueryRow(ctx, `
		UPDATE applications
		SET stage = $3, rejection_reason = COALESCE($4, rejection_reason), updated_at = NOW()
		WHERE id = $1 AND stage = $2 AND NOT is_deleted
		RETURNING candidate_id, job_id`,
		id, from, to, rejection,
	).Scan(&candidateID, &jobID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrStaleState
		}
		return nil, err
	}

	res := &domain.StageChangeResult{}
	fromStage := from
	res.Change = domain.StageChange{
		ApplicationID: id,
		FromStage:     &fromStage,
		ToStage:       to,
		Reason:        reason,
		ChangedBy:     &changedBy,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO application_stage_history (application_id, from_stage, to_stage, reason, changed_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, changed_at`,
		id, from, to, reason, changedBy,
	).Scan(&res.Change.ID, &res.Change.ChangedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record stage change: %w", err)
	}

	if to == domain.StageHired {
		if err := r.applyHired(ctx, tx, candidateID, jobID, res); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// applyHired places the candidate and fills the job once hires reach its openings.
func (r *applicationRepo) applyHired(ctx context.Context, tx pgx.Tx, candidateID, jobID string, res *domain.StageChangeResult) error {
	tag, err := tx.Exec(ctx,
		`UPDATE candidates SET status = 'placed', updated_at = NOW() WHERE id = $1 AND NOT is_deleted`, candidateID)
	if err != nil {
		return fmt.Errorf("failed to place candidate: %w", err)
	}
	res.CandidatePlaced = tag.RowsAffected() > 0

	tag, err = tx.Exec(ctx, `
		UPDATE jobs SET status = 'filled', updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted AND status IN ('open', 'on_hold')
		  AND openings <= (SELECT COUNT(*) FROM applications
		                   WHERE job_id = $1 AND stage = 'hired' AND NOT is_deleted)`, jobID)
	if err != nil {
		return fmt.Errorf("failed to fill job: %w", err)
	}
	res.JobFilled = tag.RowsAffected() > 0
	return nil
}

func (r *applicationRepo) History(ctx context.Context, id string) ([]domain.StageChange, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, application_id, from_stage, to_stage, reason, changed_by, changed_at
		FROM application_stage_history
		WHERE application_id = $1
		ORDER BY changed_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []domain.StageChange{}
	for rows.Next() {
		var h domain.StageChange
		if err := rows.Scan(&h.ID, &h.ApplicationID, &h.FromStage, &h.ToStage, &h.Reason, &h.ChangedBy, &h.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *applicationRepo) SetMatchScore(ctx context.Context, id string, score int) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE applications SET match_score = $2, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`, id, score))
}

func (r *applicationRepo) FindByCandidateAndJob(ctx context.Context, candidateID, jobID string) (*domain.Application, error) {
	a, err := scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+applicationFrom+
		`WHERE a.candidate_id = $1 AND a.job_id = $2 AND NOT a.is_deleted`, candidateID, jobID))
	if err != nil {
		return nil, mapReadError(err)
	}
	return a, nil
}

func (r *applicationRepo) SoftDelete(ctx context.Context, id string) error {
	return checkAffected(r.db.Exec(ctx,
		`UPDATE applications SET is_deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT is_deleted`, id))
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/logger"
)

type applicationUsecase struct {
	appRepo       domain.ApplicationRepository
	candidateRepo domain.CandidateRepository
	jobRepo       domain.JobRepository
	publisher     domain.EventPublisher
}

func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	candidateRepo domain.CandidateRepository,
	jobRepo domain.JobRepository,
	publisher domain.EventPublisher,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:       appRepo,
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		publisher:     publisher,
	}
}

func (u *applicationUsecase) Create(ctx context.Context, req domain.CreateApplicationRequest) (*domain.Application, error) {
	actor, err := currentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	candidate, err := u.candidateRepo.GetByID(ctx, req.CandidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.WithKind(apperror.KindValidation, "candidate_id", "Candidate does not exist")
		}
		return nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.WithKind(apperror.KindValidation, "job_id", "Job does not exist")
		}
		return nil, err
	}
	if job.Status != domain.JobOpen {
		return nil, apperror.Conflict(fmt.Sprintf("Job is %s and does not accept applications", job.Status))
	}

	existing, err := u.appRepo.FindByCandidateAndJob(ctx, candidate.ID, job.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Candidate already applied to this job")
	}

	app := &domain.Application{
		CandidateID:   candidate.ID,
		JobID:         job.ID,
		CandidateName: candidate.FullName(),
		JobTitle:      job.Title,
		CompanyName:   job.CompanyName,
		Stage:         domain.Stage(req.Stage),
		Notes:         req.Notes,
		CreatedBy:     &actor.UserID,
	}
	if app.Stage == "" {
		app.Stage = domain.StageSourced
	}
	if err := u.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (u *applicationUsecase) Get(ctx context.Context, id string) (*domain.Application, error) {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application")
	}
	return app, nil
}

func (u *applicationUsecase) List(ctx context.Context, filter domain.ApplicationFilter) (*domain.PaginatedResult[domain.Application], error) {
	filter.Normalize()
	apps, total, err := u.appRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(apps, total, filter.PageQuery), nil
}

// ChangeStage validates the move against the stage graph, applies it and
// announces it on the event bus. Concurrent moves of the same application
// surface as a conflict.
func (u *applicationUsecase) ChangeStage(ctx context.Context, id string, req domain.ChangeStageRequest) (*domain.Application, error) {
	actor, err := currentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application")
	}

	next := domain.Stage(req.Stage)
	if app.Stage.IsTerminal() {
		return nil, apperror.Conflict(fmt.Sprintf("Application is already %s", app.Stage))
	}
	if !app.Stage.CanTransitionTo(next) {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot move application from %s to %s", app.Stage, next))
	}
	reason := trimmed(req.Reason)

	res, err := u.appRepo.ChangeStage(ctx, id, app.Stage, next, reason, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			return nil, apperror.Conflict("Application was modified by another request; reload and retry")
		}
		return nil, notFound(err, "Application")
	}
	if res.JobFilled {
		logger.Log.Info("job filled", "job_id", app.JobID, "application_id", id)
	}

	publish(ctx, u.publisher, domain.EventApplicationStageChanged, domain.StageChangedEvent{
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		JobID:         app.JobID,
		FromStage:     app.Stage,
		ToStage:       next,
		Reason:        reason,
		ChangedBy:     actor.UserID,
		ChangedAt:     res.Change.ChangedAt,
	})

	app.Stage = next
	if next == domain.StageRejected && reason != nil {
		app.RejectionReason = reason
	}
	app.UpdatedAt = res.Change.ChangedAt
	return app, nil
}

func (u *applicationUsecase) History(ctx context.Context, id string) ([]domain.StageChange, error) {
	if _, err := u.appRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, "Application")
	}
	return u.appRepo.History(ctx, id)
}

func (u *applicationUsecase) Delete(ctx context.Context, id string) error {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return err
	}
	return notFound(u.appRepo.SoftDelete(ctx, id), "Application")
}

package domain

import (
	"context"
	"time"
)

type Stage string

const (
	StageSourced   Stage = "sourced"
	StageApplied   Stage = "applied"
	StageScreening Stage = "screening"
	StageInterview Stage = "interview"
	StageOffer     Stage = "offer"
	StageHired     Stage = "hired"
	StageRejected  Stage = "rejected"
	StageWithdrawn Stage = "withdrawn"
)

// FunnelStages is the forward path used for pipeline reports.
var FunnelStages = []Stage{StageSourced, StageApplied, StageScreening, StageInterview, StageOffer, StageHired}

var stageTransitions = map[Stage][]Stage{
	StageSourced:   {StageApplied, StageScreening, StageRejected, StageWithdrawn},
	StageApplied:   {StageScreening, StageInterview, StageRejected, StageWithdrawn},
	StageScreening: {StageInterview, StageRejected, StageWithdrawn},
	StageInterview: {StageOffer, StageScreening, StageRejected, StageWithdrawn},
	StageOffer:     {StageHired, StageInterview, StageRejected, StageWithdrawn},
	StageHired:     nil,
	StageRejected:  nil,
	StageWithdrawn: nil,
}

func (s Stage) Valid() bool {
	_, ok := stageTransitions[s]
	return ok
}

func (s Stage) IsTerminal() bool {
	return s == StageHired || s == StageRejected || s == StageWithdrawn
}

func (s Stage) CanTransitionTo(next Stage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the stages reachable from s.
func (s Stage) AllowedTransitions() []Stage {
	return append([]Stage(nil), stageTransitions[s]...)
}

type Application struct {
	ID              string    `json:"id"`
	CandidateID     string    `json:"candidate_id"`
	JobID           string    `json:"job_id"`
	CandidateName   string    `json:"candidate_name,omitempty"`
	JobTitle        string    `json:"job_title,omitempty"`
	CompanyName     string    `json:"company_name,omitempty"`
	Stage           Stage     `json:"stage"`
	MatchScore      *int      `json:"match_score,omitempty"`
	Notes           string    `json:"notes"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedBy       *string   `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type StageChange struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	FromStage     *Stage    `json:"from_stage"`
	ToStage       Stage     `json:"to_stage"`
	Reason        *string   `json:"reason,omitempty"`
	ChangedBy     *string   `json:"changed_by,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// StageChangeResult reports the side effects applied with a stage change.
type StageChangeResult struct {
	Change          StageChange
	CandidatePlaced bool
	JobFilled       bool
}

type ApplicationFilter struct {
	PageQuery
	JobID       string `form:"job_id" binding:"omitempty,uuid"`
	CandidateID string `form:"candidate_id" binding:"omitempty,uuid"`
	Stage       string `form:"stage" binding:"omitempty,oneof=sourced applied screening interview offer hired rejected withdrawn"`
}

type ApplicationRepository interface {
	// Create inserts the application together with its initial history row.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]Application, int64, error)
	// ChangeStage moves an application from one stage to another in a single
	// transaction. It returns ErrStaleState when the stored stage is no longer from.
	ChangeStage(ctx context.Context, id string, from, to Stage, reason *string, changedBy string) (*StageChangeResult, error)
	History(ctx context.Context, id string) ([]StageChange, error)
	SetMatchScore(ctx context.Context, id string, score int) error
	FindByCandidateAndJob(ctx context.Context, candidateID, jobID string) (*Application, error)
	SoftDelete(ctx context.Context, id string) error
}

type CreateApplicationRequest struct {
	CandidateID string `json:"candidate_id" binding:"required,uuid"`
	JobID       string `json:"job_id" binding:"required,uuid"`
	Stage       string `json:"stage" binding:"omitempty,oneof=sourced applied"`
	Notes       string `json:"notes" binding:"omitempty,max=5000"`
}

type ChangeStageRequest struct {
	Stage  string  `json:"stage" binding:"required,oneof=sourced applied screening interview offer hired rejected withdrawn"`
	Reason *string `json:"reason" binding:"omitempty,max=2000"`
}

type ApplicationUsecase interface {
	Create(ctx context.Context, req CreateApplicationRequest) (*Application, error)
	Get(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context, filter ApplicationFilter) (*PaginatedResult[Application], error)
	ChangeStage(ctx context.Context, id string, req ChangeStageRequest) (*Application, error)
	History(ctx context.Context, id string) ([]StageChange, error)
	Delete(ctx context.Context, id string) error
}

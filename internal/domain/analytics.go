package domain

import (
	"context"
	"time"
)

type DashboardStats struct {
	CandidatesByStatus      map[string]int64 `json:"candidates_by_status"`
	ApplicationsByStage     map[string]int64 `json:"applications_by_stage"`
	OpenJobs                int64            `json:"open_jobs"`
	PlacementsLast30Days    int64            `json:"placements_last_30_days"`
	NewCandidatesLast30Days int64            `json:"new_candidates_last_30_days"`
	GeneratedAt             time.Time        `json:"generated_at"`
}

type FunnelStage struct {
	Stage Stage `json:"stage"`
	Count int64 `json:"count"`
	// ConversionRate is Count divided by the previous stage's count; nil for the first stage.
	ConversionRate *float64 `json:"conversion_rate"`
}

type PipelineReport struct {
	JobID    *string          `json:"job_id,omitempty"`
	Total    int64            `json:"total"`
	Stages   []FunnelStage    `json:"stages"`
	Rejected int64            `json:"rejected"`
	Current  map[string]int64 `json:"current_by_stage"`
}

type ConsultantStats struct {
	UserID              string `json:"user_id"`
	Name                string `json:"name"`
	CandidatesOwned     int64  `json:"candidates_owned"`
	ApplicationsCreated int64  `json:"applications_created"`
	Placements          int64  `json:"placements"`
}

type CandidateExportRow struct {
	ID           string
	Name         string
	Email        string
	Status       string
	CurrentTitle string
	Location     string
	Owner        string
	Tags         []string
	CreatedAt    time.Time
}

type ApplicationExportRow struct {
	ID         string
	Candidate  string
	Job        string
	Company    string
	Stage      string
	MatchScore *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AnalyticsRepository interface {
	CandidatesByStatus(ctx context.Context) (map[string]int64, error)
	ApplicationsByStage(ctx context.Context, jobID *string) (map[string]int64, error)
	CountOpenJobs(ctx context.Context) (int64, error)
	CountPlacementsSince(ctx context.Context, since time.Time) (int64, error)
	CountCandidatesSince(ctx context.Context, since time.Time) (int64, error)
	// FurthestStageCounts maps each funnel stage to the number of applications
	// whose furthest forward stage is exactly that stage.
	FurthestStageCounts(ctx context.Context, jobID *string) (map[Stage]int64, error)
	ConsultantStats(ctx context.Context) ([]ConsultantStats, error)
	ExportCandidates(ctx context.Context) ([]CandidateExportRow, error)
	ExportApplications(ctx context.Context) ([]ApplicationExportRow, error)
}

type ExportRequest struct {
	Type    string `form:"type" binding:"required,oneof=candidates applications"`
	Format  string `form:"format" binding:"omitempty,oneof=xlsx csv"`
	Archive bool   `form:"archive"`
}

// ExportFile is either streamed to the client (Data) or archived (URL).
type ExportFile struct {
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	Rows        int        `json:"rows"`
	Data        []byte     `json:"-"`
	URL         string     `json:"url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type AnalyticsUsecase interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Pipeline(ctx context.Context, jobID *string) (*PipelineReport, error)
	Consultants(ctx context.Context) ([]ConsultantStats, error)
	Export(ctx context.Context, userID string, req ExportRequest) (*ExportFile, error)
}

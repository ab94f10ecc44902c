package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/export"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/security"

	"golang.org/x/sync/errgroup"
)

const (
	recentWindow    = 30 * 24 * time.Hour
	exportURLExpiry = 15 * time.Minute
)

// ObjectStore is satisfied by *storage.ObjectStore.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type analyticsUsecase struct {
	repo   domain.AnalyticsRepository
	store  ObjectStore
	secLog *security.SecurityLogger
	now    func() time.Time
}

// NewAnalyticsUsecase accepts a nil store; archived exports are then refused.
func NewAnalyticsUsecase(repo domain.AnalyticsRepository, store ObjectStore, secLog *security.SecurityLogger) domain.AnalyticsUsecase {
	return &analyticsUsecase{repo: repo, store: store, secLog: secLog, now: time.Now}
}

func (u *analyticsUsecase) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	now := u.now().UTC()
	since := now.Add(-recentWindow)
	stats := &domain.DashboardStats{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.CandidatesByStatus, err = u.repo.CandidatesByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ApplicationsByStage, err = u.repo.ApplicationsByStage(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.OpenJobs, err = u.repo.CountOpenJobs(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PlacementsLast30Days, err = u.repo.CountPlacementsSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		stats.NewCandidatesLast30Days, err = u.repo.CountCandidatesSince(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Pipeline builds the conversion funnel. An application counts towards every
// stage up to the furthest one it reached, so each stage's count includes
// the applications that went past it.
func (u *analyticsUsecase) Pipeline(ctx context.Context, jobID *string) (*domain.PipelineReport, error) {
	var (
		furthest map[domain.Stage]int64
		current  map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		furthest, err = u.repo.FurthestStageCounts(gctx, jobID)
		return err
	})
	g.Go(func() (err error) {
		current, err = u.repo.ApplicationsByStage(gctx, jobID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buildPipeline(jobID, furthest, current), nil
}

func buildPipeline(jobID *string, furthest map[domain.Stage]int64, current map[string]int64) *domain.PipelineReport {
	n := len(domain.FunnelStages)
	reached := make([]int64, n)
	var running int64
	for i := n - 1; i >= 0; i-- {
		running += furthest[domain.FunnelStages[i]]
		reached[i] = running
	}

	report := &domain.PipelineReport{
		JobID:    jobID,
		Stages:   make([]domain.FunnelStage, 0, n),
		Rejected: current[string(domain.StageRejected)],
		Current:  current,
	}
	if report.Current == nil {
		report.Current = map[string]int64{}
	}
	for _, c := range current {
		report.Total += c
	}
	for i, stage := range domain.FunnelStages {
		fs := domain.FunnelStage{Stage: stage, Count: reached[i]}
		if i > 0 && reached[i-1] > 0 {
			rate := float64(reached[i]) / float64(reached[i-1])
			fs.ConversionRate = &rate
		}
		report.Stages = append(report.Stages, fs)
	}
	return report
}

func (u *analyticsUsecase) Consultants(ctx context.Context) ([]domain.ConsultantStats, error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	stats, err := u.repo.ConsultantStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []domain.ConsultantStats{}
	}
	return stats, nil
}

// Export renders candidates or applications as a spreadsheet. With Archive
// set the file is uploaded to object storage and a short-lived link is returned.
func (u *analyticsUsecase) Export(ctx context.Context, userID string, req domain.ExportRequest) (*domain.ExportFile, error) {
	if _, err := requireRole(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	if req.Archive && u.store == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Export archiving is not configured", nil)
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = export.FormatXLSX
	}

	var table export.Table
	switch req.Type {
	case "candidates":
		rows, err := u.repo.ExportCandidates(ctx)
		if err != nil {
			return nil, err
		}
		table = candidateTable(rows)
	case "applications":
		rows, err := u.repo.ExportApplications(ctx)
		if err != nil {
			return nil, err
		}
		table = applicationTable(rows)
	default:
		return nil, apperror.WithKind(apperror.KindValidation, "type", "Unknown export type")
	}

	data, contentType, err := export.Encode(table, format)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.now().UTC()
	file := &domain.ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", req.Type, now.Format("20060102-150405"), format),
		ContentType: contentType,
		Rows:        len(table.Rows),
		Data:        data,
	}

	if req.Archive {
		key := fmt.Sprintf("exports/%s/%s", userID, file.Filename)
		if err := u.store.Put(ctx, key, contentType, data); err != nil {
			return nil, apperror.Internal(err)
		}
		url, err := u.store.PresignGet(ctx, key, exportURLExpiry)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		expires := now.Add(exportURLExpiry)
		file.URL = url
		file.ExpiresAt = &expires
		file.Data = nil
	}

	if u.secLog != nil {
		u.secLog.LogUserEvent(ctx, security.EventDataExport, userID, map[string]interface{}{
			"type":     req.Type,
			"format":   format,
			"rows":     file.Rows,
			"archived": req.Archive,
		})
	}
	return file, nil
}

func candidateTable(rows []domain.CandidateExportRow) export.Table {
	t := export.Table{
		Sheet:   "Candidates",
		Headers: []string{"ID", "Name", "Email", "Status", "Current Title", "Location", "Owner", "Tags", "Created At"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.ID, r.Name, r.Email, r.Status, r.CurrentTitle, r.Location, r.Owner,
			strings.Join(r.Tags, ", "), r.CreatedAt,
		})
	}
	return t
}

func applicationTable(rows []domain.ApplicationExportRow) export.Table {
	t := export.Table{
		Sheet:   "Applications",
		Headers: []string{"ID", "Candidate", "Job", "Company", "Stage", "Match Score", "Created At", "Updated At"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		var score any
		if r.MatchScore != nil {
			score = *r.MatchScore
		}
		t.Rows = append(t.Rows, []any{
			r.ID, r.Candidate, r.Job, r.Company, r.Stage, score, r.CreatedAt, r.UpdatedAt,
		})
	}
	return t
}

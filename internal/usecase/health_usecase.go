package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-recruitment-crm/pkg/logger"
)

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	HealthDown     = "down"
)

// HealthCheck pings one dependency.
type HealthCheck struct {
	Name     string
	Critical bool
	Ping     func(ctx context.Context) error
}

type HealthReport struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Version   string            `json:"version"`
	CheckedAt time.Time         `json:"checked_at"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthReport
}

type healthUsecase struct {
	checks  []HealthCheck
	version string
	timeout time.Duration
}

func NewHealthUsecase(version string, checks ...HealthCheck) HealthUsecase {
	sorted := append([]HealthCheck(nil), checks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &healthUsecase{checks: sorted, version: version, timeout: 2 * time.Second}
}

// Check pings every dependency concurrently. A failing critical dependency
// reports down; any other failure reports degraded.
func (u *healthUsecase) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	report := HealthReport{
		Status:    HealthOK,
		Checks:    make(map[string]string, len(u.checks)),
		Version:   u.version,
		CheckedAt: time.Now().UTC(),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range u.checks {
		wg.Add(1)
		go func(c HealthCheck) {
			defer wg.Done()
			err := c.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				report.Checks[c.Name] = HealthOK
				return
			}
			logger.Log.Warn("health check failed", "dependency", c.Name, "error", err)
			report.Checks[c.Name] = HealthDown
			switch {
			case c.Critical:
				report.Status = HealthDown
			case report.Status == HealthOK:
				report.Status = HealthDegraded
			}
		}(c)
	}
	wg.Wait()
	return report
}

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-recruitment-crm/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func ping(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		checks []usecase.HealthCheck
		want   string
	}{
		{
			name: "all up",
			checks: []usecase.HealthCheck{
				{Name: "database", Critical: true, Ping: ping(nil)},
				{Name: "redis", Ping: ping(nil)},
			},
			want: usecase.HealthOK,
		},
		{
			name: "optional dependency down",
			checks: []usecase.HealthCheck{
				{Name: "database", Critical: true, Ping: ping(nil)},
				{Name: "redis", Ping: ping(errors.New("refused"))},
			},
			want: usecase.HealthDegraded,
		},
		{
			name: "database down",
			checks: []usecase.HealthCheck{
				{Name: "database", Critical: true, Ping: ping(errors.New("refused"))},
				{Name: "redis", Ping: ping(errors.New("refused"))},
			},
			want: usecase.HealthDown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := usecase.NewHealthUsecase("1.2.3", tt.checks...).Check(context.Background())
			assert.Equal(t, tt.want, report.Status)
			assert.Equal(t, "1.2.3", report.Version)
			assert.Len(t, report.Checks, len(tt.checks))
		})
	}
}

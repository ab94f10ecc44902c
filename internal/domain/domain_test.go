package domain_test

import (
	"context"
	"math"
	"testing"

	"go-recruitment-crm/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestStageTransitions(t *testing.T) {
	tests := []struct {
		from, to domain.Stage
		want     bool
	}{
		{domain.StageSourced, domain.StageApplied, true},
		{domain.StageApplied, domain.StageInterview, true},
		{domain.StageInterview, domain.StageScreening, true},
		{domain.StageOffer, domain.StageHired, true},
		{domain.StageScreening, domain.StageRejected, true},
		{domain.StageSourced, domain.StageHired, false},
		{domain.StageApplied, domain.StageSourced, false},
		{domain.StageHired, domain.StageOffer, false},
		{domain.StageRejected, domain.StageApplied, false},
		{domain.StageWithdrawn, domain.StageApplied, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStage_Terminal(t *testing.T) {
	for _, s := range []domain.Stage{domain.StageHired, domain.StageRejected, domain.StageWithdrawn} {
		assert.True(t, s.IsTerminal(), s)
		assert.Empty(t, s.AllowedTransitions(), s)
	}
	assert.False(t, domain.StageOffer.IsTerminal())
	assert.False(t, domain.Stage("unknown").Valid())
}

func TestStage_AllowedTransitionsIsACopy(t *testing.T) {
	next := domain.StageSourced.AllowedTransitions()
	next[0] = domain.StageHired
	assert.False(t, domain.StageSourced.CanTransitionTo(domain.StageHired))
}

func TestJobStatusTransitions(t *testing.T) {
	assert.True(t, domain.JobDraft.CanTransitionTo(domain.JobOpen))
	assert.True(t, domain.JobOpen.CanTransitionTo(domain.JobFilled))
	assert.True(t, domain.JobFilled.CanTransitionTo(domain.JobOpen))
	assert.False(t, domain.JobDraft.CanTransitionTo(domain.JobFilled))
	assert.False(t, domain.JobClosed.CanTransitionTo(domain.JobOnHold))
	assert.False(t, domain.JobStatus("archived").Valid())
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleManager))
	assert.True(t, domain.RoleManager.AtLeast(domain.RoleManager))
	assert.False(t, domain.RoleConsultant.AtLeast(domain.RoleManager))
	assert.False(t, domain.Role("").AtLeast(domain.RoleConsultant))
	assert.False(t, domain.Role("owner").Valid())
}

func TestPageQuery_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   domain.PageQuery
		want domain.PageQuery
	}{
		{"defaults", domain.PageQuery{}, domain.PageQuery{Page: 1, PageSize: domain.DefaultPageSize}},
		{"negative", domain.PageQuery{Page: -3, PageSize: -1}, domain.PageQuery{Page: 1, PageSize: domain.DefaultPageSize}},
		{"clamped", domain.PageQuery{Page: 4, PageSize: 1000}, domain.PageQuery{Page: 4, PageSize: domain.MaxPageSize}},
		{"kept", domain.PageQuery{Page: 2, PageSize: 50}, domain.PageQuery{Page: 2, PageSize: 50}},
		{"huge page", domain.PageQuery{Page: 1 << 62, PageSize: 20}, domain.PageQuery{Page: domain.MaxPage, PageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Normalize()
			assert.Equal(t, tt.want, q)
		})
	}
	assert.Equal(t, 40, domain.PageQuery{Page: 3, PageSize: 20}.Offset())
}

func TestPageQuery_OffsetNeverOverflows(t *testing.T) {
	for _, size := range []int{1, domain.DefaultPageSize, domain.MaxPageSize, 1 << 40} {
		q := domain.PageQuery{Page: 1 << 62, PageSize: size}
		q.Normalize()
		assert.GreaterOrEqual(t, q.Offset(), 0, size)
		assert.LessOrEqual(t, q.Offset(), math.MaxInt32, size)
	}
}

func TestNewPaginatedResult(t *testing.T) {
	page := domain.NewPaginatedResult[string](nil, 41, domain.PageQuery{Page: 1, PageSize: 20})
	assert.NotNil(t, page.Data)
	assert.Equal(t, 3, page.TotalPages)

	empty := domain.NewPaginatedResult([]string{}, 0, domain.PageQuery{Page: 1, PageSize: 20})
	assert.Equal(t, 0, empty.TotalPages)
}

func TestPrincipalFrom(t *testing.T) {
	_, ok := domain.PrincipalFrom(context.Background())
	assert.False(t, ok)

	ctx := domain.WithPrincipal(context.Background(), domain.Principal{UserID: "u-1", Email: "a@b.c", Role: domain.RoleManager})
	p, ok := domain.PrincipalFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, domain.Principal{UserID: "u-1", Email: "a@b.c", Role: domain.RoleManager}, p)

	// gin exposes c.Set values under plain string keys
	ctx = context.WithValue(context.Background(), "UserID", "u-2") //nolint:staticcheck
	p, ok = domain.PrincipalFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-2", p.UserID)
}

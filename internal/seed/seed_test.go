package seed_test

import (
	"context"
	"strings"
	"testing"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/seed"
	"go-recruitment-crm/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	domain.UserRepository
	mock.Mock
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockSkills struct {
	domain.SkillRepository
	mock.Mock
}

func (m *mockSkills) UpsertByName(ctx context.Context, name string, category domain.SkillCategory) (*domain.Skill, error) {
	args := m.Called(ctx, name, category)
	return &domain.Skill{ID: "s-" + name, Name: name, Category: category}, args.Error(0)
}

type mockOffices struct {
	domain.OfficeRepository
	mock.Mock
}

func (m *mockOffices) List(ctx context.Context, page domain.PageQuery) ([]domain.Office, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]domain.Office), int64(args.Int(1)), args.Error(2)
}

func (m *mockOffices) Create(ctx context.Context, o *domain.Office) error {
	o.ID = "office-" + strings.ToLower(o.Name)
	return m.Called(ctx, o).Error(0)
}

type mockConsultants struct {
	domain.ConsultantRepository
	mock.Mock
}

func (m *mockConsultants) Create(ctx context.Context, c *domain.Consultant) error {
	return m.Called(ctx, c).Error(0)
}

const seedYAML = `
skills:
  - name: Go
  - name: Negotiation
    category: soft
offices:
  - name: Berlin
    city: Berlin
    country: DE
    timezone: Europe/Berlin
  - name: Lisbon
users:
  - email: Ana@Example.com
    password: s3cret-pass
    first_name: Ana
    last_name: Smith
    role: consultant
consultants:
  - email: ana@example.com
    office: berlin
    title: Senior Recruiter
    specializations: [engineering]
`

func TestParse(t *testing.T) {
	f, err := seed.Parse(strings.NewReader(seedYAML))
	require.NoError(t, err)
	assert.Len(t, f.Skills, 2)
	assert.Len(t, f.Offices, 2)
	assert.Equal(t, "consultant", f.Users[0].Role)
	assert.Equal(t, []string{"engineering"}, f.Consultants[0].Specializations)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "unknown key", yaml: "teams: []", want: "field teams not found"},
		{name: "bad category", yaml: "skills:\n  - name: Go\n    category: magic", want: "unknown category"},
		{name: "bad role", yaml: "users:\n  - {email: a@b.c, password: longenough, first_name: A, last_name: B, role: owner}", want: "unknown role"},
		{name: "short password", yaml: "users:\n  - {email: a@b.c, password: short, first_name: A, last_name: B, role: admin}", want: "at least 8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_EmptyFile(t *testing.T) {
	f, err := seed.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Skills)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	f, err := seed.Parse(strings.NewReader(seedYAML))
	require.NoError(t, err)

	users := new(mockUsers)
	skills := new(mockSkills)
	offices := new(mockOffices)
	consultants := new(mockConsultants)

	skills.On("UpsertByName", ctx, "Go", domain.SkillTechnical).Return(nil)
	skills.On("UpsertByName", ctx, "Negotiation", domain.SkillSoft).Return(nil)

	// Lisbon already exists and is skipped.
	offices.On("List", ctx, domain.PageQuery{Page: 1, PageSize: domain.MaxPageSize}).
		Return([]domain.Office{{ID: "office-lisbon", Name: "Lisbon"}}, 1, nil)
	offices.On("Create", ctx, mock.MatchedBy(func(o *domain.Office) bool {
		return o.Name == "Berlin" && o.Timezone == "Europe/Berlin"
	})).Return(nil).Once()

	users.On("GetByEmail", ctx, "ana@example.com").Return(nil, domain.ErrNotFound).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ana@example.com" && u.Role == domain.RoleConsultant && u.PasswordHash != "" && u.PasswordHash != "s3cret-pass"
	})).Return(nil).Once()
	users.On("GetByEmail", ctx, "ana@example.com").Return(&domain.User{ID: "user-ana"}, nil).Once()

	consultants.On("Create", ctx, mock.MatchedBy(func(c *domain.Consultant) bool {
		return c.UserID == "user-ana" && c.OfficeID != nil && *c.OfficeID == "office-berlin" && c.IsActive
	})).Return(nil)

	report, err := seed.NewSeeder(users, skills, offices, consultants).Apply(ctx, f)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Created["skills"])
	assert.Equal(t, 1, report.Created["offices"])
	assert.Equal(t, 1, report.Skipped["offices"])
	assert.Equal(t, 1, report.Created["users"])
	assert.Equal(t, 1, report.Created["consultants"])
	users.AssertExpectations(t)
	offices.AssertExpectations(t)
	consultants.AssertExpectations(t)
}

func TestApply_ExistingConsultantIsSkipped(t *testing.T) {
	ctx := context.Background()
	f := &seed.File{Consultants: []seed.Consultant{{Email: "ana@example.com"}}}

	users := new(mockUsers)
	offices := new(mockOffices)
	consultants := new(mockConsultants)

	offices.On("List", ctx, mock.Anything).Return([]domain.Office{}, 0, nil)
	users.On("GetByEmail", ctx, "ana@example.com").Return(&domain.User{ID: "user-ana"}, nil)
	consultants.On("Create", ctx, mock.Anything).Return(apperror.Conflict("Consultant already exists"))

	report, err := seed.NewSeeder(users, new(mockSkills), offices, consultants).Apply(ctx, f)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped["consultants"])
}

func TestApply_UnknownOffice(t *testing.T) {
	ctx := context.Background()
	f := &seed.File{Consultants: []seed.Consultant{{Email: "ana@example.com", Office: "Paris"}}}

	users := new(mockUsers)
	offices := new(mockOffices)
	offices.On("List", ctx, mock.Anything).Return([]domain.Office{}, 0, nil)
	users.On("GetByEmail", ctx, "ana@example.com").Return(&domain.User{ID: "user-ana"}, nil)

	_, err := seed.NewSeeder(users, new(mockSkills), offices, new(mockConsultants)).Apply(ctx, f)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown office "Paris"`)
}

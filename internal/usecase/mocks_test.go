package usecase_test

import (
	"context"
	"time"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/email"
	"go-recruitment-crm/pkg/llm"

	"github.com/stretchr/testify/mock"
)

// ptr returns args.Get(i) as *T, tolerating an untyped nil.
func ptr[T any](args mock.Arguments, i int) *T {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*T)
}

func list[T any](args mock.Arguments) ([]T, int64, error) {
	var out []T
	if args.Get(0) != nil {
		out = args.Get(0).([]T)
	}
	return out, args.Get(1).(int64), args.Error(2)
}

func asCtx(p domain.Principal) context.Context {
	return domain.WithPrincipal(context.Background(), p)
}

var (
	adminCtx      = asCtx(domain.Principal{UserID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin})
	managerCtx    = asCtx(domain.Principal{UserID: "manager-1", Email: "manager@example.com", Role: domain.RoleManager})
	consultantCtx = asCtx(domain.Principal{UserID: "consultant-1", Email: "consultant@example.com", Role: domain.RoleConsultant})
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	return ptr[domain.User](args, 0), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return ptr[domain.User](args, 0), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	return list[domain.User](m.Called(ctx, filter))
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *MockUserRepo) SetTOTP(ctx context.Context, id string, secret *string, enabled bool) error {
	return m.Called(ctx, id, secret, enabled).Error(0)
}
func (m *MockUserRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	args := m.Called(ctx, userID)
	return ptr[domain.UserSettings](args, 0), args.Error(1)
}
func (m *MockUserRepo) UpsertSettings(ctx context.Context, s *domain.UserSettings) error {
	return m.Called(ctx, s).Error(0)
}

type MockCandidateRepo struct{ mock.Mock }

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCandidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	return ptr[domain.Candidate](args, 0), args.Error(1)
}
func (m *MockCandidateRepo) List(ctx context.Context, f domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	return list[domain.Candidate](m.Called(ctx, f))
}
func (m *MockCandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCandidateRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCandidateRepo) GetSkills(ctx context.Context, id string) ([]domain.CandidateSkill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateSkill), args.Error(1)
}
func (m *MockCandidateRepo) ReplaceSkills(ctx context.Context, id string, skills []domain.CandidateSkill) error {
	return m.Called(ctx, id, skills).Error(0)
}
func (m *MockCandidateRepo) MergeSkills(ctx context.Context, id string, skills []domain.CandidateSkill) error {
	return m.Called(ctx, id, skills).Error(0)
}

type MockCompanyRepo struct{ mock.Mock }

func (m *MockCompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	args := m.Called(ctx, id)
	return ptr[domain.Company](args, 0), args.Error(1)
}
func (m *MockCompanyRepo) List(ctx context.Context, f domain.CompanyFilter) ([]domain.Company, int64, error) {
	return list[domain.Company](m.Called(ctx, f))
}
func (m *MockCompanyRepo) Update(ctx context.Context, c *domain.Company) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCompanyRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCompanyRepo) CountActiveJobs(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type MockJobRepo struct{ mock.Mock }

func (m *MockJobRepo) Create(ctx context.Context, j *domain.Job) error {
	return m.Called(ctx, j).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	return ptr[domain.Job](args, 0), args.Error(1)
}
func (m *MockJobRepo) List(ctx context.Context, f domain.JobFilter) ([]domain.Job, int64, error) {
	return list[domain.Job](m.Called(ctx, f))
}
func (m *MockJobRepo) Update(ctx context.Context, j *domain.Job) error {
	return m.Called(ctx, j).Error(0)
}
func (m *MockJobRepo) UpdateStatus(ctx context.Context, id string, s domain.JobStatus) error {
	return m.Called(ctx, id, s).Error(0)
}
func (m *MockJobRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockJobRepo) GetSkills(ctx context.Context, id string) ([]domain.JobSkill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobSkill), args.Error(1)
}
func (m *MockJobRepo) ReplaceSkills(ctx context.Context, id string, skills []domain.JobSkill) error {
	return m.Called(ctx, id, skills).Error(0)
}

type MockApplicationRepo struct{ mock.Mock }

func (m *MockApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	return ptr[domain.Application](args, 0), args.Error(1)
}
func (m *MockApplicationRepo) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int64, error) {
	return list[domain.Application](m.Called(ctx, f))
}
func (m *MockApplicationRepo) ChangeStage(ctx context.Context, id string, from, to domain.Stage, reason *string, by string) (*domain.StageChangeResult, error) {
	args := m.Called(ctx, id, from, to, reason, by)
	return ptr[domain.StageChangeResult](args, 0), args.Error(1)
}
func (m *MockApplicationRepo) History(ctx context.Context, id string) ([]domain.StageChange, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageChange), args.Error(1)
}
func (m *MockApplicationRepo) SetMatchScore(ctx context.Context, id string, score int) error {
	return m.Called(ctx, id, score).Error(0)
}
func (m *MockApplicationRepo) FindByCandidateAndJob(ctx context.Context, candidateID, jobID string) (*domain.Application, error) {
	args := m.Called(ctx, candidateID, jobID)
	return ptr[domain.Application](args, 0), args.Error(1)
}
func (m *MockApplicationRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSkillRepo struct{ mock.Mock }

func (m *MockSkillRepo) Create(ctx context.Context, s *domain.Skill) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockSkillRepo) GetByID(ctx context.Context, id string) (*domain.Skill, error) {
	args := m.Called(ctx, id)
	return ptr[domain.Skill](args, 0), args.Error(1)
}
func (m *MockSkillRepo) List(ctx context.Context, f domain.SkillFilter) ([]domain.Skill, int64, error) {
	return list[domain.Skill](m.Called(ctx, f))
}
func (m *MockSkillRepo) Update(ctx context.Context, s *domain.Skill) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockSkillRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockSkillRepo) UpsertByName(ctx context.Context, name string, c domain.SkillCategory) (*domain.Skill, error) {
	args := m.Called(ctx, name, c)
	return ptr[domain.Skill](args, 0), args.Error(1)
}
func (m *MockSkillRepo) ListNames(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockConversationRepo struct{ mock.Mock }

func (m *MockConversationRepo) Create(ctx context.Context, c *domain.Conversation, ids []string, first *domain.Message) error {
	return m.Called(ctx, c, ids, first).Error(0)
}
func (m *MockConversationRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	return ptr[domain.Conversation](args, 0), args.Error(1)
}
func (m *MockConversationRepo) IsParticipant(ctx context.Context, convID, userID string) (bool, error) {
	args := m.Called(ctx, convID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockConversationRepo) ListForUser(ctx context.Context, userID string, f domain.ConversationFilter) ([]domain.Conversation, int64, error) {
	return list[domain.Conversation](m.Called(ctx, userID, f))
}
func (m *MockConversationRepo) ListMessages(ctx context.Context, convID string, p domain.PageQuery) ([]domain.Message, int64, error) {
	return list[domain.Message](m.Called(ctx, convID, p))
}
func (m *MockConversationRepo) AddMessage(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockConversationRepo) MarkEmailed(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockConversationRepo) MarkRead(ctx context.Context, convID, userID string, at time.Time) error {
	return m.Called(ctx, convID, userID, at).Error(0)
}
func (m *MockConversationRepo) SetArchived(ctx context.Context, convID, userID string, archived bool) error {
	return m.Called(ctx, convID, userID, archived).Error(0)
}

type MockCalendarRepo struct{ mock.Mock }

func (m *MockCalendarRepo) Create(ctx context.Context, ev *domain.CalendarEvent) error {
	return m.Called(ctx, ev).Error(0)
}
func (m *MockCalendarRepo) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, id)
	return ptr[domain.CalendarEvent](args, 0), args.Error(1)
}
func (m *MockCalendarRepo) ListForUser(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarEvent), args.Error(1)
}
func (m *MockCalendarRepo) Update(ctx context.Context, ev *domain.CalendarEvent) error {
	return m.Called(ctx, ev).Error(0)
}
func (m *MockCalendarRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCalendarRepo) HasOverlap(ctx context.Context, organizerID string, start, end time.Time, excludeID string) (bool, error) {
	args := m.Called(ctx, organizerID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockSearchRepo struct{ mock.Mock }

func (m *MockSearchRepo) hits(args mock.Arguments) ([]domain.SearchHit, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchHit), args.Error(1)
}
func (m *MockSearchRepo) SearchCandidates(ctx context.Context, q string, limit int) ([]domain.SearchHit, error) {
	return m.hits(m.Called(ctx, q, limit))
}
func (m *MockSearchRepo) SearchCompanies(ctx context.Context, q string, limit int) ([]domain.SearchHit, error) {
	return m.hits(m.Called(ctx, q, limit))
}
func (m *MockSearchRepo) SearchJobs(ctx context.Context, q string, limit int) ([]domain.SearchHit, error) {
	return m.hits(m.Called(ctx, q, limit))
}

type MockAnalyticsRepo struct{ mock.Mock }

func (m *MockAnalyticsRepo) counts(args mock.Arguments) (map[string]int64, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}
func (m *MockAnalyticsRepo) CandidatesByStatus(ctx context.Context) (map[string]int64, error) {
	return m.counts(m.Called(ctx))
}
func (m *MockAnalyticsRepo) ApplicationsByStage(ctx context.Context, jobID *string) (map[string]int64, error) {
	return m.counts(m.Called(ctx, jobID))
}
func (m *MockAnalyticsRepo) CountOpenJobs(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAnalyticsRepo) CountPlacementsSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAnalyticsRepo) CountCandidatesSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAnalyticsRepo) FurthestStageCounts(ctx context.Context, jobID *string) (map[domain.Stage]int64, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Stage]int64), args.Error(1)
}
func (m *MockAnalyticsRepo) ConsultantStats(ctx context.Context) ([]domain.ConsultantStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConsultantStats), args.Error(1)
}
func (m *MockAnalyticsRepo) ExportCandidates(ctx context.Context) ([]domain.CandidateExportRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateExportRow), args.Error(1)
}
func (m *MockAnalyticsRepo) ExportApplications(ctx context.Context) ([]domain.ApplicationExportRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApplicationExportRow), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	return m.Called(ctx, key, v).Error(0)
}

type MockMailer struct {
	mock.Mock
	configured bool
}

func (m *MockMailer) IsConfigured() bool { return m.configured }
func (m *MockMailer) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockProvider struct{ mock.Mock }

func (m *MockProvider) Name() string  { return "mock" }
func (m *MockProvider) Model() string { return "mock-1" }
func (m *MockProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	return ptr[llm.Response](args, 0), args.Error(1)
}

type MockStore struct{ mock.Mock }

func (m *MockStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	return m.Called(ctx, key, contentType, data).Error(0)
}
func (m *MockStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

// passthroughRenderer wraps markdown in a paragraph.
type passthroughRenderer struct{}

func (passthroughRenderer) Render(src string) (string, error) { return "<p>" + src + "</p>", nil }

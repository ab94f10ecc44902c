package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/usecase"
	"go-recruitment-crm/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type aiFixture struct {
	provider   *MockProvider
	candidates *MockCandidateRepo
	jobs       *MockJobRepo
	companies  *MockCompanyRepo
	skills     *MockSkillRepo
	apps       *MockApplicationRepo
	users      *MockUserRepo
	uc         domain.AIUsecase
}

func newAIFixture() *aiFixture {
	f := &aiFixture{
		provider:   new(MockProvider),
		candidates: new(MockCandidateRepo),
		jobs:       new(MockJobRepo),
		companies:  new(MockCompanyRepo),
		skills:     new(MockSkillRepo),
		apps:       new(MockApplicationRepo),
		users:      new(MockUserRepo),
	}
	f.uc = usecase.NewAIUsecase(f.provider, passthroughRenderer{}, f.candidates, f.jobs, f.companies, f.skills, f.apps, f.users)
	return f
}

const cvAnswer = "Here you go:\n```json\n" + `{
  "skills": [
    {"name": "Go", "category": "technical", "level": 4, "years": 5},
    {"name": "go", "category": "technical", "level": 2, "years": 1},
    {"name": "Negotiation", "level": 3, "years": 2}
  ],
  "experience_years": 7,
  "seniority": "senior",
  "summary": "Backend engineer.",
  "education": [],
  "languages": ["English"]
}` + "\n```"

func TestAnalyzeCV(t *testing.T) {
	t.Run("text or candidate is required", func(t *testing.T) {
		f := newAIFixture()
		_, err := f.uc.AnalyzeCV(context.Background(), domain.CVAnalysisRequest{CVText: "  "})
		assert.Equal(t, "cv_text", appErr(t, err).Field)
	})

	t.Run("save needs a candidate", func(t *testing.T) {
		f := newAIFixture()
		_, err := f.uc.AnalyzeCV(context.Background(), domain.CVAnalysisRequest{CVText: "cv", Save: true})
		assert.Equal(t, "candidate_id", appErr(t, err).Field)
	})

	t.Run("extracts and merges skills", func(t *testing.T) {
		f := newAIFixture()
		ctx := context.Background()
		cand := "cand-1"
		f.candidates.On("GetByID", ctx, cand).Return(&domain.Candidate{ID: cand, CVText: "Go developer for 5 years"}, nil)
		f.skills.On("ListNames", ctx, mock.Anything).Return([]string{"Go", "SQL"}, nil)
		f.provider.On("Complete", ctx, mock.MatchedBy(func(r llm.Request) bool {
			return strings.Contains(r.Prompt, "Go developer for 5 years") && strings.Contains(r.Prompt, "Go, SQL")
		})).Return(&llm.Response{Text: cvAnswer, Cached: true}, nil)
		f.skills.On("UpsertByName", ctx, "Go", domain.SkillTechnical).Return(&domain.Skill{ID: "s-go", Name: "Go"}, nil)
		f.skills.On("UpsertByName", ctx, "go", domain.SkillTechnical).Return(&domain.Skill{ID: "s-go", Name: "Go"}, nil)
		f.skills.On("UpsertByName", ctx, "Negotiation", domain.SkillTechnical).Return(&domain.Skill{ID: "s-neg", Name: "Negotiation"}, nil)
		f.candidates.On("MergeSkills", ctx, cand, mock.MatchedBy(func(s []domain.CandidateSkill) bool {
			if len(s) != 2 {
				return false
			}
			for _, sk := range s {
				if sk.SkillID == "s-go" && sk.Level != 4 {
					return false
				}
			}
			return true
		})).Return(nil).Once()

		out, err := f.uc.AnalyzeCV(ctx, domain.CVAnalysisRequest{CandidateID: &cand, Save: true})
		require.NoError(t, err)
		assert.True(t, out.Cached)
		assert.Equal(t, "senior", out.Seniority)
		assert.Equal(t, 2, out.SavedSkills)
		f.candidates.AssertExpectations(t)
	})

	t.Run("schema violations are a bad gateway", func(t *testing.T) {
		f := newAIFixture()
		ctx := context.Background()
		f.skills.On("ListNames", ctx, mock.Anything).Return([]string{}, nil)
		f.provider.On("Complete", ctx, mock.Anything).Return(&llm.Response{Text: `{"skills": "lots"}`}, nil)
		_, err := f.uc.AnalyzeCV(ctx, domain.CVAnalysisRequest{CVText: "cv"})
		assert.Equal(t, http.StatusBadGateway, appErr(t, err).Code)
	})
}

func TestAIWithoutProvider(t *testing.T) {
	skills := new(MockSkillRepo)
	skills.On("ListNames", mock.Anything, mock.Anything).Return([]string{}, nil)
	uc := usecase.NewAIUsecase(nil, passthroughRenderer{}, new(MockCandidateRepo), new(MockJobRepo),
		new(MockCompanyRepo), skills, new(MockApplicationRepo), new(MockUserRepo))

	_, err := uc.AnalyzeCV(context.Background(), domain.CVAnalysisRequest{CVText: "cv"})
	assert.Equal(t, http.StatusServiceUnavailable, appErr(t, err).Code)
}

func TestMatchJob_StoresScoreOnApplication(t *testing.T) {
	f := newAIFixture()
	ctx := context.Background()
	f.candidates.On("GetByID", ctx, "cand-1").Return(&domain.Candidate{ID: "cand-1", FirstName: "Ana",
		Skills: []domain.CandidateSkill{{Name: "Go", Level: 4, Years: 5}}}, nil)
	f.jobs.On("GetByID", ctx, "job-1").Return(&domain.Job{ID: "job-1", Title: "Go Dev",
		Skills: []domain.JobSkill{{Name: "Go", MinLevel: 3, Required: true}}}, nil)
	f.provider.On("Complete", ctx, mock.MatchedBy(func(r llm.Request) bool {
		return strings.Contains(r.Prompt, "Go (min level 3) required") && strings.Contains(r.Prompt, "Go (level 4, 5.0 years)")
	})).Return(&llm.Response{Text: `{"score": 81, "matched_skills": ["Go"], "missing_skills": [], "summary": "Strong", "recommendation": "yes"}`}, nil)
	f.apps.On("FindByCandidateAndJob", ctx, "cand-1", "job-1").Return(&domain.Application{ID: "app-1"}, nil)
	f.apps.On("SetMatchScore", ctx, "app-1", 81).Return(nil).Once()

	out, err := f.uc.MatchJob(ctx, domain.JobMatchRequest{CandidateID: "cand-1", JobID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, 81, out.Score)
	assert.Equal(t, "app-1", *out.ApplicationID)
	f.apps.AssertExpectations(t)
}

func TestDraftEmail(t *testing.T) {
	f := newAIFixture()
	ctx := context.Background()
	f.candidates.On("GetByID", ctx, "cand-1").Return(&domain.Candidate{ID: "cand-1", FirstName: "Ana", LastName: "Smith"}, nil)
	f.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", FirstName: "Bo", LastName: "Lee"}, nil)
	f.users.On("GetSettings", ctx, "u1").Return(&domain.UserSettings{Signature: "Bo, Talent Partner"}, nil)
	f.provider.On("Complete", ctx, mock.MatchedBy(func(r llm.Request) bool {
		return strings.Contains(r.Prompt, "Purpose: interview invite") &&
			strings.Contains(r.Prompt, "Tone: friendly") &&
			strings.Contains(r.Prompt, "Bo, Talent Partner")
	})).Return(&llm.Response{Text: `{"subject": "Interview", "body": "Hi Ana"}`}, nil)

	out, err := f.uc.DraftEmail(ctx, "u1", domain.EmailDraftRequest{CandidateID: "cand-1", Purpose: "interview_invite"})
	require.NoError(t, err)
	assert.Equal(t, "Interview", out.Subject)
	assert.Equal(t, "<p>Hi Ana</p>", out.BodyHTML)
}

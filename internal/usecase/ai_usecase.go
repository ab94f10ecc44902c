package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/llm"
	"go-recruitment-crm/pkg/logger"
)

// knownSkillHint caps how many catalogue names are offered to the model.
const knownSkillHint = 200

// MarkdownRenderer is satisfied by *markdown.Renderer.
type MarkdownRenderer interface {
	Render(src string) (string, error)
}

type aiUsecase struct {
	provider      llm.Provider
	md            MarkdownRenderer
	candidateRepo domain.CandidateRepository
	jobRepo       domain.JobRepository
	companyRepo   domain.CompanyRepository
	skillRepo     domain.SkillRepository
	appRepo       domain.ApplicationRepository
	userRepo      domain.UserRepository
}

// NewAIUsecase accepts a nil provider; every operation then reports the
// feature as unavailable.
func NewAIUsecase(
	provider llm.Provider,
	md MarkdownRenderer,
	candidateRepo domain.CandidateRepository,
	jobRepo domain.JobRepository,
	companyRepo domain.CompanyRepository,
	skillRepo domain.SkillRepository,
	appRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
) domain.AIUsecase {
	return &aiUsecase{
		provider:      provider,
		md:            md,
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		companyRepo:   companyRepo,
		skillRepo:     skillRepo,
		appRepo:       appRepo,
		userRepo:      userRepo,
	}
}

// complete renders a prompt, calls the model and decodes the schema-checked
// JSON answer into out.
func (u *aiUsecase) complete(ctx context.Context, prompt string, data any, out any) (bool, error) {
	if u.provider == nil {
		return false, llm.ToAppError(llm.ErrNotConfigured)
	}
	req, err := llm.RenderPrompt(prompt, data)
	if err != nil {
		return false, apperror.Internal(err)
	}
	resp, err := u.provider.Complete(ctx, req)
	if err != nil {
		logger.Log.Warn("llm completion failed", "prompt", prompt, "provider", u.provider.Name(), "error", err)
		return false, llm.ToAppError(err)
	}
	raw, err := llm.ExtractJSON(resp.Text)
	if err != nil {
		return false, llm.ToAppError(err)
	}
	if err := llm.ValidateJSON(prompt, []byte(raw)); err != nil {
		logger.Log.Warn("llm answer failed schema validation", "prompt", prompt, "error", err)
		return false, llm.ToAppError(err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, llm.ToAppError(err)
	}
	logger.Log.Debug("llm completion", "prompt", prompt, "cached", resp.Cached,
		"input_tokens", resp.InputTokens, "output_tokens", resp.OutputTokens)
	return resp.Cached, nil
}

func (u *aiUsecase) render(src string) string {
	if u.md == nil {
		return ""
	}
	html, err := u.md.Render(src)
	if err != nil {
		logger.Log.Warn("markdown render failed", "error", err)
		return ""
	}
	return html
}

func (u *aiUsecase) loadCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	c, err := u.candidateRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.WithKind(apperror.KindValidation, "candidate_id", "Candidate does not exist")
	}
	return c, err
}

func (u *aiUsecase) loadJob(ctx context.Context, id string) (*domain.Job, error) {
	j, err := u.jobRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.WithKind(apperror.KindValidation, "job_id", "Job does not exist")
	}
	return j, err
}

func (u *aiUsecase) AnalyzeCV(ctx context.Context, req domain.CVAnalysisRequest) (*domain.CVAnalysis, error) {
	if req.Save && req.CandidateID == nil {
		return nil, apperror.WithKind(apperror.KindValidation, "candidate_id", "candidate_id is required when save is true")
	}
	text := strings.TrimSpace(req.CVText)
	if req.CandidateID != nil {
		c, err := u.loadCandidate(ctx, *req.CandidateID)
		if err != nil {
			return nil, err
		}
		if text == "" {
			text = strings.TrimSpace(c.CVText)
		}
	}
	if text == "" {
		return nil, apperror.WithKind(apperror.KindValidation, "cv_text", "CV text is required")
	}

	known, err := u.skillRepo.ListNames(ctx, knownSkillHint)
	if err != nil {
		return nil, err
	}

	var out domain.CVAnalysis
	cached, err := u.complete(ctx, llm.PromptCVAnalysis, map[string]any{
		"CVText":      text,
		"KnownSkills": known,
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Cached = cached
	if out.Skills == nil {
		out.Skills = []domain.ExtractedSkill{}
	}

	if req.Save {
		saved, err := u.saveSkills(ctx, *req.CandidateID, out.Skills)
		if err != nil {
			return nil, err
		}
		out.SavedSkills = saved
	}
	return &out, nil
}

// saveSkills adds extracted skills to the catalogue and merges them into the
// candidate's profile without lowering existing levels.
func (u *aiUsecase) saveSkills(ctx context.Context, candidateID string, extracted []domain.ExtractedSkill) (int, error) {
	byID := make(map[string]domain.CandidateSkill, len(extracted))
	for _, ex := range extracted {
		name := strings.TrimSpace(ex.Name)
		if name == "" {
			continue
		}
		category := ex.Category
		if !category.Valid() {
			category = domain.SkillTechnical
		}
		skill, err := u.skillRepo.UpsertByName(ctx, name, category)
		if err != nil {
			return 0, err
		}
		level := min(max(ex.Level, 1), 5)
		if prev, ok := byID[skill.ID]; ok && prev.Level >= level {
			continue
		}
		byID[skill.ID] = domain.CandidateSkill{SkillID: skill.ID, Name: skill.Name, Level: level, Years: max(ex.Years, 0)}
	}
	skills := make([]domain.CandidateSkill, 0, len(byID))
	for _, s := range byID {
		skills = append(skills, s)
	}
	if len(skills) == 0 {
		return 0, nil
	}
	if err := u.candidateRepo.MergeSkills(ctx, candidateID, skills); err != nil {
		return 0, err
	}
	return len(skills), nil
}

func (u *aiUsecase) MatchJob(ctx context.Context, req domain.JobMatchRequest) (*domain.JobMatch, error) {
	candidate, err := u.loadCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	job, err := u.loadJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	jobSkills := make([]string, 0, len(job.Skills))
	for _, s := range job.Skills {
		label := fmt.Sprintf("%s (min level %d)", s.Name, s.MinLevel)
		if s.Required {
			label += " required"
		}
		jobSkills = append(jobSkills, label)
	}
	candSkills := make([]string, 0, len(candidate.Skills))
	for _, s := range candidate.Skills {
		candSkills = append(candSkills, fmt.Sprintf("%s (level %d, %.1f years)", s.Name, s.Level, s.Years))
	}

	var out domain.JobMatch
	cached, err := u.complete(ctx, llm.PromptJobMatch, map[string]any{
		"Job": map[string]any{
			"Title":       job.Title,
			"Company":     job.CompanyName,
			"Location":    job.Location,
			"Skills":      jobSkills,
			"Description": job.Description,
		},
		"Candidate": map[string]any{
			"Name":    candidate.FullName(),
			"Title":   candidate.CurrentTitle,
			"Skills":  candSkills,
			"Summary": candidate.Summary,
			"CVText":  candidate.CVText,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Cached = cached
	out.Score = min(max(out.Score, 0), 100)

	app, err := u.appRepo.FindByCandidateAndJob(ctx, candidate.ID, job.ID)
	switch {
	case err == nil:
		if err := u.appRepo.SetMatchScore(ctx, app.ID, out.Score); err != nil {
			return nil, err
		}
		out.ApplicationID = &app.ID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return &out, nil
}

func (u *aiUsecase) DraftEmail(ctx context.Context, userID string, req domain.EmailDraftRequest) (*domain.EmailDraft, error) {
	candidate, err := u.loadCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	sender, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User")
	}
	settings, err := u.userRepo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"Purpose":        strings.ReplaceAll(req.Purpose, "_", " "),
		"Tone":           req.Tone,
		"CandidateName":  candidate.FullName(),
		"CandidateTitle": candidate.CurrentTitle,
		"SenderName":     sender.FullName(),
		"Signature":      settings.Signature,
		"Instructions":   req.Instructions,
	}
	if req.Tone == "" {
		data["Tone"] = "friendly"
	}
	if req.JobID != nil {
		job, err := u.loadJob(ctx, *req.JobID)
		if err != nil {
			return nil, err
		}
		data["JobTitle"] = job.Title
		data["CompanyName"] = job.CompanyName
	}

	var out domain.EmailDraft
	cached, err := u.complete(ctx, llm.PromptEmail, data, &out)
	if err != nil {
		return nil, err
	}
	out.Cached = cached
	out.BodyHTML = u.render(out.Body)
	return &out, nil
}

func (u *aiUsecase) DraftJobDescription(ctx context.Context, req domain.JobDescriptionRequest) (*domain.JobDescriptionDraft, error) {
	data := map[string]any{
		"Title":          strings.TrimSpace(req.Title),
		"Location":       req.Location,
		"EmploymentType": strings.ReplaceAll(req.EmploymentType, "_", " "),
		"Tone":           req.Tone,
		"KeyPoints":      req.KeyPoints,
	}
	if req.Tone == "" {
		data["Tone"] = "formal"
	}
	if req.CompanyID != nil {
		company, err := u.companyRepo.GetByID(ctx, *req.CompanyID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.WithKind(apperror.KindValidation, "company_id", "Company does not exist")
			}
			return nil, err
		}
		data["CompanyName"] = company.Name
		data["Industry"] = company.Industry
	}

	var out domain.JobDescriptionDraft
	cached, err := u.complete(ctx, llm.PromptJobDescription, data, &out)
	if err != nil {
		return nil, err
	}
	out.Cached = cached
	out.DescriptionHTML = u.render(out.Description)
	return &out, nil
}

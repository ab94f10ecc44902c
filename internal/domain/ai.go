package domain

import "context"

type ExtractedSkill struct {
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	Level    int           `json:"level"`
	Years    float64       `json:"years"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        *int   `json:"year,omitempty"`
}

type CVAnalysisRequest struct {
	CVText      string  `json:"cv_text" binding:"omitempty,max=100000"`
	CandidateID *string `json:"candidate_id" binding:"omitempty,uuid"`
	Save        bool    `json:"save"`
}

type CVAnalysis struct {
	Skills          []ExtractedSkill `json:"skills"`
	ExperienceYears float64          `json:"experience_years"`
	Seniority       string           `json:"seniority"`
	Summary         string           `json:"summary"`
	Education       []Education      `json:"education"`
	Languages       []string         `json:"languages"`
	SavedSkills     int              `json:"saved_skills,omitempty"`
	Cached          bool             `json:"cached"`
}

type JobMatchRequest struct {
	CandidateID string `json:"candidate_id" binding:"required,uuid"`
	JobID       string `json:"job_id" binding:"required,uuid"`
}

type JobMatch struct {
	Score          int      `json:"score"`
	MatchedSkills  []string `json:"matched_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Summary        string   `json:"summary"`
	Recommendation string   `json:"recommendation"`
	ApplicationID  *string  `json:"application_id,omitempty"`
	Cached         bool     `json:"cached"`
}

type EmailDraftRequest struct {
	CandidateID  string  `json:"candidate_id" binding:"required,uuid"`
	JobID        *string `json:"job_id" binding:"omitempty,uuid"`
	Purpose      string  `json:"purpose" binding:"required,oneof=outreach interview_invite follow_up rejection offer"`
	Tone         string  `json:"tone" binding:"omitempty,oneof=formal friendly concise"`
	Instructions string  `json:"instructions" binding:"omitempty,max=2000"`
}

type EmailDraft struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	BodyHTML string `json:"body_html"`
	Cached   bool   `json:"cached"`
}

type JobDescriptionRequest struct {
	Title          string   `json:"title" binding:"required,min=2,max=200"`
	CompanyID      *string  `json:"company_id" binding:"omitempty,uuid"`
	Location       string   `json:"location" binding:"omitempty,max=200"`
	EmploymentType string   `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract temporary internship"`
	KeyPoints      []string `json:"key_points" binding:"omitempty,max=30,dive,min=1,max=500"`
	Tone           string   `json:"tone" binding:"omitempty,oneof=formal friendly concise"`
}

type JobDescriptionDraft struct {
	Description     string `json:"description"`
	DescriptionHTML string `json:"description_html"`
	Cached          bool   `json:"cached"`
}

type AIUsecase interface {
	AnalyzeCV(ctx context.Context, req CVAnalysisRequest) (*CVAnalysis, error)
	MatchJob(ctx context.Context, req JobMatchRequest) (*JobMatch, error)
	DraftEmail(ctx context.Context, userID string, req EmailDraftRequest) (*EmailDraft, error)
	DraftJobDescription(ctx context.Context, req JobDescriptionRequest) (*JobDescriptionDraft, error)
}

package domain

import "context"

const (
	SearchCandidates = "candidates"
	SearchCompanies  = "companies"
	SearchJobs       = "jobs"

	MinSearchQueryLength = 2
	DefaultSearchLimit   = 10
	MaxSearchLimit       = 50
)

type SearchHit struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type SearchResult struct {
	Query      string      `json:"query"`
	Candidates []SearchHit `json:"candidates,omitempty"`
	Companies  []SearchHit `json:"companies,omitempty"`
	Jobs       []SearchHit `json:"jobs,omitempty"`
	Total      int         `json:"total"`
}

type SearchRequest struct {
	Query string `form:"q"`
	Types string `form:"types"`
	Limit int    `form:"limit"`
}

type SearchRepository interface {
	SearchCandidates(ctx context.Context, q string, limit int) ([]SearchHit, error)
	SearchCompanies(ctx context.Context, q string, limit int) ([]SearchHit, error)
	SearchJobs(ctx context.Context, q string, limit int) ([]SearchHit, error)
}

type SearchUsecase interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"

	"golang.org/x/sync/errgroup"
)

type searchUsecase struct {
	repo domain.SearchRepository
}

func NewSearchUsecase(repo domain.SearchRepository) domain.SearchUsecase {
	return &searchUsecase{repo: repo}
}

func parseSearchTypes(raw string) (map[string]bool, error) {
	all := map[string]bool{
		domain.SearchCandidates: true,
		domain.SearchCompanies:  true,
		domain.SearchJobs:       true,
	}
	if strings.TrimSpace(raw) == "" {
		return all, nil
	}
	out := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !all[t] {
			return nil, apperror.WithKind(apperror.KindValidation, "types", "Unknown search type: "+t)
		}
		out[t] = true
	}
	if len(out) == 0 {
		return all, nil
	}
	return out, nil
}

// Search runs the selected entity searches concurrently.
func (u *searchUsecase) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	q := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(q) < domain.MinSearchQueryLength {
		return nil, apperror.WithKind(apperror.KindValidation, "q", "Search query must be at least 2 characters")
	}
	types, err := parseSearchTypes(req.Types)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	if limit > domain.MaxSearchLimit {
		limit = domain.MaxSearchLimit
	}

	res := &domain.SearchResult{Query: q}
	g, gctx := errgroup.WithContext(ctx)
	if types[domain.SearchCandidates] {
		g.Go(func() (err error) {
			res.Candidates, err = u.repo.SearchCandidates(gctx, q, limit)
			return err
		})
	}
	if types[domain.SearchCompanies] {
		g.Go(func() (err error) {
			res.Companies, err = u.repo.SearchCompanies(gctx, q, limit)
			return err
		})
	}
	if types[domain.SearchJobs] {
		g.Go(func() (err error) {
			res.Jobs, err = u.repo.SearchJobs(gctx, q, limit)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res.Total = len(res.Candidates) + len(res.Companies) + len(res.Jobs)
	return res, nil
}

package domain

import (
	"errors"
	"math"
)

var (
	ErrNotFound = errors.New("resource not found")
	// ErrStaleState means a row changed between read and conditional update.
	ErrStaleState = errors.New("resource was modified concurrently")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Offset within an int32 at any page size.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// PageQuery is embedded in list filters and bound from ?page=&page_size=.
type PageQuery struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize clamps paging to page 1..MaxPage and 1..MaxPageSize items.
func (p *PageQuery) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginatedResult[T any](data []T, total int64, q PageQuery) *PaginatedResult[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if q.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.PageSize)))
	}
	return &PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}

package dto

import "credmatrix_backend/internal/repositories"

// PageQuery is the page/page_size pair accepted by list endpoints.
type PageQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

func (q PageQuery) ToPage() repositories.Page {
	return repositories.Page{Page: q.Page, PageSize: q.PageSize}
}

type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewListResponse[T any](items []T, total int64, p repositories.Page) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	page, size := p.Page, p.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = repositories.DefaultPageSize
	}
	if size > repositories.MaxPageSize {
		size = repositories.MaxPageSize
	}
	return &ListResponse[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

package repositories

import "gorm.io/gorm"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1 based page request.
type Page struct {
	Page     int
	PageSize int
}

func (p Page) normalized() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	n := p.normalized()
	return (n.Page - 1) * n.PageSize
}

func paginate(p Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		n := p.normalized()
		return db.Offset(n.Offset()).Limit(n.PageSize)
	}
}

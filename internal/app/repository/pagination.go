package repository

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page to >= 1 and limit to [1, MaxPageLimit], using
// DefaultPageLimit when unset.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// paginate counts the filtered query, then loads one page ordered newest first.
func paginate(query *gorm.DB, page Pagination, total *int64, dest interface{}) error {
	if err := query.Session(&gorm.Session{}).Count(total).Error; err != nil {
		return err
	}
	page = page.Normalize()
	return query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(dest).Error
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?.
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

package db

import (
	"strings"

	"gorm.io/gorm"
)

// NotDeleted is a GORM scope that filters out soft-deleted records.
// Use it with Model().Where().Count() style queries, which skip gorm's
// automatic soft delete filtering when the model has no DeletedAt field.
func NotDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}

// Paginate applies LIMIT/OFFSET for a 1-based page. A non-positive pageSize
// disables pagination.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}

// OrderBy sorts by sortBy when it is in the allowed whitelist, falling back
// to fallback otherwise. The whitelist keeps user input out of ORDER BY.
func OrderBy(allowed map[string]bool, sortBy, sortOrder, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := strings.ToLower(sortBy)
		if field == "" || !allowed[field] {
			return db.Order(fallback)
		}
		order := strings.ToUpper(sortOrder)
		if order != "ASC" && order != "DESC" {
			order = "DESC"
		}
		return db.Order(field + " " + order)
	}
}

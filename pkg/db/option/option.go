// Package option provides composable gorm query modifiers shared by repositories.
package option

import (
	"strconv"
	"time"

	"github.com/smallbiznis/cotiza/pkg/db/pagination"
	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithOrder appends an ORDER BY expression.
func WithOrder(expr string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(expr)
	})
}

// WithLimit caps the result set size.
func WithLimit(limit int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

// ApplyPagination translates a cursor page request into LIMIT plus a keyset
// predicate. One extra row is fetched so callers can detect a next page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		size := page.PageSize
		if size <= 0 {
			size = 50
		}
		db = db.Limit(size + 1)

		if page.PageToken == "" {
			return db
		}
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil || cursor == nil || cursor.ID == "" {
			return db
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return db
		}
		if cursor.CreatedAt != "" {
			// Bind typed values so the comparison works across dialects
			// regardless of how each one stores timestamps.
			if createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt); err == nil {
				return db.Where("(created_at, id) > (?, ?)", createdAt, id)
			}
		}
		return db.Where("id > ?", id)
	})
}

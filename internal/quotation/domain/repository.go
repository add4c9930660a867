package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cotiza/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListQuotationFilter struct {
	ClientName string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, quotation *Quotation) error
	InsertItems(ctx context.Context, db *gorm.DB, items []LineItem) error
	Update(ctx context.Context, db *gorm.DB, quotation *Quotation) error
	DeleteItems(ctx context.Context, db *gorm.DB, quotationID snowflake.ID) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Quotation, error)
	List(ctx context.Context, db *gorm.DB, filter ListQuotationFilter, page pagination.Pagination) ([]*Quotation, error)
}

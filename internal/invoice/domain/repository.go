package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cotiza/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	// NextNumberSeq returns the next value of the monotonic invoice counter.
	// Must run inside the caller's transaction.
	NextNumberSeq(ctx context.Context, db *gorm.DB) (int64, error)
	// Insert writes the invoice row with ON CONFLICT (quotation_id) DO NOTHING
	// and reports whether the row was actually inserted.
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) (bool, error)
	InsertItems(ctx context.Context, db *gorm.DB, items []InvoiceItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByQuotationID(ctx context.Context, db *gorm.DB, quotationID snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*Invoice, error)
}

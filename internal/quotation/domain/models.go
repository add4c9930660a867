// Package domain contains the quotation aggregate and its persistence models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Quotation is a priced proposal sent to a client. Monetary fields are
// derived: TotalAmount is always recomputed from the items, never accepted
// from the caller.
type Quotation struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	SubmissionID string       `gorm:"not null;uniqueIndex:ux_quotations_submission_id" json:"unique_quotation_id"`
	ClientName   string       `gorm:"not null" json:"client_name"`
	Email        string       `gorm:"not null" json:"email"`
	Phone        string       `gorm:"not null" json:"phone"`
	Date         time.Time    `gorm:"column:quotation_date;not null" json:"quotation_date"`
	TotalAmount  float64      `gorm:"not null;default:0" json:"total_amount"`
	Items        []LineItem   `gorm:"foreignKey:QuotationID" json:"items"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Quotation) TableName() string { return "quotations" }

// LineItem is one priced unit of work. Amount is derived from
// quantity * duration_days * unit_price on every write.
type LineItem struct {
	ID           snowflake.ID                `gorm:"primaryKey" json:"id"`
	QuotationID  snowflake.ID                `gorm:"not null;index" json:"quotation_id"`
	Position     int                         `gorm:"not null" json:"-"`
	Name         string                      `gorm:"not null" json:"name"`
	Quantity     int64                       `gorm:"not null" json:"quantity"`
	DurationDays int64                       `gorm:"not null" json:"duration_days"`
	UnitPrice    float64                     `gorm:"not null" json:"unit_price"`
	Amount       float64                     `gorm:"not null" json:"amount"`
	SubItems     datatypes.JSONSlice[string] `gorm:"not null" json:"sub_items"`
	CreatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "quotation_items" }

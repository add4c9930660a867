package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Invoice is an immutable snapshot of a quotation at generation time. Later
// edits to the quotation never touch these rows.
type Invoice struct {
	ID            snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	NumberSeq     int64         `gorm:"column:number_seq;uniqueIndex:ux_invoices_number_seq" json:"-"`
	InvoiceNumber string        `gorm:"column:invoice_number" json:"invoice_number"`
	QuotationID   snowflake.ID  `gorm:"column:quotation_id;uniqueIndex:ux_invoices_quotation_id" json:"quotation_id"`
	InvoiceDate   time.Time     `gorm:"column:invoice_date" json:"invoice_date"`
	ClientName    string        `gorm:"column:client_name" json:"client_name"`
	ClientEmail   string        `gorm:"column:client_email" json:"client_email"`
	ClientPhone   string        `gorm:"column:client_phone" json:"client_phone"`
	TotalAmount   float64       `gorm:"column:total_amount" json:"total_amount"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"created_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is the frozen copy of a quotation line item.
type InvoiceItem struct {
	ID           snowflake.ID                `gorm:"column:id;primaryKey" json:"id"`
	InvoiceID    snowflake.ID                `gorm:"column:invoice_id;index" json:"-"`
	Position     int                         `gorm:"column:position" json:"-"`
	Name         string                      `gorm:"column:name" json:"name"`
	Quantity     int64                       `gorm:"column:quantity" json:"quantity"`
	DurationDays int64                       `gorm:"column:duration_days" json:"duration_days"`
	UnitPrice    float64                     `gorm:"column:unit_price" json:"unit_price"`
	Amount       float64                     `gorm:"column:amount" json:"amount"`
	SubItems     datatypes.JSONSlice[string] `gorm:"column:sub_items" json:"sub_items,omitempty"`
	CreatedAt    time.Time                   `gorm:"column:created_at" json:"created_at"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

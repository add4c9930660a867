package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/cotiza/pkg/db/pagination"
)

// LineItemInput carries client-supplied item fields. Any amount the client
// sends is ignored; amounts are always derived server-side.
type LineItemInput struct {
	Name         string   `json:"name"`
	Quantity     int64    `json:"quantity"`
	DurationDays int64    `json:"duration_days"`
	UnitPrice    float64  `json:"unit_price"`
	SubItems     []string `json:"sub_items"`
}

type CreateQuotationRequest struct {
	// UniqueQuotationID is the client-generated idempotency token.
	// Server-generated when absent.
	UniqueQuotationID string          `json:"unique_quotation_id"`
	ClientName        string          `json:"client_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Date              *time.Time      `json:"quotation_date"`
	Items             []LineItemInput `json:"items"`
}

// UpdateQuotationRequest fully replaces the quotation's client fields and
// item list; there is no partial-field patch.
type UpdateQuotationRequest struct {
	ClientName string          `json:"client_name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Date       *time.Time      `json:"quotation_date"`
	Items      []LineItemInput `json:"items"`
}

type ListQuotationRequest struct {
	ClientName string
	PageToken  string
	PageSize   int
}

type ListQuotationResponse struct {
	pagination.PageInfo
	Quotations []Quotation `json:"quotations"`
}

type Service interface {
	Create(ctx context.Context, req CreateQuotationRequest) (Quotation, error)
	Get(ctx context.Context, id string) (Quotation, error)
	List(ctx context.Context, req ListQuotationRequest) (ListQuotationResponse, error)
	Update(ctx context.Context, id string, req UpdateQuotationRequest) (Quotation, error)
	Delete(ctx context.Context, id string) error
}

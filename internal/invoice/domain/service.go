package domain

import (
	"context"

	"github.com/smallbiznis/cotiza/pkg/db/pagination"
)

type ListInvoiceRequest struct {
	PageToken string
	PageSize  int
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	// Generate creates the invoice for a quotation, or fails with
	// ErrInvoiceExists when one already exists. At most one invoice per
	// quotation survives concurrent calls.
	Generate(ctx context.Context, quotationID string) (Invoice, error)
	Get(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
}

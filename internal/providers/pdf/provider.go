package pdf

import (
	"context"
	"io"

	invoicedomain "github.com/smallbiznis/cotiza/internal/invoice/domain"
	quotationdomain "github.com/smallbiznis/cotiza/internal/quotation/domain"
)

// Provider renders printable documents from domain models.
type Provider interface {
	RenderQuotation(ctx context.Context, quotation quotationdomain.Quotation) (io.Reader, error)
	RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice) (io.Reader, error)
}

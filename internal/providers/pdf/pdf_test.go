package pdf

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/cotiza/internal/invoice/domain"
	quotationdomain "github.com/smallbiznis/cotiza/internal/quotation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRenderQuotation(t *testing.T) {
	provider := New()

	doc, err := provider.RenderQuotation(context.Background(), quotationdomain.Quotation{
		ID:           snowflake.ID(1),
		SubmissionID: "q-123",
		ClientName:   "Acme Corp",
		Email:        "billing@acme.test",
		Phone:        "+628123456789",
		Date:         time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC),
		TotalAmount:  1000,
		Items: []quotationdomain.LineItem{
			{
				Name:         "Stage rig",
				Quantity:     1,
				DurationDays: 5,
				UnitPrice:    200,
				Amount:       1000,
				SubItems:     datatypes.NewJSONSlice([]string{"Truss", "Rigging crew"}),
			},
		},
	})
	require.NoError(t, err)
	assertPDF(t, doc)
}

func TestRenderInvoice(t *testing.T) {
	provider := New()

	doc, err := provider.RenderInvoice(context.Background(), invoicedomain.Invoice{
		ID:            snowflake.ID(2),
		InvoiceNumber: "INV-202603-000001",
		InvoiceDate:   time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC),
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.test",
		ClientPhone:   "+628123456789",
		TotalAmount:   1000,
		Items: []invoicedomain.InvoiceItem{
			{Name: "Stage rig", Quantity: 1, DurationDays: 5, UnitPrice: 200, Amount: 1000},
		},
	})
	require.NoError(t, err)
	assertPDF(t, doc)
}

func assertPDF(t *testing.T, doc io.Reader) {
	t.Helper()

	content, err := io.ReadAll(doc)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]))
}

package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	invoicedomain "github.com/smallbiznis/cotiza/internal/invoice/domain"
)

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice) (io.Reader, error) {
	m := newDocument()

	m.AddRow(10,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Top: 0}),
			text.New("Invoice date: "+invoice.InvoiceDate.Format("2006-01-02"), props.Text{Top: 4}),
		),
		col.New(6),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.ClientName, props.Text{Top: 5}),
			text.New(invoice.ClientEmail, props.Text{Top: 9}),
			text.New(invoice.ClientPhone, props.Text{Top: 13}),
		),
		col.New(6),
	)

	addItemTable(m, toRows(invoice.Items))

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, money(invoice.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	return render(m)
}

// itemRow is the dialect-neutral line the table renderer consumes; quotation
// and invoice items both map onto it.
type itemRow struct {
	Name         string
	SubItems     []string
	Quantity     int64
	DurationDays int64
	UnitPrice    float64
	Amount       float64
}

func toRows(items []invoicedomain.InvoiceItem) []itemRow {
	rows := make([]itemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemRow{
			Name:         item.Name,
			SubItems:     item.SubItems,
			Quantity:     item.Quantity,
			DurationDays: item.DurationDays,
			UnitPrice:    item.UnitPrice,
			Amount:       item.Amount,
		})
	}
	return rows
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	return maroto.New(cfg)
}

func addItemTable(m core.Maroto, rows []itemRow) {
	m.AddRow(10,
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "Days", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, row := range rows {
		description := row.Name
		if len(row.SubItems) > 0 {
			description += " (" + strings.Join(row.SubItems, ", ") + ")"
		}
		m.AddRow(12,
			text.NewCol(5, description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", row.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, fmt.Sprintf("%d", row.DurationDays), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(row.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(row.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func render(m core.Maroto) (io.Reader, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func money(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

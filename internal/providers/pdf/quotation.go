package pdf

import (
	"context"
	"io"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	quotationdomain "github.com/smallbiznis/cotiza/internal/quotation/domain"
)

func (p *MarotoProvider) RenderQuotation(ctx context.Context, quotation quotationdomain.Quotation) (io.Reader, error) {
	m := newDocument()

	m.AddRow(10,
		text.NewCol(12, "Quotation", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Reference: "+quotation.SubmissionID, props.Text{Top: 0}),
			text.New("Date: "+quotation.Date.Format("2006-01-02"), props.Text{Top: 4}),
		),
		col.New(6),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Prepared for", props.Text{Style: fontstyle.Bold}),
			text.New(quotation.ClientName, props.Text{Top: 5}),
			text.New(quotation.Email, props.Text{Top: 9}),
			text.New(quotation.Phone, props.Text{Top: 13}),
		),
		col.New(6),
	)

	rows := make([]itemRow, 0, len(quotation.Items))
	for _, item := range quotation.Items {
		rows = append(rows, itemRow{
			Name:         item.Name,
			SubItems:     item.SubItems,
			Quantity:     item.Quantity,
			DurationDays: item.DurationDays,
			UnitPrice:    item.UnitPrice,
			Amount:       item.Amount,
		})
	}
	addItemTable(m, rows)

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, money(quotation.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	return render(m)
}

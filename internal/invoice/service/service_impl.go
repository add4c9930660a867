package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cotiza/internal/clock"
	"github.com/smallbiznis/cotiza/internal/config"
	"github.com/smallbiznis/cotiza/internal/invoice/domain"
	"github.com/smallbiznis/cotiza/internal/invoice/format"
	obsmetrics "github.com/smallbiznis/cotiza/internal/observability/metrics"
	quotationdomain "github.com/smallbiznis/cotiza/internal/quotation/domain"
	"github.com/smallbiznis/cotiza/pkg/db"
	"github.com/smallbiznis/cotiza/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Numbering *config.NumberingHolder
	Repo      domain.Repository
	Quotation quotationdomain.Repository
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	numbering *config.NumberingHolder
	repo      domain.Repository
	quotation quotationdomain.Repository
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		numbering: p.Numbering,
		repo:      p.Repo,
		quotation: p.Quotation,
		metrics:   p.Metrics,
	}
}

// Generate snapshots the quotation into a new invoice inside one transaction.
// The unique index on invoices.quotation_id is the arbiter under concurrency:
// whichever transaction commits its row first wins, every other caller gets
// ErrInvoiceExists.
func (s *Service) Generate(ctx context.Context, quotationID string) (domain.Invoice, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(quotationID))
	if err != nil {
		return domain.Invoice{}, quotationdomain.ErrInvalidID
	}

	now := s.clock.Now()
	var invoice domain.Invoice

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quotation, err := s.quotation.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if quotation == nil {
			return quotationdomain.ErrNotFound
		}

		existing, err := s.repo.FindByQuotationID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrInvoiceExists
		}

		seq, err := s.repo.NextNumberSeq(ctx, tx)
		if err != nil {
			return err
		}

		invoice = domain.Invoice{
			ID:            s.genID.Generate(),
			NumberSeq:     seq,
			InvoiceNumber: format.InvoiceNumber(s.numbering.Get().InvoiceNumberTemplate, seq, now),
			QuotationID:   quotation.ID,
			InvoiceDate:   now,
			ClientName:    quotation.ClientName,
			ClientEmail:   quotation.Email,
			ClientPhone:   quotation.Phone,
			TotalAmount:   quotation.TotalAmount,
			CreatedAt:     now,
		}

		inserted, err := s.repo.Insert(ctx, tx, &invoice)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrInvoiceExists
		}

		items := snapshotItems(s.genID, invoice.ID, quotation.Items, now)
		if err := s.repo.InsertItems(ctx, tx, items); err != nil {
			return err
		}
		invoice.Items = items
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceExists) || db.IsDuplicateKeyErr(err) {
			s.metrics.RecordGenerationConflict(ctx)
			return domain.Invoice{}, domain.ErrInvoiceExists
		}
		return domain.Invoice{}, err
	}

	s.metrics.RecordInvoiceGenerated(ctx)
	s.log.Info("invoice generated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("quotation_id", invoice.QuotationID.String()),
	)
	return invoice, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func snapshotItems(genID *snowflake.Node, invoiceID snowflake.ID, items []quotationdomain.LineItem, now time.Time) []domain.InvoiceItem {
	out := make([]domain.InvoiceItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.InvoiceItem{
			ID:           genID.Generate(),
			InvoiceID:    invoiceID,
			Position:     item.Position,
			Name:         item.Name,
			Quantity:     item.Quantity,
			DurationDays: item.DurationDays,
			UnitPrice:    item.UnitPrice,
			Amount:       item.Amount,
			SubItems:     item.SubItems,
			CreatedAt:    now,
		})
	}
	return out
}

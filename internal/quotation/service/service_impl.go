package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/cotiza/internal/clock"
	invoicedomain "github.com/smallbiznis/cotiza/internal/invoice/domain"
	obsmetrics "github.com/smallbiznis/cotiza/internal/observability/metrics"
	"github.com/smallbiznis/cotiza/internal/quotation/domain"
	"github.com/smallbiznis/cotiza/pkg/db"
	"github.com/smallbiznis/cotiza/pkg/db/pagination"
	"github.com/smallbiznis/cotiza/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("quotation.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateQuotationRequest) (domain.Quotation, error) {
	fields, err := validateClientFields(req.ClientName, req.Email, req.Phone)
	if err != nil {
		return domain.Quotation{}, err
	}

	now := s.clock.Now()
	items, total, err := buildItems(req.Items, now)
	if err != nil {
		return domain.Quotation{}, err
	}

	submissionID := strings.TrimSpace(req.UniqueQuotationID)
	if submissionID == "" {
		submissionID = uuid.NewString()
	}

	quotation := domain.Quotation{
		ID:           s.genID.Generate(),
		SubmissionID: submissionID,
		ClientName:   fields.clientName,
		Email:        fields.email,
		Phone:        fields.phone,
		Date:         quotationDate(req.Date, now),
		TotalAmount:  total,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := range items {
		items[i].ID = s.genID.Generate()
		items[i].QuotationID = quotation.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &quotation); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, tx, items)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Quotation{}, domain.ErrDuplicateSubmission
		}
		return domain.Quotation{}, err
	}

	quotation.Items = items
	s.metrics.RecordQuotationCreated(ctx)
	s.log.Info("quotation created",
		zap.String("quotation_id", quotation.ID.String()),
		zap.Float64("total_amount", quotation.TotalAmount),
	)
	return quotation, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Quotation, error) {
	quotationID, err := parseID(id)
	if err != nil {
		return domain.Quotation{}, domain.ErrInvalidID
	}

	quotation, err := s.repo.FindByID(ctx, s.db, quotationID)
	if err != nil {
		return domain.Quotation{}, err
	}
	if quotation == nil {
		return domain.Quotation{}, domain.ErrNotFound
	}
	return *quotation, nil
}

func (s *Service) List(ctx context.Context, req domain.ListQuotationRequest) (domain.ListQuotationResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListQuotationFilter{
		ClientName: strings.TrimSpace(req.ClientName),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListQuotationResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(quotation *domain.Quotation) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        quotation.ID.String(),
			CreatedAt: quotation.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	quotations := make([]domain.Quotation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		quotations = append(quotations, *item)
	}

	resp := domain.ListQuotationResponse{Quotations: quotations}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// Update fully replaces the quotation's client fields and item list after the
// same validation and recomputation as Create.
func (s *Service) Update(ctx context.Context, id string, req domain.UpdateQuotationRequest) (domain.Quotation, error) {
	quotationID, err := parseID(id)
	if err != nil {
		return domain.Quotation{}, domain.ErrInvalidID
	}

	fields, err := validateClientFields(req.ClientName, req.Email, req.Phone)
	if err != nil {
		return domain.Quotation{}, err
	}

	now := s.clock.Now()
	items, total, err := buildItems(req.Items, now)
	if err != nil {
		return domain.Quotation{}, err
	}

	var updated domain.Quotation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, quotationID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		updated = *existing
		updated.ClientName = fields.clientName
		updated.Email = fields.email
		updated.Phone = fields.phone
		updated.Date = quotationDate(req.Date, existing.Date)
		updated.TotalAmount = total
		updated.UpdatedAt = now

		for i := range items {
			items[i].ID = s.genID.Generate()
			items[i].QuotationID = quotationID
		}

		if err := s.repo.Update(ctx, tx, &updated); err != nil {
			return err
		}
		if err := s.repo.DeleteItems(ctx, tx, quotationID); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, tx, items)
	})
	if err != nil {
		return domain.Quotation{}, err
	}

	updated.Items = items
	return updated, nil
}

// Delete removes a quotation unless an invoice already references it. The
// invoice check and the delete run in one transaction so the block cannot be
// bypassed by a concurrent generate.
func (s *Service) Delete(ctx context.Context, id string) error {
	quotationID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, quotationID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		invoiced, err := hasInvoice(ctx, tx, quotationID)
		if err != nil {
			return err
		}
		if invoiced {
			return domain.ErrQuotationInvoiced
		}

		if err := s.repo.DeleteItems(ctx, tx, quotationID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, quotationID)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordQuotationDeleted(ctx)
	s.log.Info("quotation deleted", zap.String("quotation_id", quotationID.String()))
	return nil
}

func hasInvoice(ctx context.Context, tx *gorm.DB, quotationID snowflake.ID) (bool, error) {
	invoices := repository.ProvideStore[invoicedomain.Invoice](tx)
	existing, err := invoices.FindOne(ctx, &invoicedomain.Invoice{QuotationID: quotationID})
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

type clientFields struct {
	clientName string
	email      string
	phone      string
}

func validateClientFields(clientName, email, phone string) (clientFields, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return clientFields{}, domain.ErrInvalidClientName
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return clientFields{}, domain.ErrInvalidEmail
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return clientFields{}, domain.ErrInvalidEmail
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return clientFields{}, domain.ErrInvalidPhone
	}

	return clientFields{clientName: clientName, email: email, phone: phone}, nil
}

// buildItems validates the inputs, strips blank sub-item labels, and derives
// every amount plus the quotation total.
func buildItems(inputs []domain.LineItemInput, now time.Time) ([]domain.LineItem, float64, error) {
	if len(inputs) == 0 {
		return nil, 0, domain.ErrNoItems
	}

	items := make([]domain.LineItem, 0, len(inputs))
	for i, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, 0, domain.ErrInvalidItemName
		}
		if input.Quantity < 1 {
			return nil, 0, domain.ErrInvalidQuantity
		}
		if input.DurationDays < 1 {
			return nil, 0, domain.ErrInvalidDuration
		}
		if input.UnitPrice < 0 {
			return nil, 0, domain.ErrInvalidUnitPrice
		}

		amount, err := domain.ItemAmount(input.Quantity, input.DurationDays, input.UnitPrice)
		if err != nil {
			return nil, 0, err
		}

		items = append(items, domain.LineItem{
			Position:     i,
			Name:         name,
			Quantity:     input.Quantity,
			DurationDays: input.DurationDays,
			UnitPrice:    input.UnitPrice,
			Amount:       amount,
			SubItems:     datatypes.NewJSONSlice(stripBlank(input.SubItems)),
			CreatedAt:    now,
		})
	}

	total, err := domain.QuotationTotal(items)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func stripBlank(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		out = append(out, label)
	}
	return out
}

func quotationDate(requested *time.Time, fallback time.Time) time.Time {
	if requested != nil && !requested.IsZero() {
		return requested.UTC()
	}
	return fallback
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/cotiza/internal/clock"
	invoicedomain "github.com/smallbiznis/cotiza/internal/invoice/domain"
	"github.com/smallbiznis/cotiza/internal/quotation/domain"
	"github.com/smallbiznis/cotiza/internal/quotation/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Quotation{},
		&domain.LineItem{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
	))

	return db
}

func newTestService(t *testing.T, db *gorm.DB, clk clock.Clock) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
}

func validCreateRequest() domain.CreateQuotationRequest {
	return domain.CreateQuotationRequest{
		ClientName: "Acme Corp",
		Email:      "billing@acme.test",
		Phone:      "+628123456789",
		Items: []domain.LineItemInput{
			{Name: "Stage rig", Quantity: 1, DurationDays: 5, UnitPrice: 200},
		},
	}
}

func TestCreateQuotation(t *testing.T) {
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC))
	svc := newTestService(t, db, clk)
	ctx := context.Background()

	req := validCreateRequest()
	req.Items = append(req.Items, domain.LineItemInput{
		Name:         "Lighting crew",
		Quantity:     2,
		DurationDays: 3,
		UnitPrice:    150,
		SubItems:     []string{"", "Design", "  ", "Operation"},
	})

	quotation, err := svc.Create(ctx, req)
	require.NoError(t, err)

	assert.NotZero(t, quotation.ID)
	assert.NotEmpty(t, quotation.SubmissionID)
	assert.Equal(t, "Acme Corp", quotation.ClientName)
	assert.Equal(t, clk.Now(), quotation.Date)
	require.Len(t, quotation.Items, 2)

	assert.InDelta(t, 1000, quotation.Items[0].Amount, 1e-9)
	assert.InDelta(t, 900, quotation.Items[1].Amount, 1e-9)
	assert.InDelta(t, 1900, quotation.TotalAmount, 1e-9)
	assert.Equal(t, []string{"Design", "Operation"}, []string(quotation.Items[1].SubItems))

	stored, err := svc.Get(ctx, quotation.ID.String())
	require.NoError(t, err)
	assert.InDelta(t, 1900, stored.TotalAmount, 1e-9)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Stage rig", stored.Items[0].Name)
}

func TestCreateQuotationValidation(t *testing.T) {
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Now())
	svc := newTestService(t, db, clk)
	ctx := context.Background()

	tests := []struct {
		name        string
		mutate      func(req *domain.CreateQuotationRequest)
		expectedErr error
	}{
		{"blank client name", func(req *domain.CreateQuotationRequest) { req.ClientName = "   " }, domain.ErrInvalidClientName},
		{"malformed email", func(req *domain.CreateQuotationRequest) { req.Email = "not-an-email" }, domain.ErrInvalidEmail},
		{"blank phone", func(req *domain.CreateQuotationRequest) { req.Phone = "" }, domain.ErrInvalidPhone},
		{"no items", func(req *domain.CreateQuotationRequest) { req.Items = nil }, domain.ErrNoItems},
		{"blank item name", func(req *domain.CreateQuotationRequest) { req.Items[0].Name = " " }, domain.ErrInvalidItemName},
		{"zero quantity", func(req *domain.CreateQuotationRequest) { req.Items[0].Quantity = 0 }, domain.ErrInvalidQuantity},
		{"zero duration", func(req *domain.CreateQuotationRequest) { req.Items[0].DurationDays = 0 }, domain.ErrInvalidDuration},
		{"negative price", func(req *domain.CreateQuotationRequest) { req.Items[0].UnitPrice = -1 }, domain.ErrInvalidUnitPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestCreateQuotationDuplicateSubmission(t *testing.T) {
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Now())
	svc := newTestService(t, db, clk)
	ctx := context.Background()

	req := validCreateRequest()
	req.UniqueQuotationID = "3f6c1f0e-5f7a-4f44-8f0f-0f9a2f1c1a11"

	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	var count int64
	require.NoError(t, db.Model(&domain.Quotation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateQuotationRecomputesTotals(t *testing.T) {
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC))
	svc := newTestService(t, db, clk)
	ctx := context.Background()

	req := validCreateRequest()
	req.Items = []domain.LineItemInput{
		{Name: "Sound system", Quantity: 2, DurationDays: 3, UnitPrice: 100},
	}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.InDelta(t, 600, created.TotalAmount, 1e-9)

	clk.Advance(time.Hour)

	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateQuotationRequest{
		ClientName: "Acme Corp",
		Email:      "billing@acme.test",
		Phone:      "+628123456789",
		Items: []domain.LineItemInput{
			{Name: "Sound system", Quantity: 3, DurationDays: 3, UnitPrice: 100},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 900, updated.TotalAmount, 1e-9)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	stored, err := svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.EqualValues(t, 3, stored.Items[0].Quantity)
	assert.InDelta(t, 900, stored.TotalAmount, 1e-9)
}

func TestUpdateQuotationNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))

	_, err := svc.Update(context.Background(), "12345", domain.UpdateQuotationRequest{
		ClientName: "Acme Corp",
		Email:      "billing@acme.test",
		Phone:      "+628123456789",
		Items: []domain.LineItemInput{
			{Name: "Sound system", Quantity: 1, DurationDays: 1, UnitPrice: 100},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteQuotation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	_, err = svc.Get(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&domain.LineItem{}).Where("quotation_id = ?", created.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestDeleteQuotationBlockedByInvoice(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, db.Create(&invoicedomain.Invoice{
		ID:            snowflake.ID(900),
		NumberSeq:     1,
		InvoiceNumber: "INV-202603-000001",
		QuotationID:   created.ID,
		InvoiceDate:   time.Now().UTC(),
		ClientName:    created.ClientName,
		TotalAmount:   created.TotalAmount,
		CreatedAt:     time.Now().UTC(),
	}).Error)

	err = svc.Delete(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrQuotationInvoiced)

	stored, err := svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
}

func TestGetQuotationInvalidID(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))

	_, err := svc.Get(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListQuotations(t *testing.T) {
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestService(t, db, clk)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req := validCreateRequest()
		if i == 2 {
			req.ClientName = "Globex"
		}
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}

	t.Run("filters by client name", func(t *testing.T) {
		resp, err := svc.List(ctx, domain.ListQuotationRequest{ClientName: "Globex"})
		require.NoError(t, err)
		require.Len(t, resp.Quotations, 1)
		assert.Equal(t, "Globex", resp.Quotations[0].ClientName)
		assert.False(t, resp.HasMore)
	})

	t.Run("paginates with cursor", func(t *testing.T) {
		first, err := svc.List(ctx, domain.ListQuotationRequest{PageSize: 2})
		require.NoError(t, err)
		require.Len(t, first.Quotations, 2)
		assert.True(t, first.HasMore)
		require.NotEmpty(t, first.NextPageToken)

		second, err := svc.List(ctx, domain.ListQuotationRequest{PageSize: 2, PageToken: first.NextPageToken})
		require.NoError(t, err)
		require.Len(t, second.Quotations, 1)
		assert.False(t, second.HasMore)
		assert.NotEqual(t, first.Quotations[0].ID, second.Quotations[0].ID)
	})
}

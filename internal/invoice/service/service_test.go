package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/cotiza/internal/clock"
	"github.com/smallbiznis/cotiza/internal/config"
	"github.com/smallbiznis/cotiza/internal/invoice/domain"
	"github.com/smallbiznis/cotiza/internal/invoice/repository"
	quotationdomain "github.com/smallbiznis/cotiza/internal/quotation/domain"
	quotationrepository "github.com/smallbiznis/cotiza/internal/quotation/repository"
	quotationservice "github.com/smallbiznis/cotiza/internal/quotation/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db           *gorm.DB
	clk          *clock.FakeClock
	quotationSvc quotationdomain.Service
	invoiceSvc   domain.Service
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&quotationdomain.Quotation{},
		&quotationdomain.LineItem{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	numbering, err := config.NewNumberingHolder()
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC))
	quotationRepo := quotationrepository.Provide()

	quotationSvc := quotationservice.New(quotationservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  quotationRepo,
	})

	invoiceSvc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		Numbering: numbering,
		Repo:      repository.Provide(),
		Quotation: quotationRepo,
	})

	return &testEnv{
		db:           db,
		clk:          clk,
		quotationSvc: quotationSvc,
		invoiceSvc:   invoiceSvc,
	}
}

func (e *testEnv) createQuotation(t *testing.T) quotationdomain.Quotation {
	t.Helper()

	quotation, err := e.quotationSvc.Create(context.Background(), quotationdomain.CreateQuotationRequest{
		ClientName: "Acme Corp",
		Email:      "billing@acme.test",
		Phone:      "+628123456789",
		Items: []quotationdomain.LineItemInput{
			{Name: "Stage rig", Quantity: 1, DurationDays: 5, UnitPrice: 200, SubItems: []string{"Truss", "Rigging crew"}},
		},
	})
	require.NoError(t, err)
	return quotation
}

func TestGenerateInvoice(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	quotation := env.createQuotation(t)

	invoice, err := env.invoiceSvc.Generate(ctx, quotation.ID.String())
	require.NoError(t, err)

	assert.NotZero(t, invoice.ID)
	assert.EqualValues(t, 1, invoice.NumberSeq)
	assert.Equal(t, "INV-202603-000001", invoice.InvoiceNumber)
	assert.Equal(t, quotation.ID, invoice.QuotationID)
	assert.Equal(t, env.clk.Now(), invoice.InvoiceDate)
	assert.Equal(t, "Acme Corp", invoice.ClientName)
	assert.Equal(t, "billing@acme.test", invoice.ClientEmail)
	assert.InDelta(t, 1000, invoice.TotalAmount, 1e-9)

	require.Len(t, invoice.Items, 1)
	assert.Equal(t, "Stage rig", invoice.Items[0].Name)
	assert.EqualValues(t, 1, invoice.Items[0].Quantity)
	assert.EqualValues(t, 5, invoice.Items[0].DurationDays)
	assert.InDelta(t, 200, invoice.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 1000, invoice.Items[0].Amount, 1e-9)
	assert.Equal(t, []string{"Truss", "Rigging crew"}, []string(invoice.Items[0].SubItems))
}

func TestGenerateInvoiceOnlyOnce(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	quotation := env.createQuotation(t)

	first, err := env.invoiceSvc.Generate(ctx, quotation.ID.String())
	require.NoError(t, err)

	_, err = env.invoiceSvc.Generate(ctx, quotation.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvoiceExists)

	var count int64
	require.NoError(t, env.db.Model(&domain.Invoice{}).Where("quotation_id = ?", quotation.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stored, err := env.invoiceSvc.Get(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.InvoiceNumber, stored.InvoiceNumber)
}

func TestGenerateInvoiceQuotationNotFound(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.invoiceSvc.Generate(context.Background(), "98765")
	assert.ErrorIs(t, err, quotationdomain.ErrNotFound)

	_, err = env.invoiceSvc.Generate(context.Background(), "nope")
	assert.ErrorIs(t, err, quotationdomain.ErrInvalidID)
}

func TestGenerateInvoiceSequenceAdvances(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first := env.createQuotation(t)
	env.clk.Advance(time.Minute)
	second := env.createQuotation(t)

	invoiceA, err := env.invoiceSvc.Generate(ctx, first.ID.String())
	require.NoError(t, err)
	invoiceB, err := env.invoiceSvc.Generate(ctx, second.ID.String())
	require.NoError(t, err)

	assert.EqualValues(t, 1, invoiceA.NumberSeq)
	assert.EqualValues(t, 2, invoiceB.NumberSeq)
	assert.Equal(t, "INV-202603-000002", invoiceB.InvoiceNumber)
}

func TestInvoiceSnapshotSurvivesQuotationEdits(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	quotation := env.createQuotation(t)

	invoice, err := env.invoiceSvc.Generate(ctx, quotation.ID.String())
	require.NoError(t, err)

	_, err = env.quotationSvc.Update(ctx, quotation.ID.String(), quotationdomain.UpdateQuotationRequest{
		ClientName: "Acme Corp Renamed",
		Email:      "finance@acme.test",
		Phone:      "+628123456789",
		Items: []quotationdomain.LineItemInput{
			{Name: "Stage rig", Quantity: 2, DurationDays: 5, UnitPrice: 200},
		},
	})
	require.NoError(t, err)

	stored, err := env.invoiceSvc.Get(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", stored.ClientName)
	assert.Equal(t, "billing@acme.test", stored.ClientEmail)
	assert.InDelta(t, 1000, stored.TotalAmount, 1e-9)
	require.Len(t, stored.Items, 1)
	assert.EqualValues(t, 1, stored.Items[0].Quantity)
}

func TestGetInvoiceNotFound(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.invoiceSvc.Get(context.Background(), "424242")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	_, err = env.invoiceSvc.Get(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListInvoices(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		quotation := env.createQuotation(t)
		_, err := env.invoiceSvc.Generate(ctx, quotation.ID.String())
		require.NoError(t, err)
		env.clk.Advance(time.Minute)
	}

	first, err := env.invoiceSvc.List(ctx, domain.ListInvoiceRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Invoices, 2)
	assert.True(t, first.HasMore)

	second, err := env.invoiceSvc.List(ctx, domain.ListInvoiceRequest{PageSize: 2, PageToken: first.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Invoices, 1)
	assert.False(t, second.HasMore)
}

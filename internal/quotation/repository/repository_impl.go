package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cotiza/internal/quotation/domain"
	"github.com/smallbiznis/cotiza/pkg/db/option"
	"github.com/smallbiznis/cotiza/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, quotation *domain.Quotation) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO quotations (id, submission_id, client_name, email, phone, quotation_date, total_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quotation.ID,
		quotation.SubmissionID,
		quotation.ClientName,
		quotation.Email,
		quotation.Phone,
		quotation.Date,
		quotation.TotalAmount,
		quotation.CreatedAt,
		quotation.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.LineItem) error {
	for i := range items {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO quotation_items (id, quotation_id, position, name, quantity, duration_days, unit_price, amount, sub_items, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			items[i].ID,
			items[i].QuotationID,
			items[i].Position,
			items[i].Name,
			items[i].Quantity,
			items[i].DurationDays,
			items[i].UnitPrice,
			items[i].Amount,
			items[i].SubItems,
			items[i].CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, quotation *domain.Quotation) error {
	return db.WithContext(ctx).Exec(
		`UPDATE quotations
		 SET client_name = ?, email = ?, phone = ?, quotation_date = ?, total_amount = ?, updated_at = ?
		 WHERE id = ?`,
		quotation.ClientName,
		quotation.Email,
		quotation.Phone,
		quotation.Date,
		quotation.TotalAmount,
		quotation.UpdatedAt,
		quotation.ID,
	).Error
}

func (r *repo) DeleteItems(ctx context.Context, db *gorm.DB, quotationID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM quotation_items WHERE quotation_id = ?`,
		quotationID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM quotations WHERE id = ?`,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&quotation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quotation, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListQuotationFilter, page pagination.Pagination) ([]*domain.Quotation, error) {
	var quotations []*domain.Quotation
	stmt := db.WithContext(ctx).Model(&domain.Quotation{})
	if filter.ClientName != "" {
		stmt = stmt.Where("client_name = ?", filter.ClientName)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at asc, id asc").
		Find(&quotations).Error
	if err != nil {
		return nil, err
	}
	return quotations, nil
}

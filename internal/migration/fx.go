package migration

import (
	"github.com/smallbiznis/cotiza/internal/config"
	invoicedomain "github.com/smallbiznis/cotiza/internal/invoice/domain"
	quotationdomain "github.com/smallbiznis/cotiza/internal/quotation/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&quotationdomain.Quotation{},
				&quotationdomain.LineItem{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceItem{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)

package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	cartdomain "github.com/pedalroom/pedalroom/internal/cart/domain"
	"github.com/pedalroom/pedalroom/internal/config"
	listingdomain "github.com/pedalroom/pedalroom/internal/listing/domain"
	transactiondomain "github.com/pedalroom/pedalroom/internal/transaction/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL migrations are postgres-only. Other dialects are
		// for local development, where the model schema is authoritative.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&listingdomain.Listing{},
				&cartdomain.Cart{},
				&cartdomain.CartItem{},
				&transactiondomain.Transaction{},
				&transactiondomain.TransactionLineItem{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)

package migration

import (
	"github.com/smallbiznis/clientbase/internal/config"
	customerdomain "github.com/smallbiznis/clientbase/internal/customer/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite and mysql have no versioned migration driver wired;
		// AutoMigrate keeps the schema current for those.
		return conn.AutoMigrate(&customerdomain.Customer{})
	}),
)

package migration

import (
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	"github.com/upravdom/upravdom/internal/clock"
	"github.com/upravdom/upravdom/internal/config"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
	ownerdomain "github.com/upravdom/upravdom/internal/owner/domain"
	"github.com/upravdom/upravdom/internal/seed"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, clk clock.Clock) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are dev/test setups; gorm derives the same
			// schema from the models.
			if err := conn.AutoMigrate(
				&ownerdomain.Owner{},
				&apartmentdomain.Apartment{},
				&utilitydomain.UtilityService{},
				&meterdomain.Meter{},
				&tariffdomain.Tariff{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDefaultServices {
			return seed.EnsureDefaultServices(conn, clk.Now())
		}
		return nil
	}),
)

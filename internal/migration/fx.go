package migration

import (
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	"github.com/smallbiznis/reserva/internal/config"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	"github.com/smallbiznis/reserva/internal/seed"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
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
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite is the zero-setup local mode. It has no exclusion
			// constraint; the lock repository's transactional pre-scan
			// carries the overlap check there.
			if err := conn.AutoMigrate(
				&merchantdomain.Merchant{},
				&merchantdomain.MerchantHoliday{},
				&subscriptiondomain.Subscription{},
				&catalogdomain.Service{},
				&catalogdomain.ServiceOption{},
				&catalogdomain.Staff{},
				&catalogdomain.StaffSkill{},
				&catalogdomain.StaffWorkingHours{},
				&catalogdomain.StaffHoliday{},
				&bookingdomain.Booking{},
				&bookingdomain.BookingLock{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemo {
			return seed.EnsureDemoSalon(conn)
		}
		return nil
	}),
)

// Package seed provisions a demo salon so a fresh install can take a
// booking without any manual setup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
	"gorm.io/gorm"
)

const (
	demoSlug     = "demo-salon"
	demoName     = "Demo Salon"
	demoTimezone = "Asia/Tokyo"
)

// EnsureDemoSalon seeds the demo merchant with a trialing subscription,
// two services, one option and two staff members. It is idempotent; the
// merchant slug is the marker.
func EnsureDemoSalon(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing merchantdomain.Merchant
		err := tx.Where("slug = ?", demoSlug).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		merchant := merchantdomain.Merchant{
			ID:          node.Generate(),
			Slug:        demoSlug,
			DisplayName: demoName,
			Timezone:    demoTimezone,
			Status:      merchantdomain.MerchantStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&merchant).Error; err != nil {
			return err
		}

		if err := tx.Create(&subscriptiondomain.Subscription{
			ID:                 node.Generate(),
			MerchantID:         merchant.ID,
			Status:             subscriptiondomain.SubscriptionStatusTrialing,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			CreatedAt:          now,
			UpdatedAt:          now,
		}).Error; err != nil {
			return err
		}

		cut := catalogdomain.Service{
			ID:          node.Generate(),
			MerchantID:  merchant.ID,
			Name:        "Cut",
			Category:    "hair",
			PriceAmount: 4500,
			Currency:    "JPY",
			DurationMin: 45,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		color := catalogdomain.Service{
			ID:          node.Generate(),
			MerchantID:  merchant.ID,
			Name:        "Color",
			Category:    "hair",
			PriceAmount: 8000,
			Currency:    "JPY",
			DurationMin: 90,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create([]*catalogdomain.Service{&cut, &color}).Error; err != nil {
			return err
		}

		if err := tx.Create(&catalogdomain.ServiceOption{
			ID:          node.Generate(),
			MerchantID:  merchant.ID,
			ServiceID:   cut.ID,
			Name:        "Head spa",
			AddPrice:    1500,
			AddDuration: 15,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}).Error; err != nil {
			return err
		}

		staff := []catalogdomain.Staff{
			{ID: node.Generate(), MerchantID: merchant.ID, DisplayName: "Aki", Active: true, CreatedAt: now, UpdatedAt: now},
			{ID: node.Generate(), MerchantID: merchant.ID, DisplayName: "Ren", Active: true, CreatedAt: now, UpdatedAt: now},
		}
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}

		for _, st := range staff {
			for _, svc := range []catalogdomain.Service{cut, color} {
				if err := tx.Create(&catalogdomain.StaffSkill{
					MerchantID: merchant.ID,
					StaffID:    st.ID,
					ServiceID:  svc.ID,
					CreatedAt:  now,
				}).Error; err != nil {
					return err
				}
			}
			// Tuesday through Sunday, 10:00-19:00 local. Monday off.
			for weekday := 0; weekday <= 6; weekday++ {
				if weekday == 1 {
					continue
				}
				if err := tx.Create(&catalogdomain.StaffWorkingHours{
					ID:          node.Generate(),
					MerchantID:  merchant.ID,
					StaffID:     st.ID,
					Weekday:     weekday,
					StartMinute: 10 * 60,
					EndMinute:   19 * 60,
					CreatedAt:   now,
					UpdatedAt:   now,
				}).Error; err != nil {
					return err
				}
			}
		}

		// New Year closure recurs annually.
		return tx.Create(&merchantdomain.MerchantHoliday{
			ID:         node.Generate(),
			MerchantID: merchant.ID,
			Month:      1,
			Day:        1,
			Name:       "New Year",
			CreatedAt:  now,
		}).Error
	})
}

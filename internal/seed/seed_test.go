package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureDemoSalonIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&merchantdomain.Merchant{},
		&merchantdomain.MerchantHoliday{},
		&subscriptiondomain.Subscription{},
		&catalogdomain.Service{},
		&catalogdomain.ServiceOption{},
		&catalogdomain.Staff{},
		&catalogdomain.StaffSkill{},
		&catalogdomain.StaffWorkingHours{},
	))

	require.NoError(t, EnsureDemoSalon(db))
	require.NoError(t, EnsureDemoSalon(db))

	var merchants []merchantdomain.Merchant
	require.NoError(t, db.Find(&merchants).Error)
	require.Len(t, merchants, 1)
	assert.Equal(t, "demo-salon", merchants[0].Slug)
	assert.True(t, merchants[0].IsActive())

	var serviceCount, staffCount, hoursCount int64
	require.NoError(t, db.Model(&catalogdomain.Service{}).Count(&serviceCount).Error)
	require.NoError(t, db.Model(&catalogdomain.Staff{}).Count(&staffCount).Error)
	require.NoError(t, db.Model(&catalogdomain.StaffWorkingHours{}).Count(&hoursCount).Error)
	assert.EqualValues(t, 2, serviceCount)
	assert.EqualValues(t, 2, staffCount)
	assert.EqualValues(t, 12, hoursCount)

	var sub subscriptiondomain.Subscription
	require.NoError(t, db.Where("merchant_id = ?", merchants[0].ID).First(&sub).Error)
	assert.True(t, sub.CanCreateBooking())
}

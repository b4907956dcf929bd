package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	"github.com/smallbiznis/reserva/internal/catalog/repository"
	"github.com/smallbiznis/reserva/internal/clock"
	"github.com/smallbiznis/reserva/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	testMerchant = snowflake.ID(9001)
	otherTenant  = snowflake.ID(9002)
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Service{},
		&catalogdomain.ServiceOption{},
		&catalogdomain.Staff{},
		&catalogdomain.StaffSkill{},
		&catalogdomain.StaffWorkingHours{},
		&catalogdomain.StaffHoliday{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc.(*Service), fake
}

func operatorFor(merchantID snowflake.ID) principal.Principal {
	return principal.Principal{UserID: "op-1", Role: principal.RoleOperator, MerchantID: merchantID}
}

func seedService(t *testing.T, svc *Service) *catalogdomain.Service {
	t.Helper()
	created, err := svc.CreateService(context.Background(), operatorFor(testMerchant), catalogdomain.CreateServiceRequest{
		MerchantID:  testMerchant,
		Name:        "Cut",
		Category:    "hair",
		PriceAmount: 4500,
		Currency:    "usd",
		DurationMin: 45,
	})
	require.NoError(t, err)
	return created
}

func seedStaff(t *testing.T, svc *Service) *catalogdomain.Staff {
	t.Helper()
	created, err := svc.CreateStaff(context.Background(), operatorFor(testMerchant), catalogdomain.CreateStaffRequest{
		MerchantID:  testMerchant,
		DisplayName: "Aki",
	})
	require.NoError(t, err)
	return created
}

func TestCreateService(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created := seedService(t, svc)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "USD", created.Currency)
	assert.True(t, created.Active)

	_, err := svc.CreateService(ctx, operatorFor(testMerchant), catalogdomain.CreateServiceRequest{
		MerchantID:  testMerchant,
		Name:        "Cut",
		PriceAmount: 100,
		Currency:    "USD",
		DurationMin: 30,
	})
	assert.ErrorIs(t, err, catalogdomain.ErrServiceNameTaken)

	_, err = svc.CreateService(ctx, operatorFor(testMerchant), catalogdomain.CreateServiceRequest{
		MerchantID:  testMerchant,
		Name:        "Color",
		PriceAmount: 100,
		Currency:    "USD",
		DurationMin: 0,
	})
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidDuration)

	// same name is fine under a different tenant
	_, err = svc.CreateService(ctx, operatorFor(otherTenant), catalogdomain.CreateServiceRequest{
		MerchantID:  otherTenant,
		Name:        "Cut",
		PriceAmount: 100,
		Currency:    "USD",
		DurationMin: 30,
	})
	assert.NoError(t, err)
}

func TestCatalogWriteAuthorization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	customer := principal.Principal{UserID: "line-u1", Role: principal.RoleCustomer, MerchantID: testMerchant}
	_, err := svc.CreateService(ctx, customer, catalogdomain.CreateServiceRequest{
		MerchantID:  testMerchant,
		Name:        "Cut",
		PriceAmount: 100,
		Currency:    "USD",
		DurationMin: 30,
	})
	assert.ErrorIs(t, err, principal.ErrPermissionDenied)

	crossTenant := operatorFor(otherTenant)
	_, err = svc.CreateStaff(ctx, crossTenant, catalogdomain.CreateStaffRequest{
		MerchantID:  testMerchant,
		DisplayName: "Aki",
	})
	assert.ErrorIs(t, err, principal.ErrPermissionDenied)
}

func TestBuildBookingItemSnapshotsCatalog(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	op := operatorFor(testMerchant)

	created := seedService(t, svc)
	treatment, err := svc.CreateOption(ctx, op, catalogdomain.CreateOptionRequest{
		MerchantID:  testMerchant,
		ServiceID:   created.ID,
		Name:        "Treatment",
		AddPrice:    1500,
		AddDuration: 15,
	})
	require.NoError(t, err)
	headSpa, err := svc.CreateOption(ctx, op, catalogdomain.CreateOptionRequest{
		MerchantID:  testMerchant,
		ServiceID:   created.ID,
		Name:        "Head spa",
		AddPrice:    2000,
		AddDuration: 20,
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateOption(ctx, op, testMerchant, headSpa.ID))

	item, err := svc.BuildBookingItem(ctx, testMerchant, created.ID, []snowflake.ID{
		treatment.ID,
		headSpa.ID,           // deactivated, dropped
		snowflake.ID(424242), // unknown, dropped
	})
	require.NoError(t, err)
	assert.Equal(t, "Cut", item.ServiceName)
	assert.Len(t, item.Options, 1)
	assert.Equal(t, treatment.ID, item.Options[0].OptionID)
	assert.Equal(t, int64(6000), item.TotalPrice().Amount)
	assert.Equal(t, 60, item.TotalDuration().Minutes())

	// later price edits must not leak into the snapshot
	newPrice := int64(9900)
	_, err = svc.UpdateService(ctx, op, catalogdomain.UpdateServiceRequest{
		MerchantID:  testMerchant,
		ServiceID:   created.ID,
		PriceAmount: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4500), item.ServicePriceAmount)
}

func TestBuildBookingItemInactiveService(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	op := operatorFor(testMerchant)

	created := seedService(t, svc)
	inactive := false
	_, err := svc.UpdateService(ctx, op, catalogdomain.UpdateServiceRequest{
		MerchantID: testMerchant,
		ServiceID:  created.ID,
		Active:     &inactive,
	})
	require.NoError(t, err)

	_, err = svc.BuildBookingItem(ctx, testMerchant, created.ID, nil)
	assert.ErrorIs(t, err, catalogdomain.ErrServiceInactive)

	// a foreign tenant's service id resolves to nothing
	_, err = svc.BuildBookingItem(ctx, otherTenant, created.ID, nil)
	assert.ErrorIs(t, err, catalogdomain.ErrServiceInactive)
}

func TestAssignSkillsAndCanStaffPerform(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	op := operatorFor(testMerchant)

	created := seedService(t, svc)
	staff := seedStaff(t, svc)

	ok, err := svc.CanStaffPerform(ctx, testMerchant, staff.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.AssignSkills(ctx, op, testMerchant, staff.ID, []snowflake.ID{created.ID}))
	ok, err = svc.CanStaffPerform(ctx, testMerchant, staff.ID, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := svc.ListSkills(ctx, op, testMerchant, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{created.ID}, ids)

	// replacement clears the previous set
	require.NoError(t, svc.AssignSkills(ctx, op, testMerchant, staff.ID, nil))
	ok, err = svc.CanStaffPerform(ctx, testMerchant, staff.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	err = svc.AssignSkills(ctx, op, testMerchant, staff.ID, []snowflake.ID{snowflake.ID(5555)})
	assert.ErrorIs(t, err, catalogdomain.ErrServiceInactive)
}

func TestCanStaffPerformInactiveStaff(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	op := operatorFor(testMerchant)

	created := seedService(t, svc)
	staff := seedStaff(t, svc)
	require.NoError(t, svc.AssignSkills(ctx, op, testMerchant, staff.ID, []snowflake.ID{created.ID}))

	inactive := false
	_, err := svc.UpdateStaff(ctx, op, catalogdomain.UpdateStaffRequest{
		MerchantID: testMerchant,
		StaffID:    staff.ID,
		Active:     &inactive,
	})
	require.NoError(t, err)

	// skills stay on record, but an inactive staff member performs nothing
	ok, err := svc.CanStaffPerform(ctx, testMerchant, staff.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanStaffPerform(ctx, testMerchant, snowflake.ID(9999), created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaffWorkingRange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	op := operatorFor(testMerchant)
	staff := seedStaff(t, svc)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Monday 10:00-19:00 merchant-local
	_, err = svc.UpsertWorkingHours(ctx, op, catalogdomain.UpsertWorkingHoursRequest{
		MerchantID:  testMerchant,
		StaffID:     staff.ID,
		Weekday:     1,
		StartMinute: 10 * 60,
		EndMinute:   19 * 60,
	})
	require.NoError(t, err)

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, tokyo)
	r, err := svc.StaffWorkingRange(ctx, testMerchant, staff.ID, monday, tokyo)
	require.NoError(t, err)
	require.NotNil(t, r)
	// 10:00 JST is 01:00 UTC
	assert.Equal(t, time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), r.End)

	tuesday := monday.AddDate(0, 0, 1)
	r, err = svc.StaffWorkingRange(ctx, testMerchant, staff.ID, tuesday, tokyo)
	require.NoError(t, err)
	assert.Nil(t, r)

	// upsert replaces rather than duplicating
	_, err = svc.UpsertWorkingHours(ctx, op, catalogdomain.UpsertWorkingHoursRequest{
		MerchantID:  testMerchant,
		StaffID:     staff.ID,
		Weekday:     1,
		StartMinute: 9 * 60,
		EndMinute:   18 * 60,
	})
	require.NoError(t, err)
	hours, err := svc.ListWorkingHours(ctx, op, testMerchant, staff.ID)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, 9*60, hours[0].StartMinute)

	_, err = svc.UpsertWorkingHours(ctx, op, catalogdomain.UpsertWorkingHoursRequest{
		MerchantID:  testMerchant,
		StaffID:     staff.ID,
		Weekday:     7,
		StartMinute: 0,
		EndMinute:   60,
	})
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidWeekday)
}

func TestStaffHolidays(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	op := operatorFor(testMerchant)
	staff := seedStaff(t, svc)

	annual, err := svc.AddStaffHoliday(ctx, op, catalogdomain.AddStaffHolidayRequest{
		MerchantID: testMerchant,
		StaffID:    staff.ID,
		Month:      1,
		Day:        1,
	})
	require.NoError(t, err)

	_, err = svc.AddStaffHoliday(ctx, op, catalogdomain.AddStaffHolidayRequest{
		MerchantID: testMerchant,
		StaffID:    staff.ID,
		Month:      6,
		Day:        15,
		Year:       2026,
	})
	require.NoError(t, err)

	off, err := svc.IsStaffHoliday(ctx, testMerchant, staff.ID, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, off)

	off, err = svc.IsStaffHoliday(ctx, testMerchant, staff.ID, time.Date(2027, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, off, "dated holiday must not recur")

	require.NoError(t, svc.RemoveStaffHoliday(ctx, op, testMerchant, annual.ID))
	off, err = svc.IsStaffHoliday(ctx, testMerchant, staff.ID, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, off)
}

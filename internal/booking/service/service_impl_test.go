package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	bookingrepo "github.com/smallbiznis/reserva/internal/booking/repository"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/reserva/internal/catalog/repository"
	catalogservice "github.com/smallbiznis/reserva/internal/catalog/service"
	"github.com/smallbiznis/reserva/internal/clock"
	"github.com/smallbiznis/reserva/internal/config"
	"github.com/smallbiznis/reserva/internal/events"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	merchantrepo "github.com/smallbiznis/reserva/internal/merchant/repository"
	merchantservice "github.com/smallbiznis/reserva/internal/merchant/service"
	"github.com/smallbiznis/reserva/internal/principal"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
	subscriptionrepo "github.com/smallbiznis/reserva/internal/subscription/repository"
	subscriptionservice "github.com/smallbiznis/reserva/internal/subscription/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Monday 2026-03-02 00:00 UTC; 09:00 in the fixture merchant's Asia/Tokyo.
var fixtureNow = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	clock    *clock.FakeClock
	bus      *events.Bus
	bookings bookingdomain.Service
	catalog  catalogdomain.CatalogService
	subs     subscriptiondomain.Repository

	merchant *merchantdomain.Merchant
	staff    *catalogdomain.Staff
	cut      *catalogdomain.Service
	spa      *catalogdomain.ServiceOption

	operator principal.Principal
	admin    principal.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

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
		&catalogdomain.StaffHoliday{},
		&bookingdomain.Booking{},
		&bookingdomain.BookingLock{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(fixtureNow)
	log := zap.NewNop()

	merchants := merchantservice.NewService(merchantservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: fake, Repo: merchantrepo.Provide(),
	})
	subscriptions := subscriptionservice.NewService(subscriptionservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: fake, Repo: subscriptionrepo.Provide(),
	})
	catalog := catalogservice.NewService(catalogservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: fake, Repo: catalogrepo.Provide(),
	})
	bus := events.NewBus(log)

	bookings := NewService(ServiceParam{
		DB:            db,
		Log:           log,
		GenID:         node,
		Clock:         fake,
		Config:        config.Config{BookingDeadlineSeconds: 5},
		Repo:          bookingrepo.ProvideBookingRepository(),
		Locks:         bookingrepo.ProvideLockRepository(),
		Catalog:       catalog,
		Merchants:     merchants,
		Subscriptions: subscriptions,
		Bus:           bus,
		Scheduling: config.NewStaticSchedulingConfigHolder(config.SchedulingConfig{
			DefaultStepMinutes: 30,
			HorizonDays:        90,
		}),
	})

	admin := principal.Principal{UserID: "root", Role: principal.RoleAdmin}
	merchant, err := merchants.Create(ctx, admin, merchantdomain.CreateMerchantRequest{
		DisplayName: "Shibuya Salon",
		Timezone:    "Asia/Tokyo",
	})
	require.NoError(t, err)
	operator := principal.Principal{UserID: "op-1", Role: principal.RoleOperator, MerchantID: merchant.ID}

	subsRepo := subscriptionrepo.Provide()
	require.NoError(t, subsRepo.Insert(ctx, db, &subscriptiondomain.Subscription{
		ID:                 node.Generate(),
		MerchantID:         merchant.ID,
		Status:             subscriptiondomain.SubscriptionStatusActive,
		CurrentPeriodStart: fixtureNow.AddDate(0, 0, -10),
		CurrentPeriodEnd:   fixtureNow.AddDate(0, 0, 20),
		CreatedAt:          fixtureNow,
		UpdatedAt:          fixtureNow,
	}))

	cut, err := catalog.CreateService(ctx, operator, catalogdomain.CreateServiceRequest{
		MerchantID:  merchant.ID,
		Name:        "Cut",
		PriceAmount: 4500,
		Currency:    "JPY",
		DurationMin: 45,
	})
	require.NoError(t, err)
	spa, err := catalog.CreateOption(ctx, operator, catalogdomain.CreateOptionRequest{
		MerchantID:  merchant.ID,
		ServiceID:   cut.ID,
		Name:        "Head spa",
		AddPrice:    1500,
		AddDuration: 15,
	})
	require.NoError(t, err)

	staff, err := catalog.CreateStaff(ctx, operator, catalogdomain.CreateStaffRequest{
		MerchantID:  merchant.ID,
		DisplayName: "Aki",
	})
	require.NoError(t, err)
	require.NoError(t, catalog.AssignSkills(ctx, operator, merchant.ID, staff.ID, []snowflake.ID{cut.ID}))

	// Monday and Tuesday, 10:00-19:00 merchant-local
	for _, weekday := range []int{1, 2} {
		_, err = catalog.UpsertWorkingHours(ctx, operator, catalogdomain.UpsertWorkingHoursRequest{
			MerchantID:  merchant.ID,
			StaffID:     staff.ID,
			Weekday:     weekday,
			StartMinute: 10 * 60,
			EndMinute:   19 * 60,
		})
		require.NoError(t, err)
	}

	return &fixture{
		db:       db,
		clock:    fake,
		bus:      bus,
		bookings: bookings,
		catalog:  catalog,
		subs:     subsRepo,
		merchant: merchant,
		staff:    staff,
		cut:      cut,
		spa:      spa,
		operator: operator,
		admin:    admin,
	}
}

// jst returns an instant on fixture Monday expressed in Asia/Tokyo wall time.
func jst(t *testing.T, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return time.Date(2026, 3, day, hour, min, 0, 0, loc)
}

func (f *fixture) createReq(start time.Time) bookingdomain.CreateBookingRequest {
	return bookingdomain.CreateBookingRequest{
		MerchantID: f.merchant.ID,
		StaffID:    f.staff.ID,
		StartAt:    start,
		Items:      []bookingdomain.ItemSpec{{ServiceID: f.cut.ID}},
		Customer:   bookingdomain.Customer{LineUserID: "line-u1", Name: "Mei"},
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var published []events.Event
	f.bus.Subscribe(events.TypeBookingConfirmed, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	req := f.createReq(jst(t, 2, 11, 0))
	req.Items[0].OptionIDs = []snowflake.ID{f.spa.ID}
	booking, err := f.bookings.Create(ctx, f.operator, req)
	require.NoError(t, err)

	assert.Equal(t, bookingdomain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, int64(6000), booking.TotalPriceAmount)
	assert.Equal(t, 60, booking.TotalDurationMin)
	assert.Equal(t, jst(t, 2, 12, 0).UTC(), booking.EndAt)
	assert.True(t, booking.LoadedTotalsMatch())

	var lock bookingdomain.BookingLock
	require.NoError(t, f.db.Where("booking_id = ?", booking.ID).First(&lock).Error)
	assert.Equal(t, booking.StartAt, lock.StartAt)
	assert.Equal(t, booking.EndAt, lock.EndAt)

	require.Len(t, published, 1)
	assert.Equal(t, booking.ID, published[0].BookingID)
	assert.Equal(t, "line-u1", published[0].CustomerLineUserID)
	require.NotNil(t, published[0].TotalPrice)
	assert.Equal(t, int64(6000), published[0].TotalPrice.Amount)
}

func TestCreateBookingOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	require.NoError(t, err)

	// one minute of overlap is a rejection
	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 44)))
	require.ErrorIs(t, err, bookingdomain.ErrBookingOverlap)
	var overlap *bookingdomain.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, first.ID, overlap.ConflictingBookingID)

	// adjacent ranges share only a boundary instant and both fit
	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 45)))
	assert.NoError(t, err)

	// failed attempt left no lock behind
	var count int64
	require.NoError(t, f.db.Model(&bookingdomain.BookingLock{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateBookingSkillMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	color, err := f.catalog.CreateService(ctx, f.operator, catalogdomain.CreateServiceRequest{
		MerchantID:  f.merchant.ID,
		Name:        "Color",
		PriceAmount: 8000,
		Currency:    "JPY",
		DurationMin: 90,
	})
	require.NoError(t, err)

	req := f.createReq(jst(t, 2, 11, 0))
	req.Items = []bookingdomain.ItemSpec{{ServiceID: color.ID}}
	_, err = f.bookings.Create(ctx, f.operator, req)
	assert.ErrorIs(t, err, catalogdomain.ErrStaffSkillMismatch)
}

func TestCreateBookingInactiveService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive := false
	_, err := f.catalog.UpdateService(ctx, f.operator, catalogdomain.UpdateServiceRequest{
		MerchantID: f.merchant.ID,
		ServiceID:  f.cut.ID,
		Active:     &inactive,
	})
	require.NoError(t, err)

	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	assert.ErrorIs(t, err, catalogdomain.ErrServiceInactive)
}

func TestCreateBookingInactiveStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive := false
	_, err := f.catalog.UpdateStaff(ctx, f.operator, catalogdomain.UpdateStaffRequest{
		MerchantID: f.merchant.ID,
		StaffID:    f.staff.ID,
		Active:     &inactive,
	})
	require.NoError(t, err)

	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	assert.ErrorIs(t, err, catalogdomain.ErrStaffInactive)
}

func TestCreateBookingPastStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 08:00 JST is before the fixture clock's 09:00
	_, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 8, 0)))
	assert.ErrorIs(t, err, bookingdomain.ErrInvalidTimeSlot)

	_, err = f.bookings.Create(ctx, f.operator, f.createReq(time.Time{}))
	assert.ErrorIs(t, err, bookingdomain.ErrInvalidTimeSlot)
}

func TestCreateBookingOutsideWorkingHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 18:30 + 45min spills past the 19:00 close
	_, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 18, 30)))
	assert.ErrorIs(t, err, bookingdomain.ErrOutsideWorkingHours)

	// Wednesday has no working hours at all
	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 4, 11, 0)))
	assert.ErrorIs(t, err, bookingdomain.ErrOutsideWorkingHours)
}

func TestCreateBookingOnHoliday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// merchant-wide closure on Tuesday March 3rd
	_, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 3, 11, 0)))
	require.NoError(t, err) // sanity: Tuesday works before the holiday exists

	merchants := merchantservice.NewService(merchantservice.ServiceParam{
		DB: f.db, Log: zap.NewNop(), GenID: mustNode(t), Clock: f.clock, Repo: merchantrepo.Provide(),
	})
	_, err = merchants.AddHoliday(ctx, f.operator, merchantdomain.AddHolidayRequest{
		MerchantID: f.merchant.ID,
		Month:      3,
		Day:        3,
		Year:       2026,
	})
	require.NoError(t, err)

	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 3, 14, 0)))
	assert.ErrorIs(t, err, bookingdomain.ErrOutsideWorkingHours)

	// personal staff holiday blocks Monday
	_, err = f.catalog.AddStaffHoliday(ctx, f.operator, catalogdomain.AddStaffHolidayRequest{
		MerchantID: f.merchant.ID,
		StaffID:    f.staff.ID,
		Month:      3,
		Day:        2,
		Year:       2026,
	})
	require.NoError(t, err)
	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	assert.ErrorIs(t, err, bookingdomain.ErrOutsideWorkingHours)
}

func TestCreateBookingSubscriptionGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.subs.FindByMerchantID(ctx, f.db, f.merchant.ID)
	require.NoError(t, err)
	sub.Status = subscriptiondomain.SubscriptionStatusPastDue
	require.NoError(t, f.subs.Update(ctx, f.db, sub))

	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	assert.ErrorIs(t, err, subscriptiondomain.ErrSubscriptionPastDue)

	sub.Status = subscriptiondomain.SubscriptionStatusCancelled
	require.NoError(t, f.subs.Update(ctx, f.db, sub))
	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	assert.ErrorIs(t, err, subscriptiondomain.ErrSubscriptionCancelled)
}

func TestCreateBookingMerchantInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	merchants := merchantservice.NewService(merchantservice.ServiceParam{
		DB: f.db, Log: zap.NewNop(), GenID: mustNode(t), Clock: f.clock, Repo: merchantrepo.Provide(),
	})
	_, err := merchants.UpdateStatus(ctx, f.admin, merchantdomain.UpdateMerchantStatusRequest{
		MerchantID: f.merchant.ID,
		Status:     merchantdomain.MerchantStatusSuspended,
	})
	require.NoError(t, err)

	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	assert.ErrorIs(t, err, merchantdomain.ErrMerchantInactive)
}

func TestCreateBookingTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	foreign := principal.Principal{UserID: "op-2", Role: principal.RoleOperator, MerchantID: snowflake.ID(777)}
	_, err := f.bookings.Create(ctx, foreign, f.createReq(jst(t, 2, 11, 0)))
	assert.ErrorIs(t, err, principal.ErrPermissionDenied)

	_, err = f.bookings.Get(ctx, foreign, f.merchant.ID, snowflake.ID(1))
	assert.ErrorIs(t, err, principal.ErrPermissionDenied)

	_, err = f.bookings.List(ctx, foreign, bookingdomain.ListBookingsRequest{MerchantID: f.merchant.ID})
	assert.ErrorIs(t, err, principal.ErrPermissionDenied)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var published []events.Event
	f.bus.Subscribe(events.TypeBookingCancelled, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	booking, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	require.NoError(t, err)

	cancelled, err := f.bookings.Cancel(ctx, f.operator, bookingdomain.CancelBookingRequest{
		MerchantID: f.merchant.ID,
		BookingID:  booking.ID,
		Actor:      "operator:op-1",
		Reason:     "customer asked",
	})
	require.NoError(t, err)
	assert.Equal(t, bookingdomain.BookingStatusCancelled, cancelled.Status)

	// lock removed: the slot is free again
	var count int64
	require.NoError(t, f.db.Model(&bookingdomain.BookingLock{}).Count(&count).Error)
	assert.Zero(t, count)
	_, err = f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	assert.NoError(t, err)

	require.Len(t, published, 1)
	assert.Equal(t, "customer asked", published[0].Reason)

	// cancel is not idempotent past the first terminal transition
	_, err = f.bookings.Cancel(ctx, f.operator, bookingdomain.CancelBookingRequest{
		MerchantID: f.merchant.ID,
		BookingID:  booking.ID,
		Actor:      "operator:op-1",
	})
	assert.ErrorIs(t, err, bookingdomain.ErrBookingAlreadyCancelled)
}

func TestCancelBookingPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	require.NoError(t, err)

	stranger := principal.Principal{UserID: "line-u9", Role: principal.RoleCustomer, MerchantID: f.merchant.ID}
	_, err = f.bookings.Cancel(ctx, stranger, bookingdomain.CancelBookingRequest{
		MerchantID: f.merchant.ID,
		BookingID:  booking.ID,
		Actor:      "customer:line-u9",
	})
	assert.ErrorIs(t, err, principal.ErrPermissionDenied)

	owner := principal.Principal{UserID: "line-u1", Role: principal.RoleCustomer, MerchantID: f.merchant.ID}
	_, err = f.bookings.Cancel(ctx, owner, bookingdomain.CancelBookingRequest{
		MerchantID: f.merchant.ID,
		BookingID:  booking.ID,
		Actor:      "customer:line-u1",
		Reason:     "changed plans",
	})
	assert.NoError(t, err)
}

func TestCancelBookingPastDueStillAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	require.NoError(t, err)

	sub, err := f.subs.FindByMerchantID(ctx, f.db, f.merchant.ID)
	require.NoError(t, err)
	sub.Status = subscriptiondomain.SubscriptionStatusPastDue
	require.NoError(t, f.subs.Update(ctx, f.db, sub))

	_, err = f.bookings.Cancel(ctx, f.operator, bookingdomain.CancelBookingRequest{
		MerchantID: f.merchant.ID,
		BookingID:  booking.ID,
		Actor:      "operator:op-1",
	})
	assert.NoError(t, err)
}

func TestGetBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	require.NoError(t, err)

	got, err := f.bookings.Get(ctx, f.operator, f.merchant.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)
	assert.True(t, got.LoadedTotalsMatch())

	_, err = f.bookings.Get(ctx, f.operator, f.merchant.ID, snowflake.ID(424242))
	assert.ErrorIs(t, err, bookingdomain.ErrBookingNotFound)
}

func TestListBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	starts := []time.Time{jst(t, 2, 11, 0), jst(t, 2, 13, 0), jst(t, 2, 15, 0)}
	for _, start := range starts {
		_, err := f.bookings.Create(ctx, f.operator, f.createReq(start))
		require.NoError(t, err)
	}

	page, err := f.bookings.List(ctx, f.operator, bookingdomain.ListBookingsRequest{
		MerchantID: f.merchant.ID,
		PageSize:   2,
	})
	require.NoError(t, err)
	require.Len(t, page.Bookings, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, jst(t, 2, 15, 0).UTC(), page.Bookings[0].StartAt)
	assert.Equal(t, jst(t, 2, 13, 0).UTC(), page.Bookings[1].StartAt)

	rest, err := f.bookings.List(ctx, f.operator, bookingdomain.ListBookingsRequest{
		MerchantID: f.merchant.ID,
		PageSize:   2,
		PageToken:  page.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, rest.Bookings, 1)
	assert.False(t, rest.HasMore)
	assert.Equal(t, jst(t, 2, 11, 0).UTC(), rest.Bookings[0].StartAt)

	// status filter
	cancelledTarget := rest.Bookings[0]
	_, err = f.bookings.Cancel(ctx, f.operator, bookingdomain.CancelBookingRequest{
		MerchantID: f.merchant.ID,
		BookingID:  cancelledTarget.ID,
		Actor:      "operator:op-1",
	})
	require.NoError(t, err)

	confirmed, err := f.bookings.List(ctx, f.operator, bookingdomain.ListBookingsRequest{
		MerchantID: f.merchant.ID,
		Status:     bookingdomain.BookingStatusConfirmed,
	})
	require.NoError(t, err)
	assert.Len(t, confirmed.Bookings, 2)

	_, err = f.bookings.List(ctx, f.operator, bookingdomain.ListBookingsRequest{
		MerchantID: f.merchant.ID,
		PageToken:  "not a token",
	})
	assert.ErrorIs(t, err, bookingdomain.ErrInvalidPageToken)
}

func TestAvailableSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.Create(ctx, f.operator, f.createReq(jst(t, 2, 11, 0)))
	require.NoError(t, err)

	slots, err := f.bookings.AvailableSlots(ctx, f.operator, bookingdomain.AvailabilityRequest{
		MerchantID:         f.merchant.ID,
		StaffID:            f.staff.ID,
		Date:               jst(t, 2, 0, 0),
		ServiceDurationMin: 45,
		StepMin:            30,
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	// 10:00..18:15 fits a 45-minute service on a 30-minute grid
	byStart := make(map[string]bookingdomain.Slot, len(slots))
	for _, slot := range slots {
		byStart[slot.StartLocal.Format("15:04")] = slot
	}

	assert.True(t, byStart["10:00"].Available)
	// 10:30 collides with the 11:00-11:45 booking? no: 10:30+45 = 11:15 -> overlap
	assert.False(t, byStart["10:30"].Available)
	assert.False(t, byStart["11:00"].Available)
	assert.False(t, byStart["11:30"].Available)
	// adjacency: 11:45 would be free, but it is off the 30-minute grid;
	// 12:00 starts clear of the lock
	assert.True(t, byStart["12:00"].Available)

	last := slots[len(slots)-1]
	assert.Equal(t, "18:00", last.StartLocal.Format("15:04"))

	// holiday empties the grid
	_, err = f.catalog.AddStaffHoliday(ctx, f.operator, catalogdomain.AddStaffHolidayRequest{
		MerchantID: f.merchant.ID,
		StaffID:    f.staff.ID,
		Month:      3,
		Day:        2,
		Year:       2026,
	})
	require.NoError(t, err)
	slots, err = f.bookings.AvailableSlots(ctx, f.operator, bookingdomain.AvailabilityRequest{
		MerchantID:         f.merchant.ID,
		StaffID:            f.staff.ID,
		Date:               jst(t, 2, 0, 0),
		ServiceDurationMin: 45,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)

	// no working hours on Wednesday
	slots, err = f.bookings.AvailableSlots(ctx, f.operator, bookingdomain.AvailabilityRequest{
		MerchantID:         f.merchant.ID,
		StaffID:            f.staff.ID,
		Date:               jst(t, 4, 0, 0),
		ServiceDurationMin: 45,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlotsPastCutoff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// move the clock to 11:10 JST; morning candidates are gone
	f.clock.Advance(2*time.Hour + 10*time.Minute)

	slots, err := f.bookings.AvailableSlots(ctx, f.operator, bookingdomain.AvailabilityRequest{
		MerchantID:         f.merchant.ID,
		StaffID:            f.staff.ID,
		Date:               jst(t, 2, 0, 0),
		ServiceDurationMin: 45,
	})
	require.NoError(t, err)

	byStart := make(map[string]bookingdomain.Slot, len(slots))
	for _, slot := range slots {
		byStart[slot.StartLocal.Format("15:04")] = slot
	}
	assert.False(t, byStart["10:00"].Available)
	assert.False(t, byStart["11:00"].Available)
	assert.True(t, byStart["11:30"].Available)
}

// A calendar date arrives from the HTTP layer as midnight UTC. For a
// merchant west of UTC that instant is still the previous local evening,
// so only the y/m/d components may drive the weekday and holiday lookups.
func TestAvailableSlotsWesternTimezone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	node := mustNode(t)
	merchants := merchantservice.NewService(merchantservice.ServiceParam{
		DB: f.db, Log: zap.NewNop(), GenID: node, Clock: f.clock, Repo: merchantrepo.Provide(),
	})
	ny, err := merchants.Create(ctx, f.admin, merchantdomain.CreateMerchantRequest{
		DisplayName: "Brooklyn Studio",
		Timezone:    "America/New_York",
	})
	require.NoError(t, err)
	op := principal.Principal{UserID: "op-ny", Role: principal.RoleOperator, MerchantID: ny.ID}

	require.NoError(t, f.subs.Insert(ctx, f.db, &subscriptiondomain.Subscription{
		ID:                 node.Generate(),
		MerchantID:         ny.ID,
		Status:             subscriptiondomain.SubscriptionStatusActive,
		CurrentPeriodStart: fixtureNow.AddDate(0, 0, -10),
		CurrentPeriodEnd:   fixtureNow.AddDate(0, 0, 20),
		CreatedAt:          fixtureNow,
		UpdatedAt:          fixtureNow,
	}))

	trim, err := f.catalog.CreateService(ctx, op, catalogdomain.CreateServiceRequest{
		MerchantID:  ny.ID,
		Name:        "Trim",
		PriceAmount: 3000,
		Currency:    "USD",
		DurationMin: 45,
	})
	require.NoError(t, err)
	stylist, err := f.catalog.CreateStaff(ctx, op, catalogdomain.CreateStaffRequest{
		MerchantID:  ny.ID,
		DisplayName: "Lena",
	})
	require.NoError(t, err)
	require.NoError(t, f.catalog.AssignSkills(ctx, op, ny.ID, stylist.ID, []snowflake.ID{trim.ID}))
	_, err = f.catalog.UpsertWorkingHours(ctx, op, catalogdomain.UpsertWorkingHoursRequest{
		MerchantID:  ny.ID,
		StaffID:     stylist.ID,
		Weekday:     1, // Monday
		StartMinute: 10 * 60,
		EndMinute:   18 * 60,
	})
	require.NoError(t, err)

	day, err := time.Parse("2006-01-02", "2026-03-09")
	require.NoError(t, err)

	slots, err := f.bookings.AvailableSlots(ctx, op, bookingdomain.AvailabilityRequest{
		MerchantID:         ny.ID,
		StaffID:            stylist.ID,
		Date:               day,
		ServiceDurationMin: 45,
		StepMin:            30,
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:00", slots[0].StartLocal.Format("15:04"))
	assert.True(t, slots[0].Available)

	// the grid and the create path agree on that Monday
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	booking, err := f.bookings.Create(ctx, op, bookingdomain.CreateBookingRequest{
		MerchantID: ny.ID,
		StaffID:    stylist.ID,
		StartAt:    time.Date(2026, 3, 9, 14, 0, 0, 0, loc),
		Items:      []bookingdomain.ItemSpec{{ServiceID: trim.ID}},
		Customer:   bookingdomain.Customer{LineUserID: "line-ny", Name: "Drew"},
	})
	require.NoError(t, err)
	assert.Equal(t, bookingdomain.BookingStatusConfirmed, booking.Status)
}

func TestCreateBookingBeyondHorizon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Monday 2026-06-08 is a working weekday but past the 90-day window
	farStart := time.Date(2026, 6, 8, 11, 0, 0, 0, loc)
	_, err = f.bookings.Create(ctx, f.operator, f.createReq(farStart))
	assert.ErrorIs(t, err, bookingdomain.ErrOutsideBookingHorizon)

	slots, err := f.bookings.AvailableSlots(ctx, f.operator, bookingdomain.AvailabilityRequest{
		MerchantID:         f.merchant.ID,
		StaffID:            f.staff.ID,
		Date:               time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		ServiceDurationMin: 45,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	return node
}

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	"github.com/smallbiznis/reserva/internal/principal"
	"github.com/smallbiznis/reserva/pkg/types"
)

type CreateServiceRequest struct {
	MerchantID  snowflake.ID
	Name        string
	Category    string
	PriceAmount int64
	Currency    string
	DurationMin int
}

type UpdateServiceRequest struct {
	MerchantID  snowflake.ID
	ServiceID   snowflake.ID
	Name        *string
	Category    *string
	PriceAmount *int64
	DurationMin *int
	Active      *bool
}

type CreateOptionRequest struct {
	MerchantID   snowflake.ID
	ServiceID    snowflake.ID
	Name         string
	AddPrice     int64
	AddDuration  int
	DisplayOrder int
}

type CreateStaffRequest struct {
	MerchantID  snowflake.ID
	DisplayName string
}

type UpdateStaffRequest struct {
	MerchantID  snowflake.ID
	StaffID     snowflake.ID
	DisplayName *string
	Active      *bool
}

type UpsertWorkingHoursRequest struct {
	MerchantID  snowflake.ID
	StaffID     snowflake.ID
	Weekday     int
	StartMinute int
	EndMinute   int
}

type AddStaffHolidayRequest struct {
	MerchantID snowflake.ID
	StaffID    snowflake.ID
	Month      int
	Day        int
	Year       int // zero makes the holiday recur annually
}

// View is the read surface the scheduler consumes. These calls stay
// inside the process and are reached only through already-authorized
// service operations.
type View interface {
	GetService(ctx context.Context, merchantID, serviceID snowflake.ID) (*Service, error)
	// BuildBookingItem snapshots the service and the selected options.
	// Options that are inactive or unknown are filtered silently; an
	// inactive or missing service fails with ErrServiceInactive.
	BuildBookingItem(ctx context.Context, merchantID, serviceID snowflake.ID, optionIDs []snowflake.ID) (*bookingdomain.BookingItem, error)
	CanStaffPerform(ctx context.Context, merchantID, staffID, serviceID snowflake.ID) (bool, error)
	// StaffWorkingRange resolves the staff's working window for the
	// local calendar date, expressed in UTC. It returns nil on
	// non-working days.
	StaffWorkingRange(ctx context.Context, merchantID, staffID snowflake.ID, localDate time.Time, loc *time.Location) (*types.TimeRange, error)
	IsStaffHoliday(ctx context.Context, merchantID, staffID snowflake.ID, localDate time.Time) (bool, error)
	GetStaff(ctx context.Context, merchantID, staffID snowflake.ID) (*Staff, error)
}

// CatalogService is the operator CRUD surface plus the scheduler view.
type CatalogService interface {
	View

	CreateService(ctx context.Context, p principal.Principal, req CreateServiceRequest) (*Service, error)
	UpdateService(ctx context.Context, p principal.Principal, req UpdateServiceRequest) (*Service, error)
	ListServices(ctx context.Context, p principal.Principal, merchantID snowflake.ID, activeOnly bool) ([]Service, error)

	CreateOption(ctx context.Context, p principal.Principal, req CreateOptionRequest) (*ServiceOption, error)
	DeactivateOption(ctx context.Context, p principal.Principal, merchantID, optionID snowflake.ID) error
	ListOptions(ctx context.Context, p principal.Principal, merchantID, serviceID snowflake.ID) ([]ServiceOption, error)

	CreateStaff(ctx context.Context, p principal.Principal, req CreateStaffRequest) (*Staff, error)
	UpdateStaff(ctx context.Context, p principal.Principal, req UpdateStaffRequest) (*Staff, error)
	ListStaff(ctx context.Context, p principal.Principal, merchantID snowflake.ID, activeOnly bool) ([]Staff, error)

	AssignSkills(ctx context.Context, p principal.Principal, merchantID, staffID snowflake.ID, serviceIDs []snowflake.ID) error
	ListSkills(ctx context.Context, p principal.Principal, merchantID, staffID snowflake.ID) ([]snowflake.ID, error)

	UpsertWorkingHours(ctx context.Context, p principal.Principal, req UpsertWorkingHoursRequest) (*StaffWorkingHours, error)
	ListWorkingHours(ctx context.Context, p principal.Principal, merchantID, staffID snowflake.ID) ([]StaffWorkingHours, error)

	AddStaffHoliday(ctx context.Context, p principal.Principal, req AddStaffHolidayRequest) (*StaffHoliday, error)
	RemoveStaffHoliday(ctx context.Context, p principal.Principal, merchantID, holidayID snowflake.ID) error
	ListStaffHolidays(ctx context.Context, p principal.Principal, merchantID, staffID snowflake.ID) ([]StaffHoliday, error)
}

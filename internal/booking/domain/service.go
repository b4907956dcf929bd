package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/internal/principal"
	"github.com/smallbiznis/reserva/pkg/db/pagination"
)

// ItemSpec selects one service plus option ids for a booking request.
type ItemSpec struct {
	ServiceID snowflake.ID
	OptionIDs []snowflake.ID
}

type CreateBookingRequest struct {
	MerchantID snowflake.ID
	StaffID    snowflake.ID
	StartAt    time.Time
	Items      []ItemSpec
	Customer   Customer
	Notes      string
}

type CancelBookingRequest struct {
	MerchantID snowflake.ID
	BookingID  snowflake.ID
	Actor      string
	Reason     string
}

type ListBookingsRequest struct {
	MerchantID snowflake.ID
	From       *time.Time
	To         *time.Time
	Status     BookingStatus
	PageToken  string
	PageSize   int
}

type ListBookingsResponse struct {
	Bookings []Booking
	pagination.PageInfo
}

// Slot is one availability candidate. Unavailable candidates are included
// so a picker can render them struck through.
type Slot struct {
	StartLocal time.Time `json:"start"`
	EndLocal   time.Time `json:"end"`
	Available  bool      `json:"available"`
}

type AvailabilityRequest struct {
	MerchantID         snowflake.ID
	StaffID            snowflake.ID
	Date               time.Time // calendar date; only y/m/d are read, in the merchant's timezone
	ServiceDurationMin int
	StepMin            int // zero selects the configured default
}

type Service interface {
	Create(ctx context.Context, p principal.Principal, req CreateBookingRequest) (*Booking, error)
	Cancel(ctx context.Context, p principal.Principal, req CancelBookingRequest) (*Booking, error)
	Get(ctx context.Context, p principal.Principal, merchantID, bookingID snowflake.ID) (*Booking, error)
	List(ctx context.Context, p principal.Principal, req ListBookingsRequest) (*ListBookingsResponse, error)
	AvailableSlots(ctx context.Context, p principal.Principal, req AvailabilityRequest) ([]Slot, error)
}

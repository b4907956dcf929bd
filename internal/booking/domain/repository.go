package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/pkg/types"
	"gorm.io/gorm"
)

// ListFilter narrows a booking listing. AfterStartAt and AfterID form the
// keyset cursor over the (start_at, id) ordering.
type ListFilter struct {
	From         *time.Time
	To           *time.Time
	Status       BookingStatus
	Limit        int
	AfterStartAt time.Time
	AfterID      snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	Update(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, merchantID, id snowflake.ID) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, merchantID snowflake.ID, filter ListFilter) ([]Booking, error)
}

// LockRepository is the slot-lock store. Insert is the race-safe decision
// point: on Postgres the exclusion constraint rejects overlapping rows,
// and the in-transaction locked pre-scan makes the same guarantee hold on
// stores without range exclusion.
type LockRepository interface {
	Insert(ctx context.Context, db *gorm.DB, lock *BookingLock) error
	LinkToBooking(ctx context.Context, db *gorm.DB, lockID, bookingID snowflake.ID) error
	Delete(ctx context.Context, db *gorm.DB, lockID snowflake.ID) error
	DeleteByBookingID(ctx context.Context, db *gorm.DB, merchantID, bookingID snowflake.ID) error
	FindOverlapping(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, r types.TimeRange) ([]BookingLock, error)
}

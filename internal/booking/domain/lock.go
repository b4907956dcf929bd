package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/pkg/types"
)

// BookingLock is the persistent claim on a (merchant, staff, time range)
// slot. The booking_locks table carries a Postgres exclusion constraint
// over (merchant_id, staff_id, tstzrange(start_at, end_at, '[)')); that
// constraint, not any application check, is the authority on overlap.
// BookingID is null only between insert and link during creation.
type BookingLock struct {
	ID         snowflake.ID  `gorm:"primaryKey"`
	MerchantID snowflake.ID  `gorm:"not null;index:idx_booking_locks_staff,priority:1"`
	StaffID    snowflake.ID  `gorm:"not null;index:idx_booking_locks_staff,priority:2"`
	StartAt    time.Time     `gorm:"not null"`
	EndAt      time.Time     `gorm:"not null"`
	BookingID  *snowflake.ID `gorm:"index"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BookingLock) TableName() string { return "booking_locks" }

// Range returns the locked time range.
func (l BookingLock) Range() types.TimeRange {
	return types.TimeRange{Start: l.StartAt, End: l.EndAt}
}

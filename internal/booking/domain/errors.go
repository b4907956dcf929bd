package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/pkg/types"
)

var (
	ErrBookingNotFound         = errors.New("booking_not_found")
	ErrBookingOverlap          = errors.New("booking_overlap")
	ErrBookingAlreadyCancelled = errors.New("booking_already_cancelled")
	ErrBookingAlreadyCompleted = errors.New("booking_already_completed")
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
	ErrInvalidTimeSlot         = errors.New("invalid_time_slot")
	ErrOutsideWorkingHours     = errors.New("outside_working_hours")
	ErrOutsideBookingHorizon   = errors.New("outside_booking_horizon")
	ErrNoItems                 = errors.New("no_items")
	ErrMissingContact          = errors.New("missing_contact")
	ErrInvalidPageToken        = errors.New("invalid_page_token")
	ErrTimeout                 = errors.New("timeout")
)

// OverlapError is the typed "slot taken" rejection. It unwraps to
// ErrBookingOverlap and carries the staff, the requested range, and the
// conflicting booking when it could be discovered.
type OverlapError struct {
	StaffID              snowflake.ID
	Range                types.TimeRange
	ConflictingBookingID snowflake.ID
}

func (e *OverlapError) Error() string {
	if e.ConflictingBookingID != 0 {
		return fmt.Sprintf("booking_overlap: staff %d range %s conflicts with booking %d",
			e.StaffID, e.Range, e.ConflictingBookingID)
	}
	return fmt.Sprintf("booking_overlap: staff %d range %s", e.StaffID, e.Range)
}

func (e *OverlapError) Unwrap() error { return ErrBookingOverlap }

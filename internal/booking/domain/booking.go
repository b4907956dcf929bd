// Package domain contains the booking aggregate, its item snapshots, the
// slot lock, and their invariants.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/pkg/types"
)

// BookingStatus represents lifecycle states for a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Customer identifies who the booking is for. At least one contact
// identifier must be present.
type Customer struct {
	LineUserID string `gorm:"column:customer_line_user_id;type:text" json:"line_user_id,omitempty"`
	Name       string `gorm:"column:customer_name;type:text" json:"name,omitempty"`
	Phone      string `gorm:"column:customer_phone;type:text" json:"phone,omitempty"`
	Email      string `gorm:"column:customer_email;type:text" json:"email,omitempty"`
}

// HasIdentifier reports whether any contact identifier is set.
func (c Customer) HasIdentifier() bool {
	return strings.TrimSpace(c.LineUserID) != "" ||
		strings.TrimSpace(c.Name) != "" ||
		strings.TrimSpace(c.Phone) != "" ||
		strings.TrimSpace(c.Email) != ""
}

// Booking is the aggregate root of a reservation. It exclusively owns its
// items and its lock row. Totals and end time are derived from the items
// and persisted; LoadedTotalsMatch verifies the derivation identity.
type Booking struct {
	ID         snowflake.ID  `gorm:"primaryKey"`
	MerchantID snowflake.ID  `gorm:"not null;index"`
	StaffID    snowflake.ID  `gorm:"not null;index"`
	Customer   Customer      `gorm:"embedded"`
	StartAt    time.Time     `gorm:"not null;index"`
	EndAt      time.Time     `gorm:"not null"`
	Items      []BookingItem `gorm:"type:jsonb;serializer:json;not null"`
	Status     BookingStatus `gorm:"type:text;not null;index"`
	Notes      string        `gorm:"type:text"`

	TotalDurationMin int    `gorm:"not null"`
	TotalPriceAmount int64  `gorm:"not null"`
	Currency         string `gorm:"type:text;not null"`

	CancelledBy  string     `gorm:"type:text"`
	CancelReason string     `gorm:"type:text"`
	CancelledAt  *time.Time `gorm:""`
	CompletedAt  *time.Time `gorm:""`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }

// NewBooking validates the invariants and constructs a confirmed booking.
// All times are normalized to UTC; startAt must carry a real instant.
func NewBooking(id, merchantID, staffID snowflake.ID, customer Customer, startAt time.Time, items []BookingItem, notes string, now time.Time) (*Booking, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if startAt.IsZero() {
		return nil, ErrInvalidTimeSlot
	}
	if !customer.HasIdentifier() {
		return nil, ErrMissingContact
	}

	totalPrice := items[0].TotalPrice()
	totalDuration := items[0].TotalDuration()
	for _, item := range items[1:] {
		sum, err := totalPrice.Add(item.TotalPrice())
		if err != nil {
			return nil, err
		}
		totalPrice = sum
		totalDuration = totalDuration.Add(item.TotalDuration())
	}
	if totalDuration <= 0 {
		return nil, ErrInvalidTimeSlot
	}

	start := startAt.UTC()
	booking := &Booking{
		ID:               id,
		MerchantID:       merchantID,
		StaffID:          staffID,
		Customer:         customer,
		StartAt:          start,
		EndAt:            start.Add(totalDuration.Std()),
		Items:            items,
		Status:           BookingStatusConfirmed,
		Notes:            strings.TrimSpace(notes),
		TotalDurationMin: totalDuration.Minutes(),
		TotalPriceAmount: totalPrice.Amount,
		Currency:         totalPrice.Currency,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return booking, nil
}

// Range returns the booked time range.
func (b *Booking) Range() types.TimeRange {
	return types.TimeRange{Start: b.StartAt, End: b.EndAt}
}

// TotalPrice returns the persisted total.
func (b *Booking) TotalPrice() types.Money {
	return types.Money{Amount: b.TotalPriceAmount, Currency: b.Currency}
}

// Confirm moves a deferred booking to confirmed.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != BookingStatusPending {
		return b.terminalOr(ErrInvalidStatusTransition)
	}
	b.Status = BookingStatusConfirmed
	b.UpdatedAt = now
	return nil
}

// Cancel cancels a pending or confirmed booking.
func (b *Booking) Cancel(actor, reason string, now time.Time) error {
	switch b.Status {
	case BookingStatusPending, BookingStatusConfirmed:
	case BookingStatusCancelled:
		return ErrBookingAlreadyCancelled
	case BookingStatusCompleted:
		return ErrBookingAlreadyCompleted
	default:
		return ErrInvalidStatusTransition
	}
	b.Status = BookingStatusCancelled
	b.CancelledBy = strings.TrimSpace(actor)
	b.CancelReason = strings.TrimSpace(reason)
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// Complete marks a confirmed booking as done.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != BookingStatusConfirmed {
		return b.terminalOr(ErrInvalidStatusTransition)
	}
	b.Status = BookingStatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	return nil
}

// LoadedTotalsMatch recomputes the derived fields from the items and
// compares them against the persisted values.
func (b *Booking) LoadedTotalsMatch() bool {
	if len(b.Items) == 0 {
		return false
	}
	duration := 0
	price := int64(0)
	for _, item := range b.Items {
		duration += item.TotalDuration().Minutes()
		price += item.TotalPrice().Amount
	}
	return duration == b.TotalDurationMin &&
		price == b.TotalPriceAmount &&
		b.EndAt.Equal(b.StartAt.Add(types.Duration(duration).Std()))
}

func (b *Booking) terminalOr(err error) error {
	switch b.Status {
	case BookingStatusCancelled:
		return ErrBookingAlreadyCancelled
	case BookingStatusCompleted:
		return ErrBookingAlreadyCompleted
	default:
		return err
	}
}

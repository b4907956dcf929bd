// Package domain contains the merchant (tenant) models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MerchantStatus represents lifecycle states for a merchant.
type MerchantStatus string

const (
	MerchantStatusActive    MerchantStatus = "active"
	MerchantStatusSuspended MerchantStatus = "suspended"
	MerchantStatusCancelled MerchantStatus = "cancelled"
)

// Merchant is a tenant: an isolated store of services, staff, bookings and
// holidays. Only active merchants accept new bookings.
type Merchant struct {
	ID          snowflake.ID   `gorm:"primaryKey"`
	Slug        string         `gorm:"type:text;not null;uniqueIndex"`
	DisplayName string         `gorm:"type:text;not null"`
	Timezone    string         `gorm:"type:text;not null"`
	Status      MerchantStatus `gorm:"type:text;not null"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Merchant) TableName() string { return "merchants" }

// IsActive reports whether the merchant accepts new bookings.
func (m Merchant) IsActive() bool { return m.Status == MerchantStatusActive }

// Location resolves the merchant's IANA timezone.
func (m Merchant) Location() (*time.Location, error) {
	return time.LoadLocation(m.Timezone)
}

// MerchantHoliday is a merchant-wide closed date, either a single calendar
// date or an annual recurrence by month and day.
type MerchantHoliday struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	MerchantID snowflake.ID `gorm:"not null;index"`
	Month      int          `gorm:"not null"`
	Day        int          `gorm:"not null"`
	Year       int          `gorm:"not null"` // zero for annual recurrence
	Name       string       `gorm:"type:text"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (MerchantHoliday) TableName() string { return "merchant_holidays" }

// Matches reports whether the holiday falls on the given local date.
func (h MerchantHoliday) Matches(date time.Time) bool {
	if int(date.Month()) != h.Month || date.Day() != h.Day {
		return false
	}
	return h.Year == 0 || h.Year == date.Year()
}

// Package domain contains the merchant subscription model that gates
// booking admission.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is the single active billing agreement of a merchant. A
// past-due subscription blocks new bookings but never blocks
// cancellations.
type Subscription struct {
	ID                 snowflake.ID       `gorm:"primaryKey"`
	MerchantID         snowflake.ID       `gorm:"not null;index"`
	Status             SubscriptionStatus `gorm:"type:text;not null"`
	CurrentPeriodStart time.Time          `gorm:"not null"`
	CurrentPeriodEnd   time.Time          `gorm:"not null"`
	CreatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// CanCreateBooking reports whether the merchant may accept new bookings.
func (s Subscription) CanCreateBooking() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}

// Package domain contains the catalog models the scheduler consumes:
// services with add-on options, staff with skills, working hours and
// staff holidays.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service is a bookable offering. Prices are minor units in the
// merchant's currency; duration must be positive.
type Service struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	MerchantID  snowflake.ID `gorm:"not null;uniqueIndex:ux_services_merchant_name,priority:1"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_services_merchant_name,priority:2"`
	Category    string       `gorm:"type:text"`
	PriceAmount int64        `gorm:"not null"`
	Currency    string       `gorm:"type:text;not null"`
	DurationMin int          `gorm:"not null"`
	Active      bool         `gorm:"not null;default:true"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Service) TableName() string { return "services" }

// ServiceOption is an add-on to a service (extra price and duration).
type ServiceOption struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	MerchantID   snowflake.ID `gorm:"not null;index"`
	ServiceID    snowflake.ID `gorm:"not null;index"`
	Name         string       `gorm:"type:text;not null"`
	AddPrice     int64        `gorm:"not null"`
	AddDuration  int          `gorm:"not null"`
	Active       bool         `gorm:"not null;default:true"`
	DisplayOrder int          `gorm:"not null;default:0"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ServiceOption) TableName() string { return "service_options" }

// Staff is a bookable person. Skills reference service ids of the same
// merchant; cross-merchant references are never created.
type Staff struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	MerchantID  snowflake.ID `gorm:"not null;index"`
	DisplayName string       `gorm:"type:text;not null"`
	Active      bool         `gorm:"not null;default:true"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Staff) TableName() string { return "staff" }

// StaffSkill links a staff member to a service they can perform.
type StaffSkill struct {
	MerchantID snowflake.ID `gorm:"not null;index"`
	StaffID    snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	ServiceID  snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (StaffSkill) TableName() string { return "staff_skills" }

// StaffWorkingHours is one weekday's working window in merchant-local
// minutes from midnight. At most one row per (staff, weekday).
type StaffWorkingHours struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	MerchantID  snowflake.ID `gorm:"not null;index"`
	StaffID     snowflake.ID `gorm:"not null;uniqueIndex:ux_working_hours_staff_weekday,priority:1"`
	Weekday     int          `gorm:"not null;uniqueIndex:ux_working_hours_staff_weekday,priority:2"` // 0=Sunday .. 6=Saturday
	StartMinute int          `gorm:"not null"`
	EndMinute   int          `gorm:"not null"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (StaffWorkingHours) TableName() string { return "staff_working_hours" }

// StaffHoliday is a personal day off, optionally recurring annually.
type StaffHoliday struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	MerchantID snowflake.ID `gorm:"not null;index"`
	StaffID    snowflake.ID `gorm:"not null;index"`
	Month      int          `gorm:"not null"`
	Day        int          `gorm:"not null"`
	Year       int          `gorm:"not null"` // zero for annual recurrence
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (StaffHoliday) TableName() string { return "staff_holidays" }

// Matches reports whether the holiday falls on the given local date.
func (h StaffHoliday) Matches(date time.Time) bool {
	if int(date.Month()) != h.Month || date.Day() != h.Day {
		return false
	}
	return h.Year == 0 || h.Year == date.Year()
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertService(ctx context.Context, db *gorm.DB, service *Service) error
	UpdateService(ctx context.Context, db *gorm.DB, service *Service) error
	FindServiceByID(ctx context.Context, db *gorm.DB, merchantID, serviceID snowflake.ID) (*Service, error)
	ListServices(ctx context.Context, db *gorm.DB, merchantID snowflake.ID, activeOnly bool) ([]Service, error)

	InsertOption(ctx context.Context, db *gorm.DB, option *ServiceOption) error
	UpdateOption(ctx context.Context, db *gorm.DB, option *ServiceOption) error
	FindOptionByID(ctx context.Context, db *gorm.DB, merchantID, optionID snowflake.ID) (*ServiceOption, error)
	ListOptions(ctx context.Context, db *gorm.DB, merchantID, serviceID snowflake.ID) ([]ServiceOption, error)

	InsertStaff(ctx context.Context, db *gorm.DB, staff *Staff) error
	UpdateStaff(ctx context.Context, db *gorm.DB, staff *Staff) error
	FindStaffByID(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID) (*Staff, error)
	ListStaff(ctx context.Context, db *gorm.DB, merchantID snowflake.ID, activeOnly bool) ([]Staff, error)

	ReplaceSkills(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, serviceIDs []snowflake.ID) error
	ListSkills(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID) ([]StaffSkill, error)

	UpsertWorkingHours(ctx context.Context, db *gorm.DB, hours *StaffWorkingHours) error
	DeleteWorkingHours(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, weekday int) error
	FindWorkingHours(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, weekday int) (*StaffWorkingHours, error)
	ListWorkingHours(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID) ([]StaffWorkingHours, error)

	InsertStaffHoliday(ctx context.Context, db *gorm.DB, holiday *StaffHoliday) error
	DeleteStaffHoliday(ctx context.Context, db *gorm.DB, merchantID, holidayID snowflake.ID) error
	ListStaffHolidays(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID) ([]StaffHoliday, error)
}

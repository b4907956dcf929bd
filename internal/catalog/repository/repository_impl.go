package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) InsertService(ctx context.Context, db *gorm.DB, service *catalogdomain.Service) error {
	return db.WithContext(ctx).Create(service).Error
}

func (r *repo) UpdateService(ctx context.Context, db *gorm.DB, service *catalogdomain.Service) error {
	return db.WithContext(ctx).Save(service).Error
}

func (r *repo) FindServiceByID(ctx context.Context, db *gorm.DB, merchantID, serviceID snowflake.ID) (*catalogdomain.Service, error) {
	var service catalogdomain.Service
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND id = ?", merchantID, serviceID).
		First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *repo) ListServices(ctx context.Context, db *gorm.DB, merchantID snowflake.ID, activeOnly bool) ([]catalogdomain.Service, error) {
	stmt := db.WithContext(ctx).Where("merchant_id = ?", merchantID)
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	var services []catalogdomain.Service
	err := stmt.Order("name").Find(&services).Error
	return services, err
}

func (r *repo) InsertOption(ctx context.Context, db *gorm.DB, option *catalogdomain.ServiceOption) error {
	return db.WithContext(ctx).Create(option).Error
}

func (r *repo) UpdateOption(ctx context.Context, db *gorm.DB, option *catalogdomain.ServiceOption) error {
	return db.WithContext(ctx).Save(option).Error
}

func (r *repo) FindOptionByID(ctx context.Context, db *gorm.DB, merchantID, optionID snowflake.ID) (*catalogdomain.ServiceOption, error) {
	var option catalogdomain.ServiceOption
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND id = ?", merchantID, optionID).
		First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

func (r *repo) ListOptions(ctx context.Context, db *gorm.DB, merchantID, serviceID snowflake.ID) ([]catalogdomain.ServiceOption, error) {
	var options []catalogdomain.ServiceOption
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND service_id = ?", merchantID, serviceID).
		Order("display_order, id").
		Find(&options).Error
	return options, err
}

func (r *repo) InsertStaff(ctx context.Context, db *gorm.DB, staff *catalogdomain.Staff) error {
	return db.WithContext(ctx).Create(staff).Error
}

func (r *repo) UpdateStaff(ctx context.Context, db *gorm.DB, staff *catalogdomain.Staff) error {
	return db.WithContext(ctx).Save(staff).Error
}

func (r *repo) FindStaffByID(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID) (*catalogdomain.Staff, error) {
	var staff catalogdomain.Staff
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND id = ?", merchantID, staffID).
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *repo) ListStaff(ctx context.Context, db *gorm.DB, merchantID snowflake.ID, activeOnly bool) ([]catalogdomain.Staff, error) {
	stmt := db.WithContext(ctx).Where("merchant_id = ?", merchantID)
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	var staff []catalogdomain.Staff
	err := stmt.Order("display_name").Find(&staff).Error
	return staff, err
}

func (r *repo) ReplaceSkills(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, serviceIDs []snowflake.ID) error {
	if err := db.WithContext(ctx).
		Where("merchant_id = ? AND staff_id = ?", merchantID, staffID).
		Delete(&catalogdomain.StaffSkill{}).Error; err != nil {
		return err
	}
	if len(serviceIDs) == 0 {
		return nil
	}
	skills := make([]catalogdomain.StaffSkill, 0, len(serviceIDs))
	for _, serviceID := range serviceIDs {
		skills = append(skills, catalogdomain.StaffSkill{
			MerchantID: merchantID,
			StaffID:    staffID,
			ServiceID:  serviceID,
		})
	}
	return db.WithContext(ctx).Create(&skills).Error
}

func (r *repo) ListSkills(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID) ([]catalogdomain.StaffSkill, error) {
	var skills []catalogdomain.StaffSkill
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND staff_id = ?", merchantID, staffID).
		Find(&skills).Error
	return skills, err
}

func (r *repo) UpsertWorkingHours(ctx context.Context, db *gorm.DB, hours *catalogdomain.StaffWorkingHours) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "staff_id"}, {Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_minute", "end_minute", "updated_at",
		}),
	}).Create(hours).Error
}

func (r *repo) DeleteWorkingHours(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, weekday int) error {
	return db.WithContext(ctx).
		Where("merchant_id = ? AND staff_id = ? AND weekday = ?", merchantID, staffID, weekday).
		Delete(&catalogdomain.StaffWorkingHours{}).Error
}

func (r *repo) FindWorkingHours(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, weekday int) (*catalogdomain.StaffWorkingHours, error) {
	var hours catalogdomain.StaffWorkingHours
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND staff_id = ? AND weekday = ?", merchantID, staffID, weekday).
		First(&hours).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hours, nil
}

func (r *repo) ListWorkingHours(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID) ([]catalogdomain.StaffWorkingHours, error) {
	var hours []catalogdomain.StaffWorkingHours
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND staff_id = ?", merchantID, staffID).
		Order("weekday").
		Find(&hours).Error
	return hours, err
}

func (r *repo) InsertStaffHoliday(ctx context.Context, db *gorm.DB, holiday *catalogdomain.StaffHoliday) error {
	return db.WithContext(ctx).Create(holiday).Error
}

func (r *repo) DeleteStaffHoliday(ctx context.Context, db *gorm.DB, merchantID, holidayID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("merchant_id = ? AND id = ?", merchantID, holidayID).
		Delete(&catalogdomain.StaffHoliday{}).Error
}

func (r *repo) ListStaffHolidays(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID) ([]catalogdomain.StaffHoliday, error) {
	var holidays []catalogdomain.StaffHoliday
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND staff_id = ?", merchantID, staffID).
		Order("month, day").
		Find(&holidays).Error
	return holidays, err
}

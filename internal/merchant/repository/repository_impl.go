package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() merchantdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, merchant *merchantdomain.Merchant) error {
	return db.WithContext(ctx).Create(merchant).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, merchant *merchantdomain.Merchant) error {
	return db.WithContext(ctx).Save(merchant).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*merchantdomain.Merchant, error) {
	var merchant merchantdomain.Merchant
	err := db.WithContext(ctx).Where("id = ?", id).First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*merchantdomain.Merchant, error) {
	var merchant merchantdomain.Merchant
	err := db.WithContext(ctx).Where("slug = ?", slug).First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

func (r *repo) InsertHoliday(ctx context.Context, db *gorm.DB, holiday *merchantdomain.MerchantHoliday) error {
	return db.WithContext(ctx).Create(holiday).Error
}

func (r *repo) DeleteHoliday(ctx context.Context, db *gorm.DB, merchantID, holidayID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("merchant_id = ? AND id = ?", merchantID, holidayID).
		Delete(&merchantdomain.MerchantHoliday{}).Error
}

func (r *repo) ListHolidays(ctx context.Context, db *gorm.DB, merchantID snowflake.ID) ([]merchantdomain.MerchantHoliday, error) {
	var holidays []merchantdomain.MerchantHoliday
	err := db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("month, day").
		Find(&holidays).Error
	return holidays, err
}

package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	"gorm.io/gorm"
)

type bookingRepo struct{}

func ProvideBookingRepository() bookingdomain.Repository {
	return &bookingRepo{}
}

func (r *bookingRepo) Insert(ctx context.Context, db *gorm.DB, booking *bookingdomain.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepo) Update(ctx context.Context, db *gorm.DB, booking *bookingdomain.Booking) error {
	return db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepo) FindByID(ctx context.Context, db *gorm.DB, merchantID, id snowflake.ID) (*bookingdomain.Booking, error) {
	var booking bookingdomain.Booking
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND id = ?", merchantID, id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) List(ctx context.Context, db *gorm.DB, merchantID snowflake.ID, filter bookingdomain.ListFilter) ([]bookingdomain.Booking, error) {
	stmt := db.WithContext(ctx).Where("merchant_id = ?", merchantID)
	if filter.From != nil {
		stmt = stmt.Where("start_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		stmt = stmt.Where("start_at < ?", filter.To.UTC())
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.AfterID != 0 {
		stmt = stmt.Where(
			"(start_at < ?) OR (start_at = ? AND id < ?)",
			filter.AfterStartAt.UTC(), filter.AfterStartAt.UTC(), filter.AfterID,
		)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	// newest first
	var bookings []bookingdomain.Booking
	err := stmt.Order("start_at DESC, id DESC").Find(&bookings).Error
	return bookings, err
}

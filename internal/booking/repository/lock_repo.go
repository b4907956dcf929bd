package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	pkgdb "github.com/smallbiznis/reserva/pkg/db"
	"github.com/smallbiznis/reserva/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type lockRepo struct{}

func ProvideLockRepository() bookingdomain.LockRepository {
	return &lockRepo{}
}

// Insert claims the slot. It must run inside the caller's transaction:
// the locked pre-scan serializes same-slot writers on stores without
// range exclusion, and on Postgres the booking_locks exclusion constraint
// is the final authority when two writers race past the scan.
func (r *lockRepo) Insert(ctx context.Context, db *gorm.DB, lock *bookingdomain.BookingLock) error {
	conflicts, err := r.findOverlapping(ctx, db, lock.MerchantID, lock.StaffID, lock.Range(), true)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return overlapError(lock.StaffID, lock.Range(), conflicts)
	}

	if err := db.WithContext(ctx).Create(lock).Error; err != nil {
		if pkgdb.IsExclusionViolation(err) {
			return overlapError(lock.StaffID, lock.Range(), nil)
		}
		return err
	}
	return nil
}

func (r *lockRepo) LinkToBooking(ctx context.Context, db *gorm.DB, lockID, bookingID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&bookingdomain.BookingLock{}).
		Where("id = ?", lockID).
		Update("booking_id", bookingID).Error
}

func (r *lockRepo) Delete(ctx context.Context, db *gorm.DB, lockID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", lockID).
		Delete(&bookingdomain.BookingLock{}).Error
}

func (r *lockRepo) DeleteByBookingID(ctx context.Context, db *gorm.DB, merchantID, bookingID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("merchant_id = ? AND booking_id = ?", merchantID, bookingID).
		Delete(&bookingdomain.BookingLock{}).Error
}

func (r *lockRepo) FindOverlapping(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, rng types.TimeRange) ([]bookingdomain.BookingLock, error) {
	return r.findOverlapping(ctx, db, merchantID, staffID, rng, false)
}

// findOverlapping uses the half-open overlap predicate: ranges sharing
// only a boundary instant do not conflict.
func (r *lockRepo) findOverlapping(ctx context.Context, db *gorm.DB, merchantID, staffID snowflake.ID, rng types.TimeRange, forUpdate bool) ([]bookingdomain.BookingLock, error) {
	stmt := db.WithContext(ctx).
		Where("merchant_id = ? AND staff_id = ?", merchantID, staffID).
		Where("start_at < ? AND end_at > ?", rng.End.UTC(), rng.Start.UTC())
	if forUpdate && db.Dialector.Name() == "postgres" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var locks []bookingdomain.BookingLock
	err := stmt.Find(&locks).Error
	return locks, err
}

func overlapError(staffID snowflake.ID, rng types.TimeRange, conflicts []bookingdomain.BookingLock) error {
	e := &bookingdomain.OverlapError{StaffID: staffID, Range: rng}
	for _, lock := range conflicts {
		if lock.BookingID != nil {
			e.ConflictingBookingID = *lock.BookingID
			break
		}
	}
	return e
}

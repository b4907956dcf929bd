package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, merchant *Merchant) error
	Update(ctx context.Context, db *gorm.DB, merchant *Merchant) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Merchant, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Merchant, error)

	InsertHoliday(ctx context.Context, db *gorm.DB, holiday *MerchantHoliday) error
	DeleteHoliday(ctx context.Context, db *gorm.DB, merchantID, holidayID snowflake.ID) error
	ListHolidays(ctx context.Context, db *gorm.DB, merchantID snowflake.ID) ([]MerchantHoliday, error)
}

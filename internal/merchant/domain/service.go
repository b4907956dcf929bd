package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/internal/principal"
)

type CreateMerchantRequest struct {
	Slug        string
	DisplayName string
	Timezone    string
}

type UpdateMerchantStatusRequest struct {
	MerchantID snowflake.ID
	Status     MerchantStatus
}

type AddHolidayRequest struct {
	MerchantID snowflake.ID
	Month      int
	Day        int
	Year       int // zero makes the holiday recur annually
	Name       string
}

type Service interface {
	Create(ctx context.Context, p principal.Principal, req CreateMerchantRequest) (*Merchant, error)
	Get(ctx context.Context, p principal.Principal, merchantID snowflake.ID) (*Merchant, error)
	UpdateStatus(ctx context.Context, p principal.Principal, req UpdateMerchantStatusRequest) (*Merchant, error)

	AddHoliday(ctx context.Context, p principal.Principal, req AddHolidayRequest) (*MerchantHoliday, error)
	RemoveHoliday(ctx context.Context, p principal.Principal, merchantID, holidayID snowflake.ID) error
	ListHolidays(ctx context.Context, p principal.Principal, merchantID snowflake.ID) ([]MerchantHoliday, error)

	// IsHoliday is the catalog-view check the scheduler consumes; it is
	// not principal-gated because it never leaves the process.
	IsHoliday(ctx context.Context, merchantID snowflake.ID, localDate time.Time) (bool, error)

	// Resolve is the in-process tenant lookup the scheduler uses. Like
	// IsHoliday it is not principal-gated.
	Resolve(ctx context.Context, merchantID snowflake.ID) (*Merchant, error)
}

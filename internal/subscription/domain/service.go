package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/internal/principal"
)

type SetStatusRequest struct {
	MerchantID snowflake.ID
	Status     SubscriptionStatus
}

type Service interface {
	GetForMerchant(ctx context.Context, p principal.Principal, merchantID snowflake.ID) (*Subscription, error)
	SetStatus(ctx context.Context, p principal.Principal, req SetStatusRequest) (*Subscription, error)

	// EnsureCanCreateBooking is the admission gate the booking service
	// calls inside its transaction.
	EnsureCanCreateBooking(ctx context.Context, merchantID snowflake.ID) error
}

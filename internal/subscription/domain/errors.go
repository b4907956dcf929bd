package domain

import "errors"

var (
	ErrSubscriptionNotFound  = errors.New("subscription_not_found")
	ErrSubscriptionPastDue   = errors.New("subscription_past_due")
	ErrSubscriptionCancelled = errors.New("subscription_cancelled")
	ErrInvalidStatus         = errors.New("invalid_subscription_status")
)

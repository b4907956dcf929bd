package domain

import "errors"

var (
	ErrMerchantNotFound = errors.New("merchant_not_found")
	ErrMerchantInactive = errors.New("merchant_inactive")
	ErrHolidayNotFound  = errors.New("holiday_not_found")
	ErrSlugTaken        = errors.New("slug_taken")
	ErrInvalidSlug      = errors.New("invalid_slug")
	ErrInvalidTimezone  = errors.New("invalid_timezone")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidDate      = errors.New("invalid_date")
)

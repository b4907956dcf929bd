package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/pkg/types"
)

// OptionSnapshot is the price and duration of a selected service option,
// copied at booking time.
type OptionSnapshot struct {
	OptionID    snowflake.ID `json:"option_id"`
	Name        string       `json:"name"`
	PriceAmount int64        `json:"price_amount"`
	DurationMin int          `json:"duration_min"`
}

// BookingItem is one service line of a booking. Name, price and duration
// are snapshots taken when the booking was made, so later catalog edits
// never alter existing bookings. Items are immutable after construction.
type BookingItem struct {
	ServiceID          snowflake.ID     `json:"service_id"`
	ServiceName        string           `json:"service_name"`
	ServicePriceAmount int64            `json:"service_price_amount"`
	Currency           string           `json:"currency"`
	ServiceDurationMin int              `json:"service_duration_min"`
	Options            []OptionSnapshot `json:"options,omitempty"`
}

// TotalPrice sums the service price and all option add-ons.
func (i BookingItem) TotalPrice() types.Money {
	total := i.ServicePriceAmount
	for _, opt := range i.Options {
		total += opt.PriceAmount
	}
	return types.Money{Amount: total, Currency: i.Currency}
}

// TotalDuration sums the service duration and all option add-ons.
func (i BookingItem) TotalDuration() types.Duration {
	total := i.ServiceDurationMin
	for _, opt := range i.Options {
		total += opt.DurationMin
	}
	return types.Duration(total)
}

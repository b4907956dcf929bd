package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
)

// Response shapes are decoupled from the storage models so column
// renames never leak onto the wire.

type bookingResponse struct {
	ID               snowflake.ID                `json:"id"`
	MerchantID       snowflake.ID                `json:"merchant_id"`
	StaffID          snowflake.ID                `json:"staff_id"`
	Customer         bookingdomain.Customer      `json:"customer"`
	StartAt          time.Time                   `json:"start_at"`
	EndAt            time.Time                   `json:"end_at"`
	Status           bookingdomain.BookingStatus `json:"status"`
	Items            []bookingdomain.BookingItem `json:"items"`
	Notes            string                      `json:"notes,omitempty"`
	TotalDurationMin int                         `json:"total_duration_min"`
	TotalPriceAmount int64                       `json:"total_price_amount"`
	Currency         string                      `json:"currency"`
	CancelledBy      string                      `json:"cancelled_by,omitempty"`
	CancelReason     string                      `json:"cancel_reason,omitempty"`
	CancelledAt      *time.Time                  `json:"cancelled_at,omitempty"`
	CompletedAt      *time.Time                  `json:"completed_at,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

func renderBooking(b *bookingdomain.Booking) bookingResponse {
	return bookingResponse{
		ID:               b.ID,
		MerchantID:       b.MerchantID,
		StaffID:          b.StaffID,
		Customer:         b.Customer,
		StartAt:          b.StartAt,
		EndAt:            b.EndAt,
		Status:           b.Status,
		Items:            b.Items,
		Notes:            b.Notes,
		TotalDurationMin: b.TotalDurationMin,
		TotalPriceAmount: b.TotalPriceAmount,
		Currency:         b.Currency,
		CancelledBy:      b.CancelledBy,
		CancelReason:     b.CancelReason,
		CancelledAt:      b.CancelledAt,
		CompletedAt:      b.CompletedAt,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func renderBookings(bookings []bookingdomain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, renderBooking(&bookings[i]))
	}
	return out
}

type merchantResponse struct {
	ID          snowflake.ID                  `json:"id"`
	Slug        string                        `json:"slug"`
	DisplayName string                        `json:"display_name"`
	Timezone    string                        `json:"timezone"`
	Status      merchantdomain.MerchantStatus `json:"status"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

func renderMerchant(m *merchantdomain.Merchant) merchantResponse {
	return merchantResponse{
		ID:          m.ID,
		Slug:        m.Slug,
		DisplayName: m.DisplayName,
		Timezone:    m.Timezone,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type holidayResponse struct {
	ID    snowflake.ID `json:"id"`
	Month int          `json:"month"`
	Day   int          `json:"day"`
	Year  int          `json:"year,omitempty"`
	Name  string       `json:"name,omitempty"`
}

func renderMerchantHoliday(h *merchantdomain.MerchantHoliday) holidayResponse {
	return holidayResponse{ID: h.ID, Month: h.Month, Day: h.Day, Year: h.Year, Name: h.Name}
}

func renderStaffHoliday(h *catalogdomain.StaffHoliday) holidayResponse {
	return holidayResponse{ID: h.ID, Month: h.Month, Day: h.Day, Year: h.Year}
}

type subscriptionResponse struct {
	ID                 snowflake.ID                          `json:"id"`
	MerchantID         snowflake.ID                          `json:"merchant_id"`
	Status             subscriptiondomain.SubscriptionStatus `json:"status"`
	CurrentPeriodStart time.Time                             `json:"current_period_start"`
	CurrentPeriodEnd   time.Time                             `json:"current_period_end"`
}

func renderSubscription(s *subscriptiondomain.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:                 s.ID,
		MerchantID:         s.MerchantID,
		Status:             s.Status,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
	}
}

type serviceResponse struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category,omitempty"`
	PriceAmount int64        `json:"price_amount"`
	Currency    string       `json:"currency"`
	DurationMin int          `json:"duration_min"`
	Active      bool         `json:"active"`
}

func renderService(svc *catalogdomain.Service) serviceResponse {
	return serviceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Category:    svc.Category,
		PriceAmount: svc.PriceAmount,
		Currency:    svc.Currency,
		DurationMin: svc.DurationMin,
		Active:      svc.Active,
	}
}

func renderServices(services []catalogdomain.Service) []serviceResponse {
	out := make([]serviceResponse, 0, len(services))
	for i := range services {
		out = append(out, renderService(&services[i]))
	}
	return out
}

type optionResponse struct {
	ID           snowflake.ID `json:"id"`
	ServiceID    snowflake.ID `json:"service_id"`
	Name         string       `json:"name"`
	AddPrice     int64        `json:"add_price"`
	AddDuration  int          `json:"add_duration"`
	Active       bool         `json:"active"`
	DisplayOrder int          `json:"display_order"`
}

func renderOption(opt *catalogdomain.ServiceOption) optionResponse {
	return optionResponse{
		ID:           opt.ID,
		ServiceID:    opt.ServiceID,
		Name:         opt.Name,
		AddPrice:     opt.AddPrice,
		AddDuration:  opt.AddDuration,
		Active:       opt.Active,
		DisplayOrder: opt.DisplayOrder,
	}
}

func renderOptions(options []catalogdomain.ServiceOption) []optionResponse {
	out := make([]optionResponse, 0, len(options))
	for i := range options {
		out = append(out, renderOption(&options[i]))
	}
	return out
}

type staffResponse struct {
	ID          snowflake.ID `json:"id"`
	DisplayName string       `json:"display_name"`
	Active      bool         `json:"active"`
}

func renderStaff(st *catalogdomain.Staff) staffResponse {
	return staffResponse{ID: st.ID, DisplayName: st.DisplayName, Active: st.Active}
}

func renderStaffList(staff []catalogdomain.Staff) []staffResponse {
	out := make([]staffResponse, 0, len(staff))
	for i := range staff {
		out = append(out, renderStaff(&staff[i]))
	}
	return out
}

type workingHoursResponse struct {
	ID          snowflake.ID `json:"id"`
	StaffID     snowflake.ID `json:"staff_id"`
	Weekday     int          `json:"weekday"`
	StartMinute int          `json:"start_minute"`
	EndMinute   int          `json:"end_minute"`
}

func renderWorkingHours(wh *catalogdomain.StaffWorkingHours) workingHoursResponse {
	return workingHoursResponse{
		ID:          wh.ID,
		StaffID:     wh.StaffID,
		Weekday:     wh.Weekday,
		StartMinute: wh.StartMinute,
		EndMinute:   wh.EndMinute,
	}
}

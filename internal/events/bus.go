// Package events is the in-process publish point for booking lifecycle
// events. Delivery is synchronous and best-effort: a failing subscriber is
// logged and never fails the operation that published.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/pkg/types"
	"go.uber.org/zap"
)

const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
)

// Event is the tagged record external notifiers consume.
type Event struct {
	Type               string       `json:"type"`
	BookingID          snowflake.ID `json:"booking_id"`
	MerchantID         snowflake.ID `json:"merchant_id"`
	StaffID            snowflake.ID `json:"staff_id"`
	StartAt            time.Time    `json:"start_at"`
	EndAt              time.Time    `json:"end_at"`
	CustomerLineUserID string       `json:"customer_line_user_id,omitempty"`
	TotalPrice         *types.Money `json:"total_price,omitempty"`
	Reason             string       `json:"reason,omitempty"`
	TS                 time.Time    `json:"ts"`
}

// Handler consumes one event. Errors are logged, not propagated.
type Handler func(ctx context.Context, event Event) error

// Bus fans events out to subscribers registered per type.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		log:      log.Named("events.bus"),
	}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers the event to every subscriber of its type, in
// registration order. Handler panics and errors are swallowed after
// logging.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.deliver(ctx, event, handler)
	}
}

func (b *Bus) deliver(ctx context.Context, event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event subscriber panicked",
				zap.String("type", event.Type),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler(ctx, event); err != nil {
		b.log.Warn("event subscriber failed",
			zap.String("type", event.Type),
			zap.Int64("booking_id", int64(event.BookingID)),
			zap.Error(err),
		)
	}
}

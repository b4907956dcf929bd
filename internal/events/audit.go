package events

import (
	"context"

	"go.uber.org/zap"
)

// RegisterAuditLog subscribes a structured-log consumer for every booking
// lifecycle event. It stands in for the external notifier integration,
// which plugs into the same Subscribe seam.
func RegisterAuditLog(bus *Bus, log *zap.Logger) {
	audit := log.Named("events.audit")
	handler := func(ctx context.Context, event Event) error {
		fields := []zap.Field{
			zap.String("type", event.Type),
			zap.Int64("booking_id", int64(event.BookingID)),
			zap.Int64("merchant_id", int64(event.MerchantID)),
			zap.Int64("staff_id", int64(event.StaffID)),
			zap.Time("start_at", event.StartAt),
			zap.Time("end_at", event.EndAt),
		}
		if event.Reason != "" {
			fields = append(fields, zap.String("reason", event.Reason))
		}
		audit.Info("booking event", fields...)
		return nil
	}

	bus.Subscribe(TypeBookingConfirmed, handler)
	bus.Subscribe(TypeBookingCancelled, handler)
}

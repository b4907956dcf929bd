package booking

import (
	"github.com/smallbiznis/reserva/internal/booking/repository"
	"github.com/smallbiznis/reserva/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.ProvideBookingRepository),
	fx.Provide(repository.ProvideLockRepository),
	fx.Provide(service.NewService),
)

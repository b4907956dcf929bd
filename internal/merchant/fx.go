package merchant

import (
	"github.com/smallbiznis/reserva/internal/merchant/repository"
	"github.com/smallbiznis/reserva/internal/merchant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("merchant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

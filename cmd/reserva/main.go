package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/internal/booking"
	"github.com/smallbiznis/reserva/internal/cache"
	"github.com/smallbiznis/reserva/internal/catalog"
	"github.com/smallbiznis/reserva/internal/clock"
	"github.com/smallbiznis/reserva/internal/config"
	"github.com/smallbiznis/reserva/internal/events"
	"github.com/smallbiznis/reserva/internal/merchant"
	"github.com/smallbiznis/reserva/internal/migration"
	"github.com/smallbiznis/reserva/internal/observability"
	"github.com/smallbiznis/reserva/internal/ratelimit"
	"github.com/smallbiznis/reserva/internal/server"
	"github.com/smallbiznis/reserva/internal/subscription"
	"github.com/smallbiznis/reserva/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		events.Module,
		ratelimit.Module,
		migration.Module,

		// Functional domains
		merchant.Module,
		subscription.Module,
		catalog.Module,
		booking.Module,

		server.Module,
	)
	app.Run()
}

func registerSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	"github.com/smallbiznis/reserva/internal/config"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	obslogger "github.com/smallbiznis/reserva/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/reserva/internal/observability/metrics"
	"github.com/smallbiznis/reserva/internal/ratelimit"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log.Named("http")))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	bookings      bookingdomain.Service
	merchants     merchantdomain.Service
	subscriptions subscriptiondomain.Service
	catalog       catalogdomain.CatalogService
	limiter       *ratelimit.BookingLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	Bookings      bookingdomain.Service
	Merchants     merchantdomain.Service
	Subscriptions subscriptiondomain.Service
	Catalog       catalogdomain.CatalogService
	Limiter       *ratelimit.BookingLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("server"),
		bookings:      p.Bookings,
		merchants:     p.Merchants,
		subscriptions: p.Subscriptions,
		catalog:       p.Catalog,
		limiter:       p.Limiter,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(RequirePrincipal())

	api.POST("/merchants", s.createMerchant)

	m := api.Group("/merchants/:merchant_id")
	m.GET("", s.getMerchant)
	m.PATCH("/status", s.updateMerchantStatus)
	m.POST("/holidays", s.addMerchantHoliday)
	m.GET("/holidays", s.listMerchantHolidays)
	m.DELETE("/holidays/:holiday_id", s.removeMerchantHoliday)

	m.GET("/subscription", s.getSubscription)
	m.PUT("/subscription/status", s.setSubscriptionStatus)

	m.POST("/services", s.createCatalogService)
	m.GET("/services", s.listCatalogServices)
	m.PATCH("/services/:service_id", s.updateCatalogService)
	m.POST("/services/:service_id/options", s.createServiceOption)
	m.GET("/services/:service_id/options", s.listServiceOptions)
	m.DELETE("/options/:option_id", s.deactivateServiceOption)

	m.POST("/staff", s.createStaff)
	m.GET("/staff", s.listStaff)
	m.PATCH("/staff/:staff_id", s.updateStaff)
	m.PUT("/staff/:staff_id/skills", s.assignStaffSkills)
	m.GET("/staff/:staff_id/skills", s.listStaffSkills)
	m.PUT("/staff/:staff_id/working-hours", s.upsertWorkingHours)
	m.GET("/staff/:staff_id/working-hours", s.listWorkingHours)
	m.POST("/staff/:staff_id/holidays", s.addStaffHoliday)
	m.GET("/staff/:staff_id/holidays", s.listStaffHolidays)
	m.DELETE("/staff-holidays/:holiday_id", s.removeStaffHoliday)
	m.GET("/staff/:staff_id/slots", s.availableSlots)

	m.POST("/bookings", s.createBooking)
	m.GET("/bookings", s.listBookings)
	m.GET("/bookings/:booking_id", s.getBooking)
	m.POST("/bookings/:booking_id/cancel", s.cancelBooking)
}

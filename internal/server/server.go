package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/upravdom/upravdom/internal/apartment"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	"github.com/upravdom/upravdom/internal/config"
	"github.com/upravdom/upravdom/internal/meter"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
	"github.com/upravdom/upravdom/internal/owner"
	ownerdomain "github.com/upravdom/upravdom/internal/owner/domain"
	"github.com/upravdom/upravdom/internal/tariff"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	"github.com/upravdom/upravdom/internal/utility"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
	"github.com/upravdom/upravdom/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	owner.Module,
	apartment.Module,
	meter.Module,
	tariff.Module,
	utility.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(log.Named("http")))
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Params struct {
	fx.In

	Engine       *gin.Engine
	Log          *zap.Logger
	Config       config.Config
	OwnerSvc     ownerdomain.Service
	ApartmentSvc apartmentdomain.Service
	MeterSvc     meterdomain.Service
	UtilitySvc   utilitydomain.Service
	TariffSvc    tariffdomain.Service
}

type Server struct {
	engine       *gin.Engine
	log          *zap.Logger
	cfg          config.Config
	ownerSvc     ownerdomain.Service
	apartmentSvc apartmentdomain.Service
	meterSvc     meterdomain.Service
	utilitySvc   utilitydomain.Service
	tariffSvc    tariffdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		engine:       p.Engine,
		log:          p.Log.Named("server"),
		cfg:          p.Config,
		ownerSvc:     p.OwnerSvc,
		apartmentSvc: p.ApartmentSvc,
		meterSvc:     p.MeterSvc,
		utilitySvc:   p.UtilitySvc,
		tariffSvc:    p.TariffSvc,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")

	owners := v1.Group("/owners")
	owners.POST("", s.CreateOwner)
	owners.GET("", s.ListOwners)
	owners.GET("/:id", s.GetOwner)
	owners.PATCH("/:id", s.UpdateOwner)
	owners.DELETE("/:id", s.DeleteOwner)

	apartments := v1.Group("/apartments")
	apartments.POST("", s.CreateApartment)
	apartments.GET("", s.ListApartments)
	apartments.GET("/:id", s.GetApartment)
	apartments.PATCH("/:id", s.UpdateApartment)
	apartments.DELETE("/:id", s.DeleteApartment)

	meters := v1.Group("/meters")
	meters.POST("", s.CreateMeter)
	meters.GET("", s.ListMeters)
	meters.GET("/:id", s.GetMeter)
	meters.POST("/:id/readings", s.RecordMeterReading)
	meters.DELETE("/:id", s.DeleteMeter)

	services := v1.Group("/services")
	services.POST("", s.CreateUtilityService)
	services.GET("", s.ListUtilityServices)
	services.GET("/:id", s.GetUtilityService)
	services.PATCH("/:id", s.UpdateUtilityService)
	services.DELETE("/:id", s.DeleteUtilityService)
	services.GET("/:id/tariffs", s.ListServiceTariffs)

	tariffs := v1.Group("/tariffs")
	tariffs.POST("", s.CreateTariff)
	tariffs.GET("/start-dates", s.TariffStartDates)
	tariffs.POST("/status", s.TariffStatusBatch)
	tariffs.GET("/:id", s.GetTariff)
	tariffs.GET("/:id/status", s.TariffStatus)
	tariffs.PATCH("/:id", s.UpdateTariff)
	tariffs.DELETE("/:id", s.DeleteTariff)
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

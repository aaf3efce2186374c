package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/localgov-gh/revhub/internal/config"
	dashboarddomain "github.com/localgov-gh/revhub/internal/dashboard/domain"
	"github.com/localgov-gh/revhub/internal/principal"
	"github.com/localgov-gh/revhub/internal/store"
)

const (
	rateLimitPerPrincipal = 120
	rateLimitWindow       = time.Minute
)

type Server struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	store *store.Store

	dashboardSvc dashboarddomain.Service

	limiter *rateLimiter
}

type ServerParam struct {
	fx.In

	Config       config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	Store        *store.Store
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:          p.Config,
		db:           p.DB,
		log:          p.Log.Named("server"),
		store:        p.Store,
		dashboardSvc: p.DashboardSvc,
		limiter:      newRateLimiter(rateLimitPerPrincipal, rateLimitWindow),
	}
}

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine
}

func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)

	api := engine.Group("/api")
	api.Use(s.PrincipalRequired())

	api.GET("/businesses", s.ListBusinesses)
	api.POST("/businesses", s.RequirePermission(principal.PermRegisterBusiness), s.CreateBusiness)
	api.PATCH("/businesses/:id", s.RequirePermission(principal.PermEditBusiness), s.UpdateBusiness)

	api.GET("/collections", s.ListCollections)
	api.POST("/collections", s.RequirePermission(principal.PermRecordPayment), s.CreateCollection)
	api.PATCH("/collections/:id", s.RequirePermission(principal.PermRecordPayment), s.UpdateCollection)
	api.POST("/collections/:id/validate", s.RequirePermission(principal.PermValidatePayment), s.ValidateCollection)

	api.GET("/assignments", s.ListAssignments)
	api.POST("/assignments", s.RequirePermission(principal.PermAssignCollector), s.CreateAssignment)

	api.GET("/districts", s.ListDistricts)
	api.POST("/districts", s.RequirePermission(principal.PermCreateDistrict), s.CreateDistrict)
	api.PATCH("/districts/:id/status", s.RequirePermission(principal.PermEditDistrict), s.UpdateDistrictStatus)

	api.GET("/revenue-types", s.ListRevenueTypes)
	api.POST("/revenue-types", s.RequirePermission(principal.PermCreateRevenueType), s.CreateRevenueType)

	api.GET("/audit-logs", s.RequirePermission(principal.PermViewAuditLogs), s.ListAuditLogs)

	dashboard := api.Group("/dashboard")
	dashboard.Use(s.RequirePermission(principal.PermViewDashboard))
	dashboard.GET("/overview", s.DashboardOverview)
	dashboard.GET("/trend", s.DashboardTrend)
	dashboard.GET("/top-collectors", s.DashboardTopCollectors)
	dashboard.GET("/top-districts", s.DashboardTopDistricts)
	dashboard.GET("/distribution", s.DashboardDistribution)
	dashboard.GET("/regional", s.DashboardRegionalOverview)
	dashboard.GET("/collector-performance", s.DashboardCollectorPerformance)
}

func (s *Server) Healthz(c *gin.Context) {
	status := gin.H{"status": "ok", "revision": s.store.Revision()}
	if err := s.store.LoadErr(); err != nil {
		status["status"] = "degraded"
		status["load_error"] = err.Error()
	}
	c.JSON(http.StatusOK, status)
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server, engine *gin.Engine) {
		s.RegisterRoutes(engine)
	}),
	fx.Invoke(RunHTTP),
)

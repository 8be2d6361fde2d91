package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/fydhel24/proyectoadmusoficial-sub000/api/swagger"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/handler"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/middleware"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/repository"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/service"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/cache"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/config"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/database"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/export"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/logger"
	corsmiddleware "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/middleware/requestid"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/storage"
)

// @title Admusof Booking API
// @version 1.0.0
// @description Weekly talent availability, booking allocation and calendar API
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	talentRepo := repository.NewTalentRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	weekRepo := repository.NewWeekRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	resetRepo := repository.NewResetRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Calendar.CacheTTL, logr, redisClient != nil)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "admusof-booking-api",
		SingleSession:      true,
	})
	talentService := service.NewTalentService(talentRepo, validate, logr)
	companyService := service.NewCompanyService(companyRepo, validate, logr)
	availabilityService := service.NewAvailabilityService(availabilityRepo, talentRepo, companyRepo, validate, logr)
	weekService := service.NewWeekService(weekRepo, logr)
	allocationService := service.NewAllocationService(
		talentRepo,
		companyRepo,
		availabilityRepo,
		weekRepo,
		bookingRepo,
		cacheService,
		metricsService,
		cfg.Allocator,
		service.NewSeededShuffle(cfg.Allocator.Seed),
		validate,
		logr,
	)
	calendarService := service.NewCalendarService(weekRepo, availabilityRepo, bookingRepo, talentRepo, cacheService, cfg.Calendar.CacheTTL, logr)
	bookingService := service.NewBookingService(bookingRepo, cacheService, logr)

	cleanupService := service.NewCleanupService(resetRepo, availabilityRepo, cacheRepo, metricsService, cfg.Cleanup, logr)
	cleanupService.Start(ctx)
	defer cleanupService.Stop()

	exportStorage, err := storage.NewLocalStore(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportService := service.NewExportService(
		calendarService,
		exportStorage,
		exportSigner,
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
		logr,
		export.NewCSVExporter(),
		export.NewPDFExporter(),
	)
	go sweepExports(ctx, exportService, cfg.Exports.CleanupInterval, cfg.Exports.SignedURLTTL, logr)

	authHandler := handler.NewAuthHandler(authService)
	talentHandler := handler.NewTalentHandler(talentService)
	companyHandler := handler.NewCompanyHandler(companyService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService, talentService)
	allocationHandler := handler.NewAllocationHandler(allocationService, talentService)
	calendarHandler := handler.NewCalendarHandler(calendarService, talentService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	weekHandler := handler.NewWeekHandler(weekService)
	exportHandler := handler.NewExportHandler(exportService)
	cleanupHandler := handler.NewCleanupHandler(cleanupService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Download access is governed by the signed token, not the session.
	api.GET("/exports/:token", exportHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)

		me := authed.Group("/me")
		me.Use(middleware.RequireRoles(models.RoleTalent))
		me.PUT("/availability", availabilityHandler.DeclareOwnAvailability)
		me.POST("/allocation", allocationHandler.AllocateSelf)
		me.GET("/calendar", calendarHandler.Self)

		staff := middleware.RequireRoles(models.RoleAdmin, models.RoleOps)

		talents := authed.Group("/talents")
		talents.GET("", staff, talentHandler.List)
		talents.POST("", staff, talentHandler.Create)
		talents.GET("/:id", talentHandler.Get)
		talents.PUT("/:id", staff, talentHandler.Update)
		talents.DELETE("/:id", staff, talentHandler.Deactivate)
		talents.GET("/:id/availability", availabilityHandler.ListTalentAvailability)
		talents.PUT("/:id/availability", staff, availabilityHandler.DeclareTalentAvailability)
		talents.GET("/:id/calendar", calendarHandler.Talent)

		companies := authed.Group("/companies", staff)
		companies.GET("", companyHandler.List)
		companies.POST("", companyHandler.Create)
		companies.GET("/:id", companyHandler.Get)
		companies.PUT("/:id", companyHandler.Update)
		companies.DELETE("/:id", companyHandler.Deactivate)
		companies.GET("/:id/slots", availabilityHandler.ListCompanySlots)
		companies.PUT("/:id/slots", availabilityHandler.UpsertCompanySlot)
		companies.DELETE("/:id/slots/:slotId", availabilityHandler.DeleteCompanySlot)

		allocations := authed.Group("/allocations", staff)
		allocations.POST("/run", allocationHandler.AllocateAll)
		allocations.POST("/manual", allocationHandler.AssignManual)
		allocations.POST("/talents/:id", allocationHandler.AllocateTalent)

		authed.GET("/calendar", calendarHandler.Week)

		bookings := authed.Group("/bookings", staff)
		bookings.GET("", bookingHandler.List)
		bookings.GET("/:id", bookingHandler.Get)
		bookings.DELETE("/:id", bookingHandler.Cancel)

		weeks := authed.Group("/weeks")
		weeks.GET("", weekHandler.List)
		weeks.GET("/current", weekHandler.Current)
		weeks.GET("/:id", weekHandler.Get)
		weeks.GET("/:id/calendar", calendarHandler.WeekByID)
		weeks.POST("/:id/export", staff, exportHandler.Generate)

		admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		admin.POST("/availability-reset/run", cleanupHandler.Run)
		admin.GET("/availability-reset/last", cleanupHandler.LastRun)
		admin.GET("/availability-reset/history", cleanupHandler.History)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// sweepExports periodically removes export files older than their TTL.
func sweepExports(ctx context.Context, exports *service.ExportService, interval, ttl time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := exports.Cleanup(ttl)
			if err != nil {
				logr.Sugar().Warnw("export cleanup failed", "error", err)
				continue
			}
			if len(removed) > 0 {
				logr.Sugar().Infow("expired exports removed", "count", len(removed))
			}
		}
	}
}

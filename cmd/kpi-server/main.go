package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/larissaOjeda/thesis-canvas/api/swagger"
	"github.com/larissaOjeda/thesis-canvas/internal/canvas"
	"github.com/larissaOjeda/thesis-canvas/internal/handler"
	"github.com/larissaOjeda/thesis-canvas/internal/middleware"
	"github.com/larissaOjeda/thesis-canvas/internal/repository"
	"github.com/larissaOjeda/thesis-canvas/internal/service"
	"github.com/larissaOjeda/thesis-canvas/pkg/cache"
	"github.com/larissaOjeda/thesis-canvas/pkg/config"
	"github.com/larissaOjeda/thesis-canvas/pkg/database"
	"github.com/larissaOjeda/thesis-canvas/pkg/logger"
	corsmiddleware "github.com/larissaOjeda/thesis-canvas/pkg/middleware/cors"
	reqidmiddleware "github.com/larissaOjeda/thesis-canvas/pkg/middleware/requestid"
	"github.com/larissaOjeda/thesis-canvas/pkg/storage"
)

// @title Canvas KPI API
// @version 1.0.0
// @description KPI aggregation service over a replicated Canvas dataset
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Analytics.CacheTTL, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, true)
	}

	entityRepo := repository.NewEntityRepository(db)
	kpiRepo := repository.NewKPIRepository(db)
	kpiSvc := service.NewKPIService(entityRepo, kpiRepo, cacheSvc, metricsSvc, logr, cfg.Analytics.CacheTTL)

	authSvc := service.NewAuthService(nil, logr, service.AuthConfig{
		JWTSecret:        cfg.Auth.JWTSecret,
		TokenExpiry:      cfg.Auth.TokenExpiration,
		ClientID:         cfg.Auth.ClientID,
		ClientSecretHash: cfg.Auth.ClientSecretHash,
	})

	var dashboardSvc *service.DashboardService
	if cfg.Dashboard.Enabled {
		dashCfg := service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL}
		if cfg.Dashboard.SnapshotDir != "" {
			snapshots, err := storage.NewLocalStorage(cfg.Dashboard.SnapshotDir)
			if err != nil {
				logr.Sugar().Fatalw("failed to init snapshot storage", "error", err)
			}
			dashboardSvc = service.NewDashboardService(kpiSvc, cacheSvc, snapshots, logr, dashCfg)
		} else {
			dashboardSvc = service.NewDashboardService(kpiSvc, cacheSvc, nil, logr, dashCfg)
		}
	}

	var (
		reportSvc   *service.ReportService
		reportStore *storage.LocalStorage
	)
	if cfg.Reports.Enabled {
		var err error
		reportStore, err = storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc = service.NewReportService(kpiSvc, reportStore, signer, logr)
	}

	var syncSvc *service.SyncService
	if cfg.Sync.Enabled {
		dapClient := canvas.NewClient(cfg.Sync.BaseURL, cfg.Sync.ClientID, cfg.Sync.ClientSecret,
			canvas.WithHTTPClient(&http.Client{Timeout: cfg.Sync.RequestTimeout}))
		syncRepo := repository.NewSyncRepository(db)
		syncSvc = service.NewSyncService(dapClient, syncRepo, cacheSvc, logr, service.SyncServiceConfig{
			Enabled:      true,
			Tables:       cfg.Sync.Tables,
			PollInterval: cfg.Sync.PollInterval,
			Workers:      cfg.Sync.WorkerConcurrency,
			Retries:      cfg.Sync.WorkerRetries,
		})
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := handler.NewAuthHandler(authSvc)
	api.POST("/auth/token", authHandler.Token)

	kpiHandler := handler.NewKPIHandler(kpiSvc)
	kpis := api.Group("/kpis")
	kpis.GET("/availability", kpiHandler.Availability)
	kpis.GET("/availability/monthly", kpiHandler.MonthlyAvailability)
	kpis.GET("/retention", kpiHandler.Retention)
	kpis.GET("/retention/term", kpiHandler.TermRetention)
	kpis.GET("/completion", kpiHandler.Completion)
	kpis.GET("/scores", kpiHandler.Scores)
	kpis.GET("/scores/by-course", kpiHandler.ScoresByCourse)
	kpis.GET("/feedback/time", kpiHandler.FeedbackTime)
	kpis.GET("/feedback/days", kpiHandler.FeedbackDays)
	kpis.GET("/mastery", kpiHandler.Mastery)
	kpis.GET("/modules/progress", kpiHandler.ModuleProgress)
	kpis.GET("/modules/completion", kpiHandler.CourseCompletion)
	kpis.GET("/system", kpiHandler.System)

	if dashboardSvc != nil {
		dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
		api.GET("/dashboard", dashboardHandler.HTML)
		api.GET("/dashboard/overview", dashboardHandler.Overview)
	}

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc)
		api.POST("/reports", middleware.JWT(authSvc), reportHandler.Generate)
		api.GET("/reports/download/:token", reportHandler.Download)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if reportStore != nil && cfg.Reports.CleanupInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Reports.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					removed, err := reportStore.Sweep(cfg.Reports.SignedURLTTL)
					if err != nil {
						logr.Sugar().Warnw("report sweep failed", "error", err)
						continue
					}
					if len(removed) > 0 {
						logr.Sugar().Infow("swept expired reports", "count", len(removed))
					}
				}
			}
		}()
	}

	if syncSvc != nil {
		syncSvc.Start(ctx)
		defer syncSvc.Stop()

		syncHandler := handler.NewSyncHandler(syncSvc)
		sync := api.Group("/sync", middleware.JWT(authSvc))
		sync.POST("", syncHandler.Trigger)
		sync.POST("/tables/:table", syncHandler.TriggerTable)
		sync.GET("/runs", syncHandler.Recent)
		sync.GET("/runs/:id", syncHandler.Status)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}

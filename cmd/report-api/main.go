package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-compliance-report/api/swagger"
	"github.com/noah-isme/sma-compliance-report/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-compliance-report/internal/middleware"
	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/internal/repository"
	"github.com/noah-isme/sma-compliance-report/internal/service"
	"github.com/noah-isme/sma-compliance-report/internal/tabulation"
	"github.com/noah-isme/sma-compliance-report/pkg/cache"
	"github.com/noah-isme/sma-compliance-report/pkg/config"
	"github.com/noah-isme/sma-compliance-report/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-compliance-report/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-compliance-report/pkg/middleware/requestid"
	"github.com/noah-isme/sma-compliance-report/pkg/storage"
)

// @title Syllabus Compliance Report API
// @version 1.0.0
// @description Tabulates syllabus evaluation periods into compliance reports.
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init report storage", zap.Error(err))
	}

	defaultFormat, _ := models.ParseReportFormat(cfg.Reports.DefaultFormat, models.ReportFormatPDF)
	reports := service.NewReportService(service.ReportServiceDeps{
		Engine:  tabulation.NewEngine(tabulation.NewVocabulary(cfg.Labels.Affirmative, cfg.Labels.Negative, cfg.Labels.Partial)),
		Storage: store,
		Signer:  storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL),
		Cache:   cacheSvc,
		Metrics: metrics,
		Logger:  logr,
	}, service.ReportServiceConfig{
		APIPrefix:       cfg.APIPrefix,
		MidpointLabel:   cfg.Labels.MidpointStage,
		DefaultFormat:   defaultFormat,
		ResultTTL:       cfg.Reports.ResultTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		CacheTTL:        cfg.Cache.TTL,
	})
	cleanupDone := reports.StartCleanup(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	checks := map[string]handler.Pinger{}
	if redisClient != nil {
		checks["redis"] = cacheRepo
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.NewReportHandler(reports, logr).Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	<-cleanupDone
	logr.Info("server stopped")
}

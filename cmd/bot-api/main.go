package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/bookbot-ai/bookbot-api/api/swagger"
	"github.com/bookbot-ai/bookbot-api/internal/handler"
	"github.com/bookbot-ai/bookbot-api/internal/middleware"
	"github.com/bookbot-ai/bookbot-api/internal/nlp"
	"github.com/bookbot-ai/bookbot-api/internal/repository"
	"github.com/bookbot-ai/bookbot-api/internal/service"
	"github.com/bookbot-ai/bookbot-api/pkg/cache"
	"github.com/bookbot-ai/bookbot-api/pkg/config"
	"github.com/bookbot-ai/bookbot-api/pkg/database"
	"github.com/bookbot-ai/bookbot-api/pkg/logger"
	corsmiddleware "github.com/bookbot-ai/bookbot-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bookbot-ai/bookbot-api/pkg/middleware/requestid"
	"github.com/bookbot-ai/bookbot-api/pkg/validation"
)

// @title BookBot API
// @version 1.0.0
// @description Conversational appointment booking service
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

	if err := validation.RegisterCustom(); err != nil {
		logr.Sugar().Fatalw("failed to register validators", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	appointments := repository.NewAppointmentRepository(db)
	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := appointments.EnsureSchema(schemaCtx); err != nil {
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}

	var sessions repository.SessionRepository = repository.NewMemorySessionRepository()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, falling back to in-memory sessions", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			sessions = repository.NewRedisSessionRepository(redisClient, cfg.Bot.SessionTTL)
		}
	}

	var extractor nlp.Extractor
	switch cfg.Extractor.Mode {
	case config.ExtractorModeHTTP:
		extractor = nlp.NewHTTPExtractor(cfg.Extractor.URL, cfg.Extractor.Timeout)
	default:
		extractor = nlp.NewRuleExtractor()
	}

	metricsSvc := service.NewMetricsService()
	parserSvc := service.NewParserService(extractor, time.Now, logr)
	availabilitySvc := service.NewAvailabilityService(appointments, cfg.Bot.MaxAlternatives, logr)
	bookingSvc := service.NewBookingService(appointments, availabilitySvc, metricsSvc, logr)
	chatSvc := service.NewChatService(parserSvc, bookingSvc, sessions, metricsSvc, logr)
	authSvc := service.NewAuthService(service.AuthConfig{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
		Secret:       cfg.JWT.Secret,
		Expiry:       cfg.JWT.Expiration,
		Issuer:       cfg.JWT.Issuer,
	}, logr)
	exportSvc := service.NewExportService(appointments, logr)

	chatHandler := handler.NewChatHandler(chatSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointments, exportSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/chat", chatHandler.Chat)
		api.GET("/chat/greeting", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": cfg.Bot.Greeting})
		})
		api.POST("/auth/login", authHandler.Login)

		admin := api.Group("", middleware.JWT(authSvc))
		{
			admin.GET("/appointments", appointmentHandler.List)
			if cfg.Exports.Enabled {
				admin.GET("/appointments/export", appointmentHandler.Export)
			}
			admin.DELETE("/appointments/:id", appointmentHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "extractor_mode", cfg.Extractor.Mode)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

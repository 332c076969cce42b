package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"meeting-scheduler/internal/app"
	"meeting-scheduler/internal/cache"
	"meeting-scheduler/internal/calendar"
	"meeting-scheduler/internal/config"
	"meeting-scheduler/internal/logging"
	"meeting-scheduler/internal/server"
	"meeting-scheduler/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisCacheDB,
	})
	defer rdb.Close()

	fetcher := calendar.NewGoogleFetcher(
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, logger)

	appInstance := &app.App{
		Repo:    store.New(pool),
		Fetcher: fetcher,
		Cache:   cache.New(rdb, time.Duration(cfg.SlotCacheTTLSecs)*time.Second, logger),
		OAuth:   fetcher.OAuthConfig(),
		Log:     logger,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// OAuth2 callback (must be before auth middleware)
	router.GET("/oauth2callback", appInstance.GoogleOAuth2CallbackHandler)

	router.Use(app.AuthMiddleware(cfg.JWTSecret, strings.Split(cfg.StaticTokens, ",")))

	api := router.Group("/api")
	{
		schedules := api.Group("/schedules")
		{
			schedules.GET("/:id/slots", appInstance.GetSlotsHandler)
			schedules.GET("/:id/team-slots", appInstance.GetTeamSlotsHandler)
			schedules.POST("/:id/bookings", appInstance.CreateBookingHandler)
			schedules.GET("/:id/bookings", appInstance.ListBookingsHandler)
		}
		api.DELETE("/bookings/:id", appInstance.CancelBookingHandler)
		api.GET("/calendar/auth", appInstance.GoogleAuthHandler)
	}

	logger.Info("starting server", zap.String("port", cfg.AppPort))
	if err := server.Run(router, ":"+cfg.AppPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

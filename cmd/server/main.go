package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/auth"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/authz"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/cache"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/config"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/database"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/events"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/handler"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/middleware"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/ratelimit"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/scheduler"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/store/postgres"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/validator"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis (fail-open: no snapshot cache, log-only events, no rate limiting)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		redisClient = nil
	}

	authorizer := authz.NewUserAuthorizer(db, cfg.AdminEmails)
	publishers := events.Multi{events.NewLogPublisher(logger)}
	var snapshots moderation.SnapshotCache
	if redisClient != nil {
		publishers = append(publishers, events.NewRedisPublisher(redisClient, events.Channel))
		snapshots = cache.NewWordCache(redisClient, cfg.SnapshotCacheTTL)
	}

	svc := moderation.NewService(moderation.Dependencies{
		Store:      postgres.NewRepository(db, logger),
		Authorizer: authorizer,
		Publisher:  publishers,
		Cache:      snapshots,
		Validator:  validator.NewWordValidator("data/parts_of_speech.txt", nil),
		Recorder:   middleware.ReviewMetrics{},
		Threshold:  cfg.VoteThreshold,
		Logger:     logger,
	})

	// Initialize handlers
	wordHandler := handler.NewWordHandler(svc)
	reviewHandler := handler.NewReviewHandler(svc)
	reportHandler := handler.NewReportHandler(svc)
	adminHandler := handler.NewAdminHandler(svc)
	authHandler := handler.NewAuthHandler(db, cfg, auth.GoogleConfig(cfg))

	// Initialize and start the queue statistics scheduler if enabled
	var statsScheduler *scheduler.QueueStatsScheduler
	if cfg.StatsEnabled {
		statsScheduler = scheduler.NewQueueStatsScheduler(svc, func(stats moderation.QueueStats) {
			middleware.SetReviewQueue(stats.ByState)
		}, scheduler.SchedulerConfig{Interval: cfg.StatsInterval})
		go statsScheduler.Start(context.Background())
		log.Println("Queue statistics scheduler started")
	}

	// Rate limiting needs Redis; a nil limiter lets every request through
	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled && redisClient != nil {
		limiter = ratelimit.NewLimiter(ratelimit.NewRedisStorage(redisClient), ratelimit.DefaultLimits)
	}
	limit := func(action string) gin.HandlerFunc {
		return middleware.RateLimitMiddleware(limiter, action)
	}

	// Setup router
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "redis": redisClient != nil})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scheduler status
	r.GET("/scheduler/status", func(c *gin.Context) {
		if statsScheduler != nil {
			c.JSON(200, statsScheduler.GetStatus())
		} else {
			c.JSON(200, gin.H{"enabled": false, "message": "Scheduler is disabled"})
		}
	})

	// Auth routes
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/google", authHandler.GoogleAuth)
		authGroup.GET("/google/callback", authHandler.GoogleCallback)
		authGroup.POST("/refresh", authHandler.RefreshToken)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg.JWTSecret), authHandler.Me)
	}

	// API routes
	api := r.Group("/api")
	{
		api.GET("/words/:id", middleware.OptionalAuthMiddleware(cfg.JWTSecret), wordHandler.Get)

		user := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret))
		user.POST("/words", limit(ratelimit.ActionCreateWord), wordHandler.Create)
		user.POST("/words/:id/submit", wordHandler.Submit)
		user.POST("/words/:id/votes", limit(ratelimit.ActionVote), reviewHandler.Vote)
		user.POST("/words/:id/reports", limit(ratelimit.ActionReport), reportHandler.File)
		user.POST("/words/:id/corrections", limit(ratelimit.ActionCorrection), reportHandler.Propose)

		admin := api.Group("/admin", middleware.AdminMiddleware(cfg.JWTSecret, authorizer))
		admin.POST("/words/:id/route", reviewHandler.Route)
		admin.POST("/words/:id/actions", limit(ratelimit.ActionAdminCommand), reviewHandler.AdminAction)
		admin.POST("/words/:id/reports/:rid/resolve", reportHandler.ResolveReport)
		admin.POST("/words/:id/corrections/:cid/resolve", reportHandler.ResolveCorrection)
		admin.GET("/queue", adminHandler.Queue)
		admin.GET("/stats", adminHandler.Stats)
	}

	log.Printf("API server starting on port %s (vote threshold %d)", cfg.Port, svc.Threshold())
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

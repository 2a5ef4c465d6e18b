package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/api"        // Custom package for API handlers
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/cache"      // Custom package for the cache layer
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/config"     // Custom package for configuration
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/middleware" // Custom package for middleware
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/notify"     // Custom package for notifications

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup the cache store: Redis when configured, in-process otherwise
	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		store = cache.NewRedisStore(redisClient)
	} else {
		logrus.Warn("REDIS_ADDR not set, using in-process cache")
	}

	// Setup the notification dispatcher with its background worker
	mailer := &notify.SMTPMailer{
		Addr:     cfg.SMTPAddr,
		From:     cfg.SMTPFrom,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
	}
	notifier := notify.New(mailer, cfg.NotifyQueueSize)
	notifier.Start()
	defer notifier.Stop()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/users", api.RegisterHandler(db, store))                   // Signup endpoint
	r.POST("/auth/token", api.TokenHandler(db, cfg.JWTSecret))         // Token obtain endpoint
	r.POST("/auth/token/refresh", api.RefreshTokenHandler(cfg.JWTSecret)) // Token refresh endpoint

	// Open read endpoints
	r.GET("/users", api.ListUsersHandler(db, store))          // List users endpoint
	r.GET("/users/:id", api.GetUserHandler(db, store))        // User detail endpoint
	r.GET("/collects", api.ListCollectsHandler(db, store))    // List collects endpoint
	r.GET("/collects/:id", api.GetCollectHandler(db, store))  // Collect detail endpoint
	r.GET("/payments", api.ListPaymentsHandler(db, store))    // List payments endpoint
	r.GET("/payments/:id", api.GetPaymentHandler(db, store))  // Payment detail endpoint

	// Write endpoints (protected by JWT)
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	r.POST("/collects", auth, api.CreateCollectHandler(db, store, notifier))   // Create collect endpoint
	r.PATCH("/collects/:id", auth, api.UpdateCollectHandler(db, store))        // Update collect endpoint
	r.DELETE("/collects/:id", auth, api.DeleteCollectHandler(db, store))       // Delete collect endpoint
	r.POST("/payments", auth, api.CreatePaymentHandler(db, store, notifier))   // Donation endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}

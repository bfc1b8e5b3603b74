package controlapi

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	_ "lanscan/controlapi/docs"
	"lanscan/internal/logging"
)

// Run initializes dependencies and starts the control-plane server,
// grounded in the teacher's api.Run: same REDIS_ADDR env lookup, ping,
// store construction, worker pool, and gin route registration, with the
// probe-cache load replaced by queuing scan tasks straight into the
// scanning engine.
func Run() error {
	log := logging.Logger()

	redisAddr := getenv("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
	}

	store := NewRedisStore(redisClient)

	workerCount := 4
	StartWorkers(store, workerCount)

	writeKey := getenv("API_KEY", "")
	readKey := getenv("API_READ_KEY", "")

	router := gin.Default()
	router.Use(SecurityHeadersMiddleware())
	router.Use(RequestLoggingMiddleware(log))
	router.Use(RateLimitMiddleware(redisClient, 600, time.Minute, log))

	group := router.Group("/api/v1")
	if writeKey != "" {
		group.Use(AuthMiddleware(writeKey, readKey, log))
	} else {
		log.Warn("API_KEY not set; control plane is running without authentication")
	}

	server := NewServer(store)
	server.RegisterRoutes(group)

	router.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))

	log.Info("starting lanscan control plane", "addr", ":8080")
	return router.Run(":8080")
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

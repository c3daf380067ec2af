package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	v1 "github.com/flori92/FloService-sub000/cmd/api/router/v1"
	cacheadapter "github.com/flori92/FloService-sub000/internal/infrastructure/cache/adapter"
	cacheport "github.com/flori92/FloService-sub000/internal/infrastructure/cache/port"
	"github.com/flori92/FloService-sub000/internal/infrastructure/database"
	queueadapter "github.com/flori92/FloService-sub000/internal/infrastructure/queue/adapter"
	qport "github.com/flori92/FloService-sub000/internal/infrastructure/queue/port"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "messaging-api").Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not found or could not be loaded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	// Cache and queue are optional: without REDIS_URL the API still serves,
	// minus identity caching and the notification hook.
	var cache cacheport.Cache
	if rc, err := cacheadapter.NewRedisAdapter(); err != nil {
		log.Warn().Err(err).Msg("cache disabled")
	} else {
		cache = rc
		defer rc.Close()
	}

	var queue qport.Client
	if qc, err := queueadapter.NewAsynqClientFromEnv(); err != nil {
		log.Warn().Err(err).Msg("notification queue disabled")
	} else {
		queue = qc
		defer qc.Close()
	}

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, pool, cache, queue, log)

	// Start HTTP server (blocks until shutdown)
	if err := r.Run(); err != nil {
		log.Fatal().Err(err).Msg("http server exited")
	}
}

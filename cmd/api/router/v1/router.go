package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	cacheport "github.com/flori92/FloService-sub000/internal/infrastructure/cache/port"
	qport "github.com/flori92/FloService-sub000/internal/infrastructure/queue/port"
	httpHandler "github.com/flori92/FloService-sub000/internal/pkg/messaging/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, cache cacheport.Cache, queue qport.Client, log zerolog.Logger) {
	v1 := r.Group("/api/v1")
	// Pass the DB pool, cache and queue client down to the HTTP layer
	httpHandler.RegisterRoutes(v1, pool, cache, queue, log)
}

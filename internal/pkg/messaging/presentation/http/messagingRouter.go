package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	cacheport "github.com/flori92/FloService-sub000/internal/infrastructure/cache/port"
	qport "github.com/flori92/FloService-sub000/internal/infrastructure/queue/port"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/presentation/controller"
)

// RegisterRoutes registers messaging HTTP endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes. cache and queue may be nil; the controllers degrade gracefully.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, cache cacheport.Cache, queue qport.Client, log zerolog.Logger) {
	actionCtl := controller.NewMessagingActionController(pool, cache, queue, log)
	getMsgCtl := controller.NewGetMessagesController(pool)
	listConvCtl := controller.NewListConversationsController(pool)
	unreadCtl := controller.NewUnreadCountController(pool)
	markConvCtl := controller.NewMarkConversationReadController(pool, cache)

	// POST /messaging -> action facade (get-or-create-conversation,
	// send-message, mark-message-as-read)
	g.POST("/messaging", actionCtl.Handle())

	// GET /conversations -> a user's conversations with unread counts
	g.GET("/conversations", listConvCtl.Handle())

	// GET /conversations/:conversationId/messages -> paginated messages
	g.GET("/conversations/:conversationId/messages", getMsgCtl.Handle())

	// GET /conversations/:conversationId/unread -> message count for a user
	g.GET("/conversations/:conversationId/unread", unreadCtl.Handle())

	// POST /conversations/:conversationId/read -> bulk mark-as-read
	g.POST("/conversations/:conversationId/read", markConvCtl.Handle())
}

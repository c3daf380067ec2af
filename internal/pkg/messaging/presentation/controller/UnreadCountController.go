package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/application/usecase"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// UnreadCountController counts messages addressed to a user in a
// conversation. ?unread_only=true restricts to unread ones; the count is
// always aggregated from the message rows themselves. Read endpoints take
// canonical ids only; identity mappings are created by the write path.
type UnreadCountController struct {
	UC *usecase.CountMessagesUseCase
}

func NewUnreadCountController(pool *pgxpool.Pool) *UnreadCountController {
	return &UnreadCountController{
		UC: usecase.NewCountMessagesUseCase(adapter.NewPgMessagingRepository(pool)),
	}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, err := uuid.Parse(c.Param("conversationId"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: conversationId is not a valid id", messaging.ErrInvalid))
			return
		}
		userID, err := uuid.Parse(c.Query("user_id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: user_id is not a valid id", messaging.ErrInvalid))
			return
		}
		unreadOnly := c.DefaultQuery("unread_only", "true") == "true"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := h.UC.Execute(ctx, usecase.CountMessagesInput{
			ConversationID: conversationID,
			UserID:         userID,
			UnreadOnly:     unreadOnly,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"count": count, "unread_only": unreadOnly})
	}
}

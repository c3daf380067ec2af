package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "github.com/flori92/FloService-sub000/internal/infrastructure/cache/port"
	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/application/usecase"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// MarkConversationReadController marks every unread message addressed to
// the user in a conversation as read and reports how many were flipped.
type MarkConversationReadController struct {
	Normalize *usecase.NormalizeIdentityUseCase
	UC        *usecase.MarkConversationReadUseCase
}

func NewMarkConversationReadController(pool *pgxpool.Pool, cache cacheport.Cache) *MarkConversationReadController {
	repo := adapter.NewPgMessagingRepository(pool)
	return &MarkConversationReadController{
		Normalize: usecase.NewNormalizeIdentityUseCase(repo, cache),
		UC:        usecase.NewMarkConversationReadUseCase(repo),
	}
}

type markConversationReadRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *MarkConversationReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, err := uuid.Parse(c.Param("conversationId"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: conversationId is not a valid id", messaging.ErrInvalid))
			return
		}

		var req markConversationReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		userID, err := h.Normalize.Execute(ctx, usecase.NormalizeIdentityInput{ExternalID: req.UserID})
		if err != nil {
			respondError(c, err)
			return
		}

		count, err := h.UC.Execute(ctx, usecase.MarkConversationReadInput{
			ConversationID: conversationID,
			UserID:         userID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"changed_count": count})
	}
}

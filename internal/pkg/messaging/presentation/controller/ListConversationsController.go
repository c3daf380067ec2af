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

// ListConversationsController handles listing a user's conversations with
// their unread counts, newest activity first. Read endpoints take canonical
// ids only; identity mappings are created by the write path.
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool) *ListConversationsController {
	return &ListConversationsController{
		UC: usecase.NewListConversationsUseCase(adapter.NewPgMessagingRepository(pool)),
	}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.Query("user_id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: user_id is not a valid id", messaging.ErrInvalid))
			return
		}
		limit, offset := paginationParams(c, 20)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		convs, err := h.UC.Execute(ctx, usecase.ListConversationsInput{
			UserID: userID,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]gin.H, 0, len(convs))
		for _, conv := range convs {
			out = append(out, gin.H{
				"id":               conv.ID,
				"participant_low":  conv.ParticipantLow,
				"participant_high": conv.ParticipantHi,
				"last_message":     conv.LastMessage,
				"last_message_at":  conv.LastMessageAt,
				"created_at":       conv.CreatedAt,
				"updated_at":       conv.UpdatedAt,
				"unread_count":     conv.UnreadCount,
			})
		}
		respondData(c, http.StatusOK, gin.H{
			"conversations": out,
			"limit":         limit,
			"offset":        offset,
			"count":         len(out),
		})
	}
}

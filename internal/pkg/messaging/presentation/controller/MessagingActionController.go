package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	cacheport "github.com/flori92/FloService-sub000/internal/infrastructure/cache/port"
	qport "github.com/flori92/FloService-sub000/internal/infrastructure/queue/port"
	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/application/task"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/application/usecase"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// Facade action names.
const (
	ActionGetOrCreateConversation = "get-or-create-conversation"
	ActionSendMessage             = "send-message"
	ActionMarkMessageAsRead       = "mark-message-as-read"
)

// MessagingActionController handles the action-style messaging endpoint:
// one POST carrying an "action" discriminator plus that action's fields.
// This mirrors the facade shape the marketplace clients already speak.
type MessagingActionController struct {
	Normalize   *usecase.NormalizeIdentityUseCase
	GetOrCreate *usecase.GetOrCreateConversationUseCase
	Send        *usecase.SendMessageUseCase
	MarkRead    *usecase.MarkMessageReadUseCase

	Queue qport.Client // optional; nil disables the notification hook
	Log   zerolog.Logger
}

func NewMessagingActionController(pool *pgxpool.Pool, cache cacheport.Cache, queue qport.Client, log zerolog.Logger) *MessagingActionController {
	repo := adapter.NewPgMessagingRepository(pool)
	normalize := usecase.NewNormalizeIdentityUseCase(repo, cache)
	return &MessagingActionController{
		Normalize:   normalize,
		GetOrCreate: usecase.NewGetOrCreateConversationUseCase(repo, normalize),
		Send:        usecase.NewSendMessageUseCase(repo),
		MarkRead:    usecase.NewMarkMessageReadUseCase(repo),
		Queue:       queue,
		Log:         log,
	}
}

// messagingActionRequest is the DTO for the action endpoint. Identity fields
// accept raw external identifiers; conversation and message ids must be
// canonical.
type messagingActionRequest struct {
	Action string `json:"action" binding:"required"`

	// get-or-create-conversation
	ParticipantA string `json:"participant_a"`
	ParticipantB string `json:"participant_b"`

	// send-message
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Content        string `json:"content"`

	// mark-message-as-read
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
}

// Handle returns a gin handler dispatching the three facade actions.
func (h *MessagingActionController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req messagingActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		switch req.Action {
		case ActionGetOrCreateConversation:
			h.getOrCreateConversation(ctx, c, req)
		case ActionSendMessage:
			h.sendMessage(ctx, c, req)
		case ActionMarkMessageAsRead:
			h.markMessageAsRead(ctx, c, req)
		default:
			respondError(c, fmt.Errorf("%w: unknown action %q", messaging.ErrInvalid, req.Action))
		}
	}
}

func (h *MessagingActionController) getOrCreateConversation(ctx context.Context, c *gin.Context, req messagingActionRequest) {
	conv, err := h.GetOrCreate.Execute(ctx, usecase.GetOrCreateConversationInput{
		ParticipantA: req.ParticipantA,
		ParticipantB: req.ParticipantB,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"conversation_id":  conv.ID,
		"participant_low":  conv.ParticipantLow,
		"participant_high": conv.ParticipantHi,
		"created_at":       conv.CreatedAt,
	})
}

func (h *MessagingActionController) sendMessage(ctx context.Context, c *gin.Context, req messagingActionRequest) {
	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		respondError(c, fmt.Errorf("%w: conversation_id is not a valid id", messaging.ErrInvalid))
		return
	}
	senderID, err := h.Normalize.Execute(ctx, usecase.NormalizeIdentityInput{ExternalID: req.SenderID})
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.Send.Execute(ctx, usecase.SendMessageInput{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if h.Queue != nil {
		if _, err := task.EnqueueNotifyMessage(ctx, h.Queue, msg); err != nil {
			h.Log.Warn().Err(err).Str("message_id", msg.ID.String()).Msg("notify enqueue failed")
		}
	}

	respondData(c, http.StatusCreated, gin.H{
		"message_id":      msg.ID,
		"conversation_id": msg.ConversationID,
		"sender_id":       msg.SenderID,
		"recipient_id":    msg.RecipientID,
		"content":         msg.Content,
		"read":            msg.Read,
		"created_at":      msg.CreatedAt,
	})
}

func (h *MessagingActionController) markMessageAsRead(ctx context.Context, c *gin.Context, req messagingActionRequest) {
	messageID, err := uuid.Parse(req.MessageID)
	if err != nil {
		respondError(c, fmt.Errorf("%w: message_id is not a valid id", messaging.ErrInvalid))
		return
	}
	userID, err := h.Normalize.Execute(ctx, usecase.NormalizeIdentityInput{ExternalID: req.UserID})
	if err != nil {
		respondError(c, err)
		return
	}

	changed, err := h.MarkRead.Execute(ctx, usecase.MarkMessageReadInput{MessageID: messageID, UserID: userID})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"changed": changed})
}

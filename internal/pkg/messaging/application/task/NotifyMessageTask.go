package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	qport "github.com/flori92/FloService-sub000/internal/infrastructure/queue/port"
	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
)

// NotifyMessageTaskType is the queue task name for the new-message
// notification hook. Delivery mechanics (push, mail, whatever) live behind
// the Notifier port; this package only transports the event.
const NotifyMessageTaskType = "messaging:notify"

// NotifyQueue is the logical queue notification tasks are routed to.
const NotifyQueue = "messaging"

// NotifyMessagePayload is the JSON payload transported via the queue.
type NotifyMessagePayload struct {
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	RecipientID    string    `json:"recipientId"`
	Preview        string    `json:"preview"`
	SentAt         time.Time `json:"sentAt"`
}

// Notifier is the external collaborator receiving new-message events.
type Notifier interface {
	NotifyNewMessage(ctx context.Context, p NotifyMessagePayload) error
}

// LogNotifier is the default Notifier: it records the event and nothing
// else. Real delivery adapters replace it at worker wiring time.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) NotifyNewMessage(ctx context.Context, p NotifyMessagePayload) error {
	n.Log.Info().
		Str("message_id", p.MessageID).
		Str("conversation_id", p.ConversationID).
		Str("recipient_id", p.RecipientID).
		Msg("new message notification")
	return nil
}

// EnqueueNotifyMessage queues a notification for m. Best-effort by
// contract: callers log a failed enqueue and move on, a missed
// notification must never fail the send that produced it.
func EnqueueNotifyMessage(ctx context.Context, client qport.Client, m messaging.Message) (string, error) {
	payload := NotifyMessagePayload{
		MessageID:      m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		RecipientID:    m.RecipientID.String(),
		Preview:        m.Preview(),
		SentAt:         m.CreatedAt,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return client.Enqueue(ctx, qport.Task{Type: NotifyMessageTaskType, Payload: b},
		qport.EnqueueOption{Queue: NotifyQueue, MaxRetry: 10, Retention: 24 * time.Hour})
}

// RegisterNotifyMessageTask binds the task handler to the worker server.
func RegisterNotifyMessageTask(srv qport.Server, notifier Notifier) {
	srv.Register(NotifyMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyMessagePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying cannot fix it
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return notifier.NotifyNewMessage(ctx, p)
	})
}

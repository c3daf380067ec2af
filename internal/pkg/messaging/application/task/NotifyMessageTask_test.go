package task

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	qport "github.com/flori92/FloService-sub000/internal/infrastructure/queue/port"
	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
)

// fakeQueue captures enqueued tasks and registered handlers.
type fakeQueue struct {
	tasks    []qport.Task
	opts     []qport.EnqueueOption
	handlers map[string]qport.Handler
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{handlers: make(map[string]qport.Handler)}
}

func (f *fakeQueue) Enqueue(ctx context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	f.tasks = append(f.tasks, t)
	if len(opts) > 0 {
		f.opts = append(f.opts, opts[0])
	}
	return "task-1", nil
}

func (f *fakeQueue) Close() error { return nil }

func (f *fakeQueue) Register(taskType string, h qport.Handler) {
	f.handlers[taskType] = h
}

func (f *fakeQueue) Run(ctx context.Context) error  { return nil }
func (f *fakeQueue) Stop(ctx context.Context) error { return nil }

func testMessage(t *testing.T) messaging.Message {
	t.Helper()
	conv, err := messaging.NewConversation(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("NewConversation failed: %v", err)
	}
	msg, err := messaging.NewMessage(conv, conv.ParticipantLow, "a new booking request")
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	return msg
}

func TestEnqueueNotifyMessage(t *testing.T) {
	q := newFakeQueue()
	msg := testMessage(t)

	id, err := EnqueueNotifyMessage(context.Background(), q, msg)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if id == "" {
		t.Error("expected a task id")
	}
	if len(q.tasks) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(q.tasks))
	}
	if q.tasks[0].Type != NotifyMessageTaskType {
		t.Errorf("task type = %q, want %q", q.tasks[0].Type, NotifyMessageTaskType)
	}
	if q.opts[0].Queue != NotifyQueue {
		t.Errorf("queue = %q, want %q", q.opts[0].Queue, NotifyQueue)
	}

	var p NotifyMessagePayload
	if err := json.Unmarshal(q.tasks[0].Payload, &p); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if p.MessageID != msg.ID.String() || p.RecipientID != msg.RecipientID.String() {
		t.Errorf("payload ids do not match message: %+v", p)
	}
	if p.Preview != msg.Preview() {
		t.Errorf("preview = %q, want %q", p.Preview, msg.Preview())
	}
}

func TestRegisterNotifyMessageTaskDispatches(t *testing.T) {
	q := newFakeQueue()

	var received []NotifyMessagePayload
	notifier := notifierFunc(func(ctx context.Context, p NotifyMessagePayload) error {
		received = append(received, p)
		return nil
	})
	RegisterNotifyMessageTask(q, notifier)

	h, ok := q.handlers[NotifyMessageTaskType]
	if !ok {
		t.Fatal("handler not registered")
	}

	msg := testMessage(t)
	if _, err := EnqueueNotifyMessage(context.Background(), q, msg); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := h(context.Background(), q.tasks[0]); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(received) != 1 || received[0].MessageID != msg.ID.String() {
		t.Errorf("notifier did not receive the payload: %+v", received)
	}

	// Malformed payload is an error (no silent drop).
	if err := h(context.Background(), qport.Task{Type: NotifyMessageTaskType, Payload: []byte("{")}); err == nil {
		t.Error("malformed payload must fail")
	}
}

func TestLogNotifier(t *testing.T) {
	n := LogNotifier{Log: zerolog.Nop()}
	if err := n.NotifyNewMessage(context.Background(), NotifyMessagePayload{MessageID: "m"}); err != nil {
		t.Errorf("log notifier should never fail: %v", err)
	}
}

// notifierFunc adapts a function to the Notifier interface.
type notifierFunc func(ctx context.Context, p NotifyMessagePayload) error

func (f notifierFunc) NotifyNewMessage(ctx context.Context, p NotifyMessagePayload) error {
	return f(ctx, p)
}

package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	cacheport "github.com/flori92/FloService-sub000/internal/infrastructure/cache/port"
	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

// fakeRepo is an in-memory MessagingRepository. Its mutex makes every
// operation linearizable, which is exactly what the Postgres uniqueness
// constraints give the real adapter. Conflict counters let tests force the
// lost-race path that ON CONFLICT would otherwise absorb.
type fakeRepo struct {
	mu            sync.Mutex
	identities    map[string]uuid.UUID
	conversations map[uuid.UUID]messaging.Conversation
	byPair        map[[2]uuid.UUID]uuid.UUID
	messages      map[uuid.UUID]messaging.Message

	conflictIdentity     int // CreateIdentity fails with ErrConflict this many times
	conflictConversation int // same for CreateConversation
	failWith             error

	findIdentityCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		identities:    make(map[string]uuid.UUID),
		conversations: make(map[uuid.UUID]messaging.Conversation),
		byPair:        make(map[[2]uuid.UUID]uuid.UUID),
		messages:      make(map[uuid.UUID]messaging.Message),
	}
}

var _ repository.MessagingRepository = (*fakeRepo)(nil)

func (f *fakeRepo) FindIdentity(ctx context.Context, externalID string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findIdentityCalls++
	if f.failWith != nil {
		return uuid.Nil, f.failWith
	}
	id, ok := f.identities[externalID]
	if !ok {
		return uuid.Nil, messaging.ErrNotFound
	}
	return id, nil
}

func (f *fakeRepo) CreateIdentity(ctx context.Context, m messaging.IdentityMapping) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return uuid.Nil, false, f.failWith
	}
	if f.conflictIdentity > 0 {
		f.conflictIdentity--
		return uuid.Nil, false, messaging.ErrConflict
	}
	if existing, ok := f.identities[m.ExternalID]; ok {
		return existing, false, nil
	}
	f.identities[m.ExternalID] = m.InternalID
	return m.InternalID, true, nil
}

func (f *fakeRepo) FindConversationByPair(ctx context.Context, low, high uuid.UUID) (messaging.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return messaging.Conversation{}, f.failWith
	}
	id, ok := f.byPair[[2]uuid.UUID{low, high}]
	if !ok {
		return messaging.Conversation{}, messaging.ErrNotFound
	}
	return f.conversations[id], nil
}

func (f *fakeRepo) CreateConversation(ctx context.Context, c messaging.Conversation) (messaging.Conversation, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return messaging.Conversation{}, false, f.failWith
	}
	if f.conflictConversation > 0 {
		f.conflictConversation--
		return messaging.Conversation{}, false, messaging.ErrConflict
	}
	key := [2]uuid.UUID{c.ParticipantLow, c.ParticipantHi}
	if existing, ok := f.byPair[key]; ok {
		return f.conversations[existing], false, nil
	}
	f.conversations[c.ID] = c
	f.byPair[key] = c.ID
	return c, true, nil
}

func (f *fakeRepo) GetConversation(ctx context.Context, id uuid.UUID) (messaging.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return messaging.Conversation{}, f.failWith
	}
	c, ok := f.conversations[id]
	if !ok {
		return messaging.Conversation{}, messaging.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) AppendMessage(ctx context.Context, m messaging.Message, preview string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	c, ok := f.conversations[m.ConversationID]
	if !ok {
		return messaging.ErrConversationMissing
	}
	f.messages[m.ID] = m
	p := preview
	at := m.CreatedAt
	c.LastMessage = &p
	c.LastMessageAt = &at
	c.UpdatedAt = at
	f.conversations[c.ID] = c
	return nil
}

func (f *fakeRepo) GetMessage(ctx context.Context, id uuid.UUID) (messaging.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return messaging.Message{}, f.failWith
	}
	m, ok := f.messages[id]
	if !ok {
		return messaging.Message{}, messaging.ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) MarkMessageRead(ctx context.Context, messageID, recipientID uuid.UUID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	m, ok := f.messages[messageID]
	if !ok || m.RecipientID != recipientID || m.Read {
		return false, nil
	}
	m.Read = true
	m.ReadAt = &at
	f.messages[messageID] = m
	return true, nil
}

func (f *fakeRepo) MarkConversationRead(ctx context.Context, conversationID, recipientID uuid.UUID, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return 0, f.failWith
	}
	var n int64
	for id, m := range f.messages {
		if m.ConversationID == conversationID && m.RecipientID == recipientID && !m.Read {
			m.Read = true
			m.ReadAt = &at
			f.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountMessages(ctx context.Context, conversationID, recipientID uuid.UUID, unreadOnly bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return 0, f.failWith
	}
	var n int64
	for _, m := range f.messages {
		if m.ConversationID != conversationID || m.RecipientID != recipientID {
			continue
		}
		if unreadOnly && m.Read {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeRepo) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]messaging.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var msgs []messaging.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			msgs = append(msgs, m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
		}
		return msgs[i].ID.String() > msgs[j].ID.String()
	})
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(msgs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(msgs) {
		end = len(msgs)
	}
	return msgs[offset:end], nil
}

func (f *fakeRepo) ListUserConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]messaging.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []messaging.ConversationSummary
	for _, c := range f.conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		var unread int64
		for _, m := range f.messages {
			if m.ConversationID == c.ID && m.RecipientID == userID && !m.Read {
				unread++
			}
		}
		out = append(out, messaging.ConversationSummary{Conversation: c, UnreadCount: unread})
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].LastMessageAt, out[j].LastMessageAt
		switch {
		case ti == nil && tj == nil:
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

// fakeCache is a map-backed cacheport.Cache for normalizer tests.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

var _ cacheport.Cache = (*fakeCache)(nil)

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }
func (f *fakeCache) Close() error                   { return nil }

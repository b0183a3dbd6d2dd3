package conversationRepo

import (
	"context"
	"sync"
	"time"

	"voyago/models"

	"github.com/google/uuid"
)

// inMemoryConversationRepo is a map-backed ConversationRepository used for
// tests and for running without a MongoDB instance.
type inMemoryConversationRepo struct {
	mu    sync.RWMutex
	convs map[string]*models.Conversation
}

// NewInMemoryConversationRepo returns a ConversationRepository backed by a map.
func NewInMemoryConversationRepo() ConversationRepository {
	return &inMemoryConversationRepo{
		convs: make(map[string]*models.Conversation),
	}
}

func (r *inMemoryConversationRepo) Create(ctx context.Context, conv models.Conversation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = time.Now()

	stored := conv
	r.convs[conv.ID] = &stored
	return conv.ID, nil
}

func (r *inMemoryConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneConversation(conv)
	return &out, nil
}

func (r *inMemoryConversationRepo) AppendTurns(ctx context.Context, id string, turns []models.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	for i := range turns {
		if turns[i].CreatedAt.IsZero() {
			turns[i].CreatedAt = now
		}
	}
	conv.Turns = append(conv.Turns, turns...)
	conv.UpdatedAt = now
	return nil
}

func (r *inMemoryConversationRepo) UpdateToolCall(ctx context.Context, id string, call models.ToolCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[id]
	if !ok {
		return ErrNotFound
	}
	tc := conv.FindToolCall(call.ID)
	if tc == nil {
		return ErrNotFound
	}
	tc.State = call.State
	tc.Result = call.Result
	conv.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryConversationRepo) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Conversation
	for _, conv := range r.convs {
		if conv.UserID == userID {
			out = append(out, cloneConversation(conv))
		}
	}
	return out, nil
}

func cloneConversation(conv *models.Conversation) models.Conversation {
	out := *conv
	out.Turns = make([]models.Turn, len(conv.Turns))
	copy(out.Turns, conv.Turns)
	for i := range out.Turns {
		if len(conv.Turns[i].ToolCalls) > 0 {
			out.Turns[i].ToolCalls = make([]models.ToolCall, len(conv.Turns[i].ToolCalls))
			copy(out.Turns[i].ToolCalls, conv.Turns[i].ToolCalls)
		}
	}
	return out
}

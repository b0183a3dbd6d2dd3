// File: voyago/services/assistant/interface.go
package assistant

import (
	"context"

	"voyago/database/repository/conversation"
	"voyago/models"

	"go.uber.org/zap"
)

// AssistantService runs travel-planning conversations. Chat returns a
// stream of events; callers that want a single response drain the channel.
type AssistantService interface {
	Chat(ctx context.Context, userID string, req models.ChatRequest) (<-chan models.StreamEvent, error)
	GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error)
}

// DefaultAssistantService orchestrates the model, the capability registry,
// the confirmation gate and conversation persistence.
type DefaultAssistantService struct {
	Model    ChatModel
	Registry *Registry
	Gate     *Gate
	Repo     conversationRepo.ConversationRepository
	Context  *TripContextStore // optional
	Logger   *zap.Logger

	// MaxToolRounds caps model/tool exchanges per user message.
	MaxToolRounds int
}

func NewDefaultAssistantService(
	model ChatModel,
	registry *Registry,
	repo conversationRepo.ConversationRepository,
	ctxStore *TripContextStore,
	logger *zap.Logger,
) *DefaultAssistantService {
	return &DefaultAssistantService{
		Model:         model,
		Registry:      registry,
		Gate:          &Gate{Registry: registry, Logger: logger},
		Repo:          repo,
		Context:       ctxStore,
		Logger:        logger,
		MaxToolRounds: 5,
	}
}

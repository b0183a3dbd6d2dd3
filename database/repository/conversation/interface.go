package conversationRepo

import (
	"context"

	"voyago/database"
	"voyago/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ConversationRepository is the injected persistence surface for conversation
// history. The orchestrator is the only writer; turns are appended, never
// rewritten, and only embedded tool call state/result fields are updated.
type ConversationRepository interface {
	Create(ctx context.Context, conv models.Conversation) (string, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	AppendTurns(ctx context.Context, id string, turns []models.Turn) error
	UpdateToolCall(ctx context.Context, id string, call models.ToolCall) error
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
}

type mongoConversationRepo struct {
	coll *mongo.Collection
}

// NewMongoConversationRepo returns a ConversationRepository backed by MongoDB.
func NewMongoConversationRepo() ConversationRepository {
	db := database.MongoClient.Database("voyago")
	return &mongoConversationRepo{
		coll: db.Collection("conversations"),
	}
}

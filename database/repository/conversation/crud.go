package conversationRepo

import (
	"context"
	"errors"
	"time"

	"voyago/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func arrayFilterForCall(callID string) *options.UpdateOptions {
	return options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"call.id": callID}},
	})
}

// Create inserts a new conversation and returns its ID.
func (r *mongoConversationRepo) Create(ctx context.Context, conv models.Conversation) (string, error) {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, conv)
	if err != nil {
		return "", err
	}
	return conv.ID, nil
}

// GetByID returns a conversation by its ID.
func (r *mongoConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// AppendTurns appends turns to a conversation. Existing turns are never rewritten.
func (r *mongoConversationRepo) AppendTurns(ctx context.Context, id string, turns []models.Turn) error {
	now := time.Now()
	for i := range turns {
		if turns[i].CreatedAt.IsZero() {
			turns[i].CreatedAt = now
		}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$push": bson.M{"turns": bson.M{"$each": turns}},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateToolCall records the state and result of an embedded tool call,
// addressed by its call ID.
func (r *mongoConversationRepo) UpdateToolCall(ctx context.Context, id string, call models.ToolCall) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "turns.toolCalls.id": call.ID},
		bson.M{
			"$set": bson.M{
				"turns.$[].toolCalls.$[call].state":  call.State,
				"turns.$[].toolCalls.$[call].result": call.Result,
				"updatedAt":                          time.Now(),
			},
		},
		arrayFilterForCall(call.ID),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser fetches all conversations belonging to a user, newest first.
func (r *mongoConversationRepo) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []models.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// ErrNotFound is returned when the addressed conversation or tool call does not exist.
var ErrNotFound = errors.New("conversation not found")

package notification

import (
	"context"
	"time"

	"voyago/database"
	"voyago/models"
	"voyago/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NotificationService records reminder deliveries for the frontend feed.
type NotificationService interface {
	SendTripReminder(ctx context.Context, payload models.ReminderPayload) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
}

// DefaultNotificationService persists notifications to Mongo and logs them.
// Device push channels can be layered on top without changing callers.
type DefaultNotificationService struct{}

func NewDefaultNotificationService() *DefaultNotificationService {
	return &DefaultNotificationService{}
}

func (s *DefaultNotificationService) SendTripReminder(ctx context.Context, p models.ReminderPayload) error {
	logger := utils.GetLogger()

	n := models.Notification{
		ID:        uuid.New().String(),
		UserID:    p.UserID,
		Type:      "trip_reminder",
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: time.Now().UTC(),
	}

	coll := database.MongoClient.Database("voyago").Collection("notifications")
	if _, err := coll.InsertOne(ctx, n); err != nil {
		logger.Error("failed to record trip reminder", zap.String("userId", p.UserID), zap.Error(err))
		return err
	}

	logger.Info("trip reminder delivered",
		zap.String("userId", p.UserID),
		zap.String("reminderId", p.ReminderID),
		zap.String("title", p.Title))
	return nil
}

func (s *DefaultNotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	coll := database.MongoClient.Database("voyago").Collection("notifications")
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50)
	cursor, err := coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Notification
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

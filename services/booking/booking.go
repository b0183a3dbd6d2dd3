package booking

import (
	"context"
	"fmt"
	"time"

	"voyago/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reminderLeadTime = 24 * time.Hour

// BookFlight records an approved flight reservation and schedules a departure
// reminder. Args carry the offer fields the assistant confirmed with the user.
func (s *DefaultBookingService) BookFlight(ctx context.Context, userID, conversationID string, args map[string]interface{}) (*models.BookingConfirmation, error) {
	airline, err := requiredString(args, "airline")
	if err != nil {
		return nil, err
	}
	price, _ := asPrice(args["price"])
	currency := stringOr(args, "currency", "USD")

	booking := models.Booking{
		ID:             uuid.New().String(),
		UserID:         userID,
		ConversationID: conversationID,
		Kind:           models.BookingKindFlight,
		Provider:       airline,
		Details:        args,
		TotalPrice:     price,
		Currency:       currency,
		Status:         "confirmed",
		CreatedAt:      time.Now().UTC(),
	}

	if _, err := s.Repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to record flight booking: %w", err)
	}

	s.scheduleReminder(ctx, booking, stringOr(args, "departure", ""),
		fmt.Sprintf("Flight to %s tomorrow", stringOr(args, "destination", "your destination")),
		fmt.Sprintf("Your %s flight departs tomorrow. Safe travels!", airline))

	s.logger().Info("flight booked",
		zap.String("bookingId", booking.ID),
		zap.String("userId", userID),
		zap.String("airline", airline))

	return confirmation(booking), nil
}

// BookHotel records an approved hotel reservation and schedules a check-in
// reminder.
func (s *DefaultBookingService) BookHotel(ctx context.Context, userID, conversationID string, args map[string]interface{}) (*models.BookingConfirmation, error) {
	hotel, err := requiredString(args, "hotelName")
	if err != nil {
		return nil, err
	}
	price, _ := asPrice(args["totalPrice"])
	currency := stringOr(args, "currency", "USD")

	booking := models.Booking{
		ID:             uuid.New().String(),
		UserID:         userID,
		ConversationID: conversationID,
		Kind:           models.BookingKindHotel,
		Provider:       hotel,
		Details:        args,
		TotalPrice:     price,
		Currency:       currency,
		Status:         "confirmed",
		CreatedAt:      time.Now().UTC(),
	}

	if _, err := s.Repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to record hotel booking: %w", err)
	}

	s.scheduleReminder(ctx, booking, stringOr(args, "checkIn", ""),
		fmt.Sprintf("Check-in at %s tomorrow", hotel),
		fmt.Sprintf("Your stay at %s starts tomorrow.", hotel))

	s.logger().Info("hotel booked",
		zap.String("bookingId", booking.ID),
		zap.String("userId", userID),
		zap.String("hotel", hotel))

	return confirmation(booking), nil
}

// ListBookings returns the user's reservations, newest first.
func (s *DefaultBookingService) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// scheduleReminder queues a reminder a day ahead of the trip date. A date that
// cannot be parsed, or one too close to fire, skips the reminder without
// failing the booking.
func (s *DefaultBookingService) scheduleReminder(ctx context.Context, booking models.Booking, when, title, body string) {
	if s.Scheduler == nil || when == "" {
		return
	}

	start, err := parseTripTime(when)
	if err != nil {
		s.logger().Debug("unparseable trip date, reminder skipped",
			zap.String("bookingId", booking.ID), zap.String("value", when))
		return
	}
	fireAt := start.Add(-reminderLeadTime)
	if fireAt.Before(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		ReminderID:     uuid.New().String(),
		UserID:         booking.UserID,
		ConversationID: booking.ConversationID,
		Title:          title,
		Body:           body,
		FireDate:       fireAt.UTC().Format(time.RFC3339),
	}
	if err := s.Scheduler.Schedule(ctx, payload, fireAt); err != nil {
		s.logger().Warn("failed to schedule trip reminder",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
}

func confirmation(b models.Booking) *models.BookingConfirmation {
	return &models.BookingConfirmation{
		BookingID: b.ID,
		Provider:  b.Provider,
		Details:   b.Details,
		CreatedAt: b.CreatedAt,
	}
}

func parseTripTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

func requiredString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("booking requires %q", key)
	}
	return v, nil
}

func stringOr(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func asPrice(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

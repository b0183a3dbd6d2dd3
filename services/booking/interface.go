package booking

import (
	"context"

	"voyago/database/repository/booking"
	"voyago/models"
	"voyago/services/tasks"

	"go.uber.org/zap"
)

// BookingService executes approved booking requests. It is only ever invoked
// through the confirmation gate, never directly by the model.
type BookingService interface {
	BookFlight(ctx context.Context, userID, conversationID string, args map[string]interface{}) (*models.BookingConfirmation, error)
	BookHotel(ctx context.Context, userID, conversationID string, args map[string]interface{}) (*models.BookingConfirmation, error)
	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
}

// DefaultBookingService records reservations and schedules pre-trip reminders.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Scheduler tasks.ReminderScheduler // optional
	Logger    *zap.Logger
}

func NewDefaultBookingService(repo bookingRepo.BookingRepository, scheduler tasks.ReminderScheduler, logger *zap.Logger) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:      repo,
		Scheduler: scheduler,
		Logger:    logger,
	}
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

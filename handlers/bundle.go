package handlers

import (
	"voyago/services/assistant"
	"voyago/services/booking"
	"voyago/services/notification"
	"voyago/services/travel"
)

// HandlerBundle aggregates the services the HTTP handlers depend on, so
// routes receive one wired object.
type HandlerBundle struct {
	Assistant     assistant.AssistantService
	Booking       booking.BookingService
	Travel        travel.TravelDataService
	Notifications notification.NotificationService
}

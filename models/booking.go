// File: voyago/models/booking.go
package models

import "time"

// Booking kinds.
const (
	BookingKindFlight = "flight"
	BookingKindHotel  = "hotel"
)

// Booking is a confirmed reservation record created by an approved booking
// tool call. Records are written once; only Status may change afterwards.
type Booking struct {
	ID             string                 `bson:"id" json:"id"`
	UserID         string                 `bson:"userId" json:"userId"`
	ConversationID string                 `bson:"conversationId,omitempty" json:"conversationId,omitempty"`
	Kind           string                 `bson:"kind" json:"kind"`         // "flight" or "hotel"
	Provider       string                 `bson:"provider" json:"provider"` // Airline or hotel name
	Details        map[string]interface{} `bson:"details" json:"details"`   // Offer fields as supplied at approval time
	TotalPrice     float64                `bson:"totalPrice" json:"totalPrice"`
	Currency       string                 `bson:"currency" json:"currency"`
	Status         string                 `bson:"status" json:"status"` // e.g. "confirmed"
	CreatedAt      time.Time              `bson:"createdAt" json:"createdAt"`
}

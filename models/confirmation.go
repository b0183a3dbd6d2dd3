// File: voyago/models/confirmation.go
package models

import "time"

// BookingConfirmation is the terminal result of an approved booking tool call.
// Created once, never mutated.
type BookingConfirmation struct {
	BookingID string                 `bson:"bookingId" json:"bookingId"` // Unique booking identifier
	Provider  string                 `bson:"provider" json:"provider"`   // Airline or hotel name
	Details   map[string]interface{} `bson:"details" json:"details"`     // Opaque provider payload
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}

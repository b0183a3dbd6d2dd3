// File: voyago/models/reminder.go
package models

// ReminderPayload is the task body queued for a scheduled trip reminder.
type ReminderPayload struct {
	ReminderID     string `json:"reminderId"`
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId,omitempty"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	FireDate       string `json:"fireDate"` // RFC3339
}

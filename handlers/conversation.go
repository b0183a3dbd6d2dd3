package handlers

import (
	"errors"
	"net/http"

	conversationRepo "voyago/database/repository/conversation"
	"voyago/middleware"
	"voyago/services/assistant"
	"voyago/utils"

	"github.com/gin-gonic/gin"
)

// GetConversationHandler returns a conversation with its full turn history.
func (hb *HandlerBundle) GetConversationHandler(c *gin.Context) {
	userID := middleware.AuthenticatedUser(c)
	id := c.Param("id")

	conv, err := hb.Assistant.GetConversation(c.Request.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, conversationRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "Conversation not found", id)
		case errors.Is(err, assistant.ErrNotOwner):
			utils.JSONError(c, http.StatusForbidden, "Forbidden", "conversation belongs to another user")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		}
		return
	}

	c.JSON(http.StatusOK, conv)
}

// ListBookingsHandler returns the user's confirmed reservations, newest first.
func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	userID := middleware.AuthenticatedUser(c)

	bookings, err := hb.Booking.ListBookings(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListNotificationsHandler returns the user's delivered reminders.
func (hb *HandlerBundle) ListNotificationsHandler(c *gin.Context) {
	userID := middleware.AuthenticatedUser(c)

	items, err := hb.Notifications.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

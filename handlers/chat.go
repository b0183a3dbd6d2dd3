package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	conversationRepo "voyago/database/repository/conversation"
	"voyago/middleware"
	"voyago/models"
	"voyago/services/assistant"
	"voyago/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler runs one assistant exchange. With stream=true the response is
// sent as SSE events terminated by a [DONE] sentinel; otherwise the event
// stream is collapsed into a single JSON reply.
func (hb *HandlerBundle) ChatHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid chat request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	userID := middleware.AuthenticatedUser(c)
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	events, err := hb.Assistant.Chat(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrEmptyRequest):
			utils.JSONError(c, http.StatusBadRequest, "Empty request", "send a message or a decision")
		case errors.Is(err, assistant.ErrNotOwner):
			utils.JSONError(c, http.StatusForbidden, "Forbidden", "conversation belongs to another user")
		case errors.Is(err, conversationRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "Conversation not found", req.ConversationID)
		default:
			logger.Error("Chat failed to start", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		}
		return
	}

	if req.Stream {
		hb.streamEvents(c, events)
		return
	}
	hb.collectEvents(c, events)
}

// streamEvents forwards each event as an SSE data chunk.
func (hb *HandlerBundle) streamEvents(c *gin.Context, events <-chan models.StreamEvent) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	w := c.Writer

	for ev := range events {
		// Check client disconnect.
		select {
		case <-c.Request.Context().Done():
			return
		default:
		}

		b, err := json.Marshal(ev)
		if err != nil {
			utils.GetLogger().Error("Failed to encode stream event", zap.Error(err))
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", b)
		w.Flush()
	}

	// Send [DONE] sentinel.
	fmt.Fprintf(w, "data: [DONE]\n\n")
	w.Flush()
}

// collectEvents drains the stream into a single ChatResponse. Tool calls are
// reported in their final state for this exchange.
func (hb *HandlerBundle) collectEvents(c *gin.Context, events <-chan models.StreamEvent) {
	var (
		reply   string
		convID  string
		order   []string
		calls   = map[string]models.ToolCall{}
		failure string
	)

	for ev := range events {
		switch ev.Type {
		case models.EventText:
			reply += ev.Delta
		case models.EventToolCall, models.EventToolResult, models.EventPendingConfirmation:
			if ev.ToolCall != nil {
				if _, seen := calls[ev.ToolCall.ID]; !seen {
					order = append(order, ev.ToolCall.ID)
				}
				calls[ev.ToolCall.ID] = *ev.ToolCall
			}
		case models.EventDone:
			convID = ev.ConversationID
		case models.EventError:
			failure = ev.Error
		}
	}

	if failure != "" {
		utils.JSONError(c, http.StatusBadGateway, "Assistant exchange failed", failure)
		return
	}

	resp := models.ChatResponse{
		ConversationID: convID,
		Reply:          reply,
	}
	for _, id := range order {
		resp.ToolCalls = append(resp.ToolCalls, calls[id])
	}

	c.JSON(http.StatusOK, resp)
}

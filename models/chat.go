// File: voyago/models/chat.go
package models

// ChatRequest is the payload coming from the frontend into /api/assistant/chat.
type ChatRequest struct {
	ConversationID string              `json:"conversation_id,omitempty"` // Empty starts a new conversation
	Message        string              `json:"message"`                   // User's message; may be empty when only decisions are sent
	Decisions      map[string]Decision `json:"decisions,omitempty"`       // Keyed by tool call ID
	Stream         bool                `json:"stream,omitempty"`
}

// ChatResponse is the non-streaming reply returned to the frontend.
type ChatResponse struct {
	ConversationID string     `json:"conversation_id"`
	Reply          string     `json:"reply"`
	ToolCalls      []ToolCall `json:"tool_calls,omitempty"` // Calls raised during this exchange, including pending ones
}

// StreamEventType enumerates the incremental events of one exchange.
type StreamEventType string

const (
	EventText                StreamEventType = "text"
	EventToolCall            StreamEventType = "tool_call"
	EventToolResult          StreamEventType = "tool_result"
	EventPendingConfirmation StreamEventType = "pending_confirmation"
	EventDone                StreamEventType = "done"
	EventError               StreamEventType = "error"
)

// StreamEvent is one incremental output item of a chat exchange.
type StreamEvent struct {
	Type           StreamEventType `json:"type"`
	Delta          string          `json:"delta,omitempty"` // Text content for EventText
	ToolCall       *ToolCall       `json:"tool_call,omitempty"`
	ConversationID string          `json:"conversation_id,omitempty"` // Set on EventDone
	Error          string          `json:"error,omitempty"`           // Set on EventError
}

// File: voyago/models/conversation.go
package models

import "time"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Turn is a single conversation entry: role, content and zero or more embedded
// tool calls. Turns are append-only; only tool call state/result fields are
// updated in place by the confirmation gate.
type Turn struct {
	Role      string     `bson:"role" json:"role"`
	Content   string     `bson:"content" json:"content"`
	ToolCalls []ToolCall `bson:"toolCalls,omitempty" json:"toolCalls,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
}

// Conversation is the append-only exchange history owned by the orchestrator.
type Conversation struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Turns     []Turn    `bson:"turns" json:"turns"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PendingToolCalls returns pointers to every tool call that has no recorded
// result yet, in conversation order.
func (c *Conversation) PendingToolCalls() []*ToolCall {
	var pending []*ToolCall
	for ti := range c.Turns {
		for ci := range c.Turns[ti].ToolCalls {
			tc := &c.Turns[ti].ToolCalls[ci]
			if !tc.HasResult() {
				pending = append(pending, tc)
			}
		}
	}
	return pending
}

// FindToolCall locates a tool call by ID across all turns.
func (c *Conversation) FindToolCall(id string) *ToolCall {
	for ti := range c.Turns {
		for ci := range c.Turns[ti].ToolCalls {
			if c.Turns[ti].ToolCalls[ci].ID == id {
				return &c.Turns[ti].ToolCalls[ci]
			}
		}
	}
	return nil
}

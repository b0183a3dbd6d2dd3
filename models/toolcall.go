// File: voyago/models/toolcall.go
package models

// ToolCallState tracks the lifecycle of a requested capability invocation.
type ToolCallState string

const (
	ToolCallRequested ToolCallState = "requested"
	ToolCallApproved  ToolCallState = "approved"
	ToolCallRejected  ToolCallState = "rejected"
	ToolCallCompleted ToolCallState = "completed"
)

// ToolCall is a single capability invocation requested by the model.
// Gated calls stay in the requested state until an explicit decision arrives;
// their side-effecting operation runs at most once.
type ToolCall struct {
	ID     string                 `bson:"id" json:"id"`
	Name   string                 `bson:"name" json:"name"`
	Args   map[string]interface{} `bson:"args" json:"args"`
	State  ToolCallState          `bson:"state" json:"state"`
	Result map[string]interface{} `bson:"result,omitempty" json:"result,omitempty"`
}

// HasResult reports whether a result has already been recorded for the call.
func (tc *ToolCall) HasResult() bool {
	return tc.Result != nil
}

// Decision is an external human verdict on a gated tool call.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

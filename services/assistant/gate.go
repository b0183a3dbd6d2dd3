// File: voyago/services/assistant/gate.go
package assistant

import (
	"context"

	"voyago/models"

	"go.uber.org/zap"
)

// DeniedMessage is the fixed cancellation result recorded for rejected calls.
const DeniedMessage = "User denied the booking request."

// Gate reconciles the tool calls already present in a conversation with a
// caller-supplied table of decisions keyed by call identifier. A gated call's
// side effect runs at most once, and only after an explicit approval for that
// call's identifier has been observed.
type Gate struct {
	Registry *Registry
	Logger   *zap.Logger
}

func NewGate(registry *Registry, logger *zap.Logger) *Gate {
	return &Gate{Registry: registry, Logger: logger}
}

// Reconcile walks every pending tool call in the conversation and applies the
// matching decision, if any. It mutates the conversation in place and returns
// the calls resolved during this pass. Re-running with the same inputs is
// idempotent: calls already carrying a recorded result are left untouched,
// decisions for unknown call identifiers are ignored, and auto-mode calls are
// never gated even when a decision names them.
func (g *Gate) Reconcile(ctx context.Context, conv *models.Conversation, decisions map[string]models.Decision) []models.ToolCall {
	if len(decisions) == 0 {
		return nil
	}

	var resolved []models.ToolCall

	for _, call := range conv.PendingToolCalls() {
		cap := g.Registry.Get(call.Name)
		if cap == nil || cap.Mode != ModeGated {
			continue
		}

		decision, ok := decisions[call.ID]
		if !ok {
			// No decision yet: the call stays pending. No execution, no error.
			continue
		}

		switch decision {
		case models.DecisionApproved:
			call.State = models.ToolCallApproved
			call.Result = g.execute(ctx, call)
			call.State = models.ToolCallCompleted
		case models.DecisionRejected:
			call.State = models.ToolCallRejected
			call.Result = map[string]interface{}{
				"status":  "denied",
				"message": DeniedMessage,
			}
		default:
			g.logger().Warn("ignoring unknown decision",
				zap.String("callId", call.ID), zap.String("decision", string(decision)))
			continue
		}

		resolved = append(resolved, *call)
	}

	return resolved
}

// execute runs the gated operation with the call's original arguments. A
// failing operation yields a structured error payload rather than aborting
// the turn.
func (g *Gate) execute(ctx context.Context, call *models.ToolCall) map[string]interface{} {
	args, err := g.Registry.ValidateArgs(call.Name, call.Args)
	if err != nil {
		return errorPayload(err)
	}

	fn := g.Registry.GatedExecutor(call.Name)
	if fn == nil {
		g.logger().Error("gated capability has no executor", zap.String("tool", call.Name))
		return errorPayload(&ValidationError{Tool: call.Name, Field: "-", Reason: "no executor registered"})
	}

	result, err := fn(ctx, args)
	if err != nil {
		g.logger().Warn("gated operation failed",
			zap.String("tool", call.Name), zap.String("callId", call.ID), zap.Error(err))
		return errorPayload(err)
	}
	return result
}

func (g *Gate) logger() *zap.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return zap.NewNop()
}

// errorPayload wraps a failure as a structured result so the conversation can
// continue.
func errorPayload(err error) map[string]interface{} {
	return map[string]interface{}{
		"status": "error",
		"error":  err.Error(),
	}
}

// File: voyago/services/assistant/orchestrator.go
package assistant

import (
	"context"
	"errors"
	"time"

	"voyago/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotOwner is returned when a conversation belongs to a different user.
var ErrNotOwner = errors.New("conversation does not belong to this user")

// ErrEmptyRequest is returned when a request has neither a message nor decisions.
var ErrEmptyRequest = errors.New("request carries no message and no decisions")

const defaultMaxToolRounds = 5

// Chat runs one exchange: it reconciles any pending gated calls against the
// supplied decisions, forwards the message to the model, executes auto tools
// inline and surfaces gated ones for confirmation. Events stream on the
// returned channel, which is closed after EventDone or EventError.
func (s *DefaultAssistantService) Chat(ctx context.Context, userID string, req models.ChatRequest) (<-chan models.StreamEvent, error) {
	if req.Message == "" && len(req.Decisions) == 0 {
		return nil, ErrEmptyRequest
	}

	conv, err := s.resolveConversation(ctx, userID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	events := make(chan models.StreamEvent, 16)
	go s.run(ctx, conv, req, events)
	return events, nil
}

// GetConversation fetches a conversation after checking ownership.
func (s *DefaultAssistantService) GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	conv, err := s.Repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrNotOwner
	}
	return conv, nil
}

func (s *DefaultAssistantService) resolveConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	if conversationID == "" {
		now := time.Now().UTC()
		conv := models.Conversation{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.Repo.Create(ctx, conv); err != nil {
			return nil, err
		}
		return &conv, nil
	}

	conv, err := s.Repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrNotOwner
	}
	return conv, nil
}

// run drives the model/tool loop for one exchange and closes events when done.
func (s *DefaultAssistantService) run(ctx context.Context, conv *models.Conversation, req models.ChatRequest, events chan<- models.StreamEvent) {
	defer close(events)

	ctx = withExchange(ctx, conv)

	emit := func(ev models.StreamEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// Settle pending gated calls first so their outcomes reach both the
	// client and the model in the same exchange.
	resolved := s.Gate.Reconcile(ctx, conv, req.Decisions)
	exclude := make(map[string]bool, len(resolved))
	var liveParts []genai.Part
	for i := range resolved {
		call := resolved[i]
		if err := s.Repo.UpdateToolCall(ctx, conv.ID, call); err != nil {
			s.logger().Error("persisting tool call result failed",
				zap.String("conversationId", conv.ID), zap.String("callId", call.ID), zap.Error(err))
			emit(models.StreamEvent{Type: models.EventError, Error: "failed to record tool result"})
			return
		}
		exclude[call.ID] = true
		liveParts = append(liveParts, genai.FunctionResponse{Name: call.Name, Response: call.Result})
		if !emit(models.StreamEvent{Type: models.EventToolResult, ToolCall: &call}) {
			return
		}
	}

	// History is built before the new user turn is appended; the message
	// itself travels as a live part.
	history := buildHistory(conv, exclude)

	if req.Message != "" {
		// A fresh conversation gets the remembered trip details up front.
		if s.Context != nil && len(conv.Turns) == 0 {
			if tc, err := s.Context.Get(ctx, conv.UserID); err == nil && !tc.IsZero() {
				liveParts = append(liveParts, genai.Text(tripContextNote(tc)))
			}
		}

		userTurn := models.Turn{Role: models.RoleUser, Content: req.Message, CreatedAt: time.Now().UTC()}
		if err := s.Repo.AppendTurns(ctx, conv.ID, []models.Turn{userTurn}); err != nil {
			s.logger().Error("appending user turn failed", zap.String("conversationId", conv.ID), zap.Error(err))
			emit(models.StreamEvent{Type: models.EventError, Error: "failed to save message"})
			return
		}
		conv.Turns = append(conv.Turns, userTurn)
		liveParts = append(liveParts, genai.Text(req.Message))
	}

	session := s.Model.StartChat(history)
	maxRounds := s.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxToolRounds
	}

	parts := liveParts
	for round := 0; round < maxRounds; round++ {
		turn, err := session.Send(ctx, func(delta string) {
			emit(models.StreamEvent{Type: models.EventText, Delta: delta})
		}, parts...)
		if err != nil {
			s.logger().Error("model call failed", zap.String("conversationId", conv.ID), zap.Error(err))
			emit(models.StreamEvent{Type: models.EventError, Error: "the assistant is unavailable right now"})
			return
		}

		assistantTurn := models.Turn{
			Role:      models.RoleAssistant,
			Content:   turn.Text,
			CreatedAt: time.Now().UTC(),
		}

		var (
			responses []genai.Part
			pending   bool
		)
		for _, fc := range turn.Calls {
			call := models.ToolCall{
				ID:    uuid.New().String(),
				Name:  fc.Name,
				Args:  fc.Args,
				State: models.ToolCallRequested,
			}

			cap := s.Registry.Get(call.Name)
			switch {
			case cap == nil:
				call.Result = errorPayload(errors.New("unknown tool: " + call.Name))
				call.State = models.ToolCallCompleted
			case cap.Mode == ModeGated:
				pending = true
			default:
				call.Result = s.runAuto(ctx, cap, &call)
				call.State = models.ToolCallCompleted
			}

			assistantTurn.ToolCalls = append(assistantTurn.ToolCalls, call)

			if !emit(models.StreamEvent{Type: models.EventToolCall, ToolCall: &call}) {
				return
			}
			if call.HasResult() {
				responses = append(responses, genai.FunctionResponse{Name: call.Name, Response: call.Result})
				if !emit(models.StreamEvent{Type: models.EventToolResult, ToolCall: &call}) {
					return
				}
			} else {
				if !emit(models.StreamEvent{Type: models.EventPendingConfirmation, ToolCall: &call}) {
					return
				}
			}
		}

		if err := s.Repo.AppendTurns(ctx, conv.ID, []models.Turn{assistantTurn}); err != nil {
			s.logger().Error("appending assistant turn failed", zap.String("conversationId", conv.ID), zap.Error(err))
			emit(models.StreamEvent{Type: models.EventError, Error: "failed to save reply"})
			return
		}
		conv.Turns = append(conv.Turns, assistantTurn)

		// Gated calls hold the exchange until the user decides; auto results
		// feed the next round.
		if pending || len(responses) == 0 {
			emit(models.StreamEvent{Type: models.EventDone, ConversationID: conv.ID})
			return
		}
		parts = responses
	}

	s.logger().Warn("tool round ceiling reached", zap.String("conversationId", conv.ID), zap.Int("rounds", maxRounds))
	emit(models.StreamEvent{Type: models.EventError, Error: "too many tool calls for one message"})
}

// runAuto validates and executes an auto-mode capability, folding failures
// into a structured payload so the conversation can continue.
func (s *DefaultAssistantService) runAuto(ctx context.Context, cap *Capability, call *models.ToolCall) map[string]interface{} {
	args, err := s.Registry.ValidateArgs(call.Name, call.Args)
	if err != nil {
		return errorPayload(err)
	}
	if cap.Execute == nil {
		s.logger().Error("auto capability has no implementation", zap.String("tool", call.Name))
		return errorPayload(errors.New("tool not available: " + call.Name))
	}

	s.rememberTrip(ctx, call.Name, args)

	result, err := cap.Execute(ctx, args)
	if err != nil {
		s.logger().Warn("auto tool failed", zap.String("tool", call.Name), zap.Error(err))
		return errorPayload(err)
	}
	return result
}

// rememberTrip caches key search parameters so later prompts can reuse them.
func (s *DefaultAssistantService) rememberTrip(ctx context.Context, tool string, args map[string]interface{}) {
	if s.Context == nil || tool != "searchFlights" {
		return
	}

	tc := &TripContext{}
	if v, ok := args["origin"].(string); ok {
		tc.Origin = v
	}
	if v, ok := args["destination"].(string); ok {
		tc.Destination = v
	}
	if v, ok := args["date"].(string); ok {
		tc.DepartDate = v
	}
	if v, ok := args["returnDate"].(string); ok {
		tc.ReturnDate = v
	}
	if f, ok := asFloat(args["travelers"]); ok {
		tc.Travelers = int(f)
	}
	if tc.IsZero() {
		return
	}
	// Keyed by conversation owner; failures only lose a convenience.
	if err := s.Context.Set(ctx, s.contextKey(ctx), tc); err != nil {
		s.logger().Debug("trip context not saved", zap.Error(err))
	}
}

// Exchange identifiers ride on the context so tool executors can attribute
// their side effects without widening the ToolFunc signature.
type contextKey string

const (
	userIDKey         contextKey = "voyagoUserID"
	conversationIDKey contextKey = "voyagoConversationID"
)

func withExchange(ctx context.Context, conv *models.Conversation) context.Context {
	ctx = context.WithValue(ctx, userIDKey, conv.UserID)
	return context.WithValue(ctx, conversationIDKey, conv.ID)
}

// UserIDFromContext returns the requesting user of the current exchange.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// ConversationIDFromContext returns the conversation of the current exchange.
func ConversationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(conversationIDKey).(string); ok {
		return v
	}
	return ""
}

func (s *DefaultAssistantService) contextKey(ctx context.Context) string {
	if id := UserIDFromContext(ctx); id != "" {
		return id
	}
	return "anonymous"
}

func (s *DefaultAssistantService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

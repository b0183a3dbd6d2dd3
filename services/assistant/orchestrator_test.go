package assistant

import (
	"context"
	"errors"
	"testing"

	"voyago/database/repository/conversation"
	"voyago/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel replays a fixed sequence of model turns and records what the
// orchestrator sent.
type scriptedModel struct {
	turns   []*ModelTurn
	err     error
	history []*genai.Content
	sent    [][]genai.Part
}

func (m *scriptedModel) StartChat(history []*genai.Content) ChatSession {
	m.history = history
	return &scriptedSession{model: m}
}

type scriptedSession struct {
	model *scriptedModel
	next  int
}

func (s *scriptedSession) Send(ctx context.Context, onDelta func(string), parts ...genai.Part) (*ModelTurn, error) {
	s.model.sent = append(s.model.sent, parts)
	if s.model.err != nil {
		return nil, s.model.err
	}
	var turn *ModelTurn
	if s.next < len(s.model.turns) {
		turn = s.model.turns[s.next]
		s.next++
	} else {
		turn = &ModelTurn{Text: "done"}
	}
	if turn.Text != "" && onDelta != nil {
		onDelta(turn.Text)
	}
	return turn, nil
}

func newTestService(model ChatModel, registry *Registry) (*DefaultAssistantService, conversationRepo.ConversationRepository) {
	repo := conversationRepo.NewInMemoryConversationRepo()
	svc := NewDefaultAssistantService(model, registry, repo, nil, nil)
	return svc, repo
}

func collect(t *testing.T, events <-chan models.StreamEvent) []models.StreamEvent {
	t.Helper()
	var out []models.StreamEvent
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func eventsOfType(events []models.StreamEvent, typ models.StreamEventType) []models.StreamEvent {
	var out []models.StreamEvent
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestChatPlainTextReply(t *testing.T) {
	model := &scriptedModel{turns: []*ModelTurn{{Text: "Lisbon is lovely in May."}}}
	svc, repo := newTestService(model, NewRegistry())

	events, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{Message: "Where should I go in May?"})
	require.NoError(t, err)

	all := collect(t, events)
	texts := eventsOfType(all, models.EventText)
	require.NotEmpty(t, texts)
	assert.Equal(t, "Lisbon is lovely in May.", texts[0].Delta)

	done := eventsOfType(all, models.EventDone)
	require.Len(t, done, 1)
	require.NotEmpty(t, done[0].ConversationID)

	conv, err := repo.GetByID(context.Background(), done[0].ConversationID)
	require.NoError(t, err)
	require.Len(t, conv.Turns, 2)
	assert.Equal(t, models.RoleUser, conv.Turns[0].Role)
	assert.Equal(t, models.RoleAssistant, conv.Turns[1].Role)
	assert.Equal(t, "Lisbon is lovely in May.", conv.Turns[1].Content)
}

func TestChatAutoToolRound(t *testing.T) {
	registry := NewRegistry()
	var gotArgs map[string]interface{}
	registry.Register(&Capability{
		Name: "searchFlights",
		Mode: ModeAuto,
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			gotArgs = args
			return map[string]interface{}{"count": 2}, nil
		},
	})

	model := &scriptedModel{turns: []*ModelTurn{
		{Calls: []genai.FunctionCall{{Name: "searchFlights", Args: map[string]interface{}{"origin": "SFO", "destination": "LIS", "date": "2026-09-10"}}}},
		{Text: "I found 2 flights."},
	}}
	svc, repo := newTestService(model, registry)

	events, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{Message: "Flights to Lisbon"})
	require.NoError(t, err)
	all := collect(t, events)

	require.NotNil(t, gotArgs)
	assert.Equal(t, "SFO", gotArgs["origin"])

	toolCalls := eventsOfType(all, models.EventToolCall)
	require.Len(t, toolCalls, 1)
	results := eventsOfType(all, models.EventToolResult)
	require.Len(t, results, 1)
	assert.EqualValues(t, 2, results[0].ToolCall.Result["count"])

	// The tool result must be fed back to the model as a function response.
	require.Len(t, model.sent, 2)
	require.Len(t, model.sent[1], 1)
	fr, ok := model.sent[1][0].(genai.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "searchFlights", fr.Name)

	done := eventsOfType(all, models.EventDone)
	require.Len(t, done, 1)

	conv, err := repo.GetByID(context.Background(), done[0].ConversationID)
	require.NoError(t, err)
	require.Len(t, conv.Turns, 3) // user, assistant tool round, assistant reply
	require.Len(t, conv.Turns[1].ToolCalls, 1)
	assert.Equal(t, models.ToolCallCompleted, conv.Turns[1].ToolCalls[0].State)
}

func TestChatGatedCallStopsForConfirmation(t *testing.T) {
	registry := NewRegistry()
	executed := false
	registry.RegisterGated(&Capability{Name: "bookFlight"}, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		executed = true
		return map[string]interface{}{"status": "confirmed"}, nil
	})

	model := &scriptedModel{turns: []*ModelTurn{
		{Text: "Shall I book it?", Calls: []genai.FunctionCall{{Name: "bookFlight", Args: map[string]interface{}{"airline": "TAP", "price": 642.0}}}},
	}}
	svc, repo := newTestService(model, registry)

	events, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{Message: "Book the TAP flight"})
	require.NoError(t, err)
	all := collect(t, events)

	assert.False(t, executed, "gated tool must not run without approval")

	pending := eventsOfType(all, models.EventPendingConfirmation)
	require.Len(t, pending, 1)
	assert.Equal(t, "bookFlight", pending[0].ToolCall.Name)
	assert.Equal(t, models.ToolCallRequested, pending[0].ToolCall.State)

	// Only one model round: the exchange halts awaiting the decision.
	assert.Len(t, model.sent, 1)

	done := eventsOfType(all, models.EventDone)
	require.Len(t, done, 1)

	conv, err := repo.GetByID(context.Background(), done[0].ConversationID)
	require.NoError(t, err)
	calls := conv.PendingToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "bookFlight", calls[0].Name)
}

func TestChatApprovalResolvesPendingCall(t *testing.T) {
	registry := NewRegistry()
	executions := 0
	registry.RegisterGated(&Capability{Name: "bookFlight"}, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		executions++
		return map[string]interface{}{"status": "confirmed", "bookingId": "bk-7"}, nil
	})

	model := &scriptedModel{turns: []*ModelTurn{
		{Calls: []genai.FunctionCall{{Name: "bookFlight", Args: map[string]interface{}{"airline": "TAP"}}}},
	}}
	svc, repo := newTestService(model, registry)

	events, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{Message: "Book it"})
	require.NoError(t, err)
	all := collect(t, events)
	convID := eventsOfType(all, models.EventDone)[0].ConversationID

	conv, err := repo.GetByID(context.Background(), convID)
	require.NoError(t, err)
	callID := conv.PendingToolCalls()[0].ID

	// Second exchange carries only the decision.
	followUp := &scriptedModel{turns: []*ModelTurn{{Text: "Booked! Confirmation bk-7."}}}
	svc.Model = followUp

	events, err = svc.Chat(context.Background(), "user-1", models.ChatRequest{
		ConversationID: convID,
		Decisions:      map[string]models.Decision{callID: models.DecisionApproved},
	})
	require.NoError(t, err)
	all = collect(t, events)

	assert.Equal(t, 1, executions)

	results := eventsOfType(all, models.EventToolResult)
	require.Len(t, results, 1)
	assert.Equal(t, "confirmed", results[0].ToolCall.Result["status"])

	// The resolved result travels as a live function response, not history.
	require.Len(t, followUp.sent, 1)
	fr, ok := followUp.sent[0][0].(genai.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "bookFlight", fr.Name)

	// Persisted state reflects the completed call.
	conv, err = repo.GetByID(context.Background(), convID)
	require.NoError(t, err)
	assert.Empty(t, conv.PendingToolCalls())

	// Replaying the decision is a no-op.
	replay := &scriptedModel{turns: []*ModelTurn{{Text: "Already booked."}}}
	svc.Model = replay
	events, err = svc.Chat(context.Background(), "user-1", models.ChatRequest{
		ConversationID: convID,
		Message:        "thanks",
		Decisions:      map[string]models.Decision{callID: models.DecisionApproved},
	})
	require.NoError(t, err)
	collect(t, events)
	assert.Equal(t, 1, executions)
}

func TestChatRejectionRecordsDenial(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterGated(&Capability{Name: "bookFlight"}, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		t.Fatal("rejected call must never execute")
		return nil, nil
	})

	model := &scriptedModel{turns: []*ModelTurn{
		{Calls: []genai.FunctionCall{{Name: "bookFlight", Args: map[string]interface{}{"airline": "TAP"}}}},
	}}
	svc, repo := newTestService(model, registry)

	events, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{Message: "Book it"})
	require.NoError(t, err)
	all := collect(t, events)
	convID := eventsOfType(all, models.EventDone)[0].ConversationID

	conv, _ := repo.GetByID(context.Background(), convID)
	callID := conv.PendingToolCalls()[0].ID

	svc.Model = &scriptedModel{turns: []*ModelTurn{{Text: "No problem, I won't book it."}}}
	events, err = svc.Chat(context.Background(), "user-1", models.ChatRequest{
		ConversationID: convID,
		Decisions:      map[string]models.Decision{callID: models.DecisionRejected},
	})
	require.NoError(t, err)
	all = collect(t, events)

	results := eventsOfType(all, models.EventToolResult)
	require.Len(t, results, 1)
	assert.Equal(t, "denied", results[0].ToolCall.Result["status"])
	assert.Equal(t, DeniedMessage, results[0].ToolCall.Result["message"])

	conv, _ = repo.GetByID(context.Background(), convID)
	tc := conv.FindToolCall(callID)
	assert.Equal(t, models.ToolCallRejected, tc.State)
}

func TestChatUnknownToolGetsErrorPayload(t *testing.T) {
	model := &scriptedModel{turns: []*ModelTurn{
		{Calls: []genai.FunctionCall{{Name: "teleport", Args: map[string]interface{}{}}}},
		{Text: "Sorry, I can't do that."},
	}}
	svc, _ := newTestService(model, NewRegistry())

	events, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{Message: "Teleport me"})
	require.NoError(t, err)
	all := collect(t, events)

	results := eventsOfType(all, models.EventToolResult)
	require.Len(t, results, 1)
	assert.Equal(t, "error", results[0].ToolCall.Result["status"])
}

func TestChatModelFailureEmitsError(t *testing.T) {
	model := &scriptedModel{err: errors.New("quota exhausted")}
	svc, _ := newTestService(model, NewRegistry())

	events, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	all := collect(t, events)

	errs := eventsOfType(all, models.EventError)
	require.Len(t, errs, 1)
	assert.Empty(t, eventsOfType(all, models.EventDone))
}

func TestChatToolRoundCeiling(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&Capability{
		Name: "searchFlights",
		Mode: ModeAuto,
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"count": 0}, nil
		},
	})

	// A model that never stops asking for the same tool.
	turns := make([]*ModelTurn, 10)
	for i := range turns {
		turns[i] = &ModelTurn{Calls: []genai.FunctionCall{{Name: "searchFlights", Args: map[string]interface{}{}}}}
	}
	model := &scriptedModel{turns: turns}
	svc, _ := newTestService(model, registry)
	svc.MaxToolRounds = 3

	events, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{Message: "loop"})
	require.NoError(t, err)
	all := collect(t, events)

	assert.Len(t, model.sent, 3)
	errs := eventsOfType(all, models.EventError)
	require.Len(t, errs, 1)
}

func TestChatEmptyRequestRejected(t *testing.T) {
	svc, _ := newTestService(&scriptedModel{}, NewRegistry())
	_, err := svc.Chat(context.Background(), "user-1", models.ChatRequest{})
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestChatForeignConversationRejected(t *testing.T) {
	svc, repo := newTestService(&scriptedModel{turns: []*ModelTurn{{Text: "hi"}}}, NewRegistry())

	id, err := repo.Create(context.Background(), models.Conversation{UserID: "someone-else"})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), "user-1", models.ChatRequest{ConversationID: id, Message: "hi"})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.GetConversation(context.Background(), "user-1", id)
	assert.ErrorIs(t, err, ErrNotOwner)
}

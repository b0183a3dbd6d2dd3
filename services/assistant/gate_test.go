package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"voyago/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateFixture(t *testing.T, fn ToolFunc) (*Gate, *int) {
	t.Helper()
	calls := 0
	r := NewRegistry()
	r.RegisterGated(&Capability{Name: "bookFlight"}, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		calls++
		if fn != nil {
			return fn(ctx, args)
		}
		return map[string]interface{}{"status": "confirmed", "bookingId": "bk-1"}, nil
	})
	r.Register(&Capability{
		Name: "searchFlights",
		Mode: ModeAuto,
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			calls++
			return map[string]interface{}{"offers": []interface{}{}}, nil
		},
	})
	return NewGate(r, nil), &calls
}

func pendingConversation(callID, tool string) *models.Conversation {
	return &models.Conversation{
		ID:     "conv-1",
		UserID: "user-1",
		Turns: []models.Turn{
			{Role: models.RoleUser, Content: "book it", CreatedAt: time.Now()},
			{
				Role: models.RoleAssistant,
				ToolCalls: []models.ToolCall{
					{ID: callID, Name: tool, Args: map[string]interface{}{"airline": "TAP"}, State: models.ToolCallRequested},
				},
				CreatedAt: time.Now(),
			},
		},
	}
}

func TestReconcileNoDecisionsLeavesCallPending(t *testing.T) {
	gate, calls := gateFixture(t, nil)
	conv := pendingConversation("call-1", "bookFlight")

	resolved := gate.Reconcile(context.Background(), conv, nil)
	assert.Empty(t, resolved)
	assert.Zero(t, *calls)

	tc := conv.FindToolCall("call-1")
	assert.Equal(t, models.ToolCallRequested, tc.State)
	assert.False(t, tc.HasResult())
}

func TestReconcileApprovalExecutesExactlyOnce(t *testing.T) {
	gate, calls := gateFixture(t, nil)
	conv := pendingConversation("call-1", "bookFlight")
	decisions := map[string]models.Decision{"call-1": models.DecisionApproved}

	resolved := gate.Reconcile(context.Background(), conv, decisions)
	require.Len(t, resolved, 1)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, models.ToolCallCompleted, resolved[0].State)
	assert.Equal(t, "confirmed", resolved[0].Result["status"])

	// Replaying the same decisions must not run the booking again.
	resolved = gate.Reconcile(context.Background(), conv, decisions)
	assert.Empty(t, resolved)
	assert.Equal(t, 1, *calls)
}

func TestReconcileRejectionNeverExecutes(t *testing.T) {
	gate, calls := gateFixture(t, nil)
	conv := pendingConversation("call-1", "bookFlight")

	resolved := gate.Reconcile(context.Background(), conv, map[string]models.Decision{
		"call-1": models.DecisionRejected,
	})
	require.Len(t, resolved, 1)
	assert.Zero(t, *calls)
	assert.Equal(t, models.ToolCallRejected, resolved[0].State)
	assert.Equal(t, "denied", resolved[0].Result["status"])
	assert.Equal(t, DeniedMessage, resolved[0].Result["message"])
}

func TestReconcileIgnoresUnknownCallIDs(t *testing.T) {
	gate, calls := gateFixture(t, nil)
	conv := pendingConversation("call-1", "bookFlight")

	resolved := gate.Reconcile(context.Background(), conv, map[string]models.Decision{
		"no-such-call": models.DecisionApproved,
	})
	assert.Empty(t, resolved)
	assert.Zero(t, *calls)
	assert.False(t, conv.FindToolCall("call-1").HasResult())
}

func TestReconcileIgnoresUnknownDecisionValue(t *testing.T) {
	gate, calls := gateFixture(t, nil)
	conv := pendingConversation("call-1", "bookFlight")

	resolved := gate.Reconcile(context.Background(), conv, map[string]models.Decision{
		"call-1": models.Decision("maybe"),
	})
	assert.Empty(t, resolved)
	assert.Zero(t, *calls)
	assert.Equal(t, models.ToolCallRequested, conv.FindToolCall("call-1").State)
}

func TestReconcileSkipsAutoCalls(t *testing.T) {
	gate, calls := gateFixture(t, nil)
	conv := pendingConversation("call-1", "searchFlights")

	resolved := gate.Reconcile(context.Background(), conv, map[string]models.Decision{
		"call-1": models.DecisionApproved,
	})
	assert.Empty(t, resolved)
	assert.Zero(t, *calls)
}

func TestReconcileFailedExecutionYieldsErrorPayload(t *testing.T) {
	gate, calls := gateFixture(t, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		return nil, errors.New("payment declined")
	})
	conv := pendingConversation("call-1", "bookFlight")

	resolved := gate.Reconcile(context.Background(), conv, map[string]models.Decision{
		"call-1": models.DecisionApproved,
	})
	require.Len(t, resolved, 1)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, models.ToolCallCompleted, resolved[0].State)
	assert.Equal(t, "error", resolved[0].Result["status"])
	assert.Contains(t, resolved[0].Result["error"], "payment declined")

	// A recorded error payload still counts as resolved; no retry on replay.
	resolved = gate.Reconcile(context.Background(), conv, map[string]models.Decision{
		"call-1": models.DecisionApproved,
	})
	assert.Empty(t, resolved)
	assert.Equal(t, 1, *calls)
}

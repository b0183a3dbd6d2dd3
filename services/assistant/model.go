// File: voyago/services/assistant/model.go
package assistant

import (
	"context"

	"github.com/google/generative-ai-go/genai"
)

// ModelTurn is one model reply: the streamed text plus any function calls the
// model requested.
type ModelTurn struct {
	Text  string
	Calls []genai.FunctionCall
}

// ChatSession is a single model conversation with accumulated history.
type ChatSession interface {
	// Send delivers parts to the model and collects its reply. onDelta is
	// invoked for each incremental text chunk as it streams in.
	Send(ctx context.Context, onDelta func(string), parts ...genai.Part) (*ModelTurn, error)
}

// ChatModel abstracts the model provider so the orchestrator can be exercised
// with scripted sessions in tests.
type ChatModel interface {
	StartChat(history []*genai.Content) ChatSession
}

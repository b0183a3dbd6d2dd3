// File: voyago/services/assistant/gemini.go
package assistant

import (
	"context"
	"errors"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiModel is the production ChatModel backed by the Gemini API.
type GeminiModel struct {
	model *genai.GenerativeModel
}

// NewGeminiModel builds a Gemini-backed chat model with the assistant's
// system prompt and the registry's function declarations attached.
func NewGeminiModel(apiKey, modelName, systemPrompt string, decls []*genai.FunctionDeclaration) (*GeminiModel, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	if len(decls) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return &GeminiModel{model: model}, nil
}

func (g *GeminiModel) StartChat(history []*genai.Content) ChatSession {
	cs := g.model.StartChat()
	cs.History = history
	return &geminiSession{cs: cs}
}

type geminiSession struct {
	cs *genai.ChatSession
}

// Send streams one model reply, forwarding text deltas and collecting any
// requested function calls.
func (s *geminiSession) Send(ctx context.Context, onDelta func(string), parts ...genai.Part) (*ModelTurn, error) {
	iter := s.cs.SendMessageStream(ctx, parts...)

	turn := &ModelTurn{}
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gemini stream error: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			switch p := part.(type) {
			case genai.Text:
				turn.Text += string(p)
				if onDelta != nil {
					onDelta(string(p))
				}
			case genai.FunctionCall:
				turn.Calls = append(turn.Calls, p)
			}
		}
	}
	return turn, nil
}

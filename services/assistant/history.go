// File: voyago/services/assistant/history.go
package assistant

import (
	"voyago/models"

	"github.com/google/generative-ai-go/genai"
)

// pendingStatus is the placeholder response supplied for gated calls that are
// still awaiting a decision, so the replayed history stays balanced.
var pendingStatus = map[string]interface{}{
	"status": "awaiting user confirmation",
}

// buildHistory converts recorded turns into model contents. Calls listed in
// exclude had their results resolved during this exchange; their responses
// are sent as live message parts instead of history.
func buildHistory(conv *models.Conversation, exclude map[string]bool) []*genai.Content {
	var history []*genai.Content

	for _, turn := range conv.Turns {
		switch turn.Role {
		case models.RoleUser:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(turn.Content)},
			})

		case models.RoleAssistant:
			content := &genai.Content{Role: "model"}
			if turn.Content != "" {
				content.Parts = append(content.Parts, genai.Text(turn.Content))
			}
			for _, call := range turn.ToolCalls {
				content.Parts = append(content.Parts, genai.FunctionCall{
					Name: call.Name,
					Args: call.Args,
				})
			}
			if len(content.Parts) == 0 {
				continue
			}
			history = append(history, content)

			if responses := callResponses(turn.ToolCalls, exclude); len(responses) > 0 {
				history = append(history, &genai.Content{
					Role:  "function",
					Parts: responses,
				})
			}
		}
	}

	return history
}

func callResponses(calls []models.ToolCall, exclude map[string]bool) []genai.Part {
	var parts []genai.Part
	for _, call := range calls {
		if exclude[call.ID] {
			continue
		}
		response := call.Result
		if response == nil {
			response = pendingStatus
		}
		parts = append(parts, genai.FunctionResponse{
			Name:     call.Name,
			Response: response,
		})
	}
	return parts
}

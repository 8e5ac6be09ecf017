package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider interface for hosted LLM backends
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (string, error)
}

// toContent converts provider messages into langchaingo message parts.
func toContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		var msgType schema.ChatMessageType
		switch msg.Role {
		case "system":
			msgType = schema.ChatMessageTypeSystem
		case "assistant", "model":
			msgType = schema.ChatMessageTypeAI
		default:
			msgType = schema.ChatMessageTypeHuman
		}
		out[i] = llms.TextParts(msgType, msg.Content)
	}
	return out
}

package repository

import (
	"tradein-estimator/internal/model"

	"google.golang.org/genai"
)

// NormalizeChatHistory returns the messages a chat session may be seeded
// with: everything from the first user message on. A history without any
// user message is reduced to its last entry so the seed is never empty.
func NormalizeChatHistory(history []model.ChatMessage) []model.ChatMessage {
	if len(history) == 0 {
		return []model.ChatMessage{}
	}
	for i, msg := range history {
		if msg.Role == model.ChatRoleUser {
			out := make([]model.ChatMessage, len(history)-i)
			copy(out, history[i:])
			return out
		}
	}
	return []model.ChatMessage{history[len(history)-1]}
}

// SplitChatTurn separates the newest message, which is sent as the turn, from
// the normalized history that precedes it.
func SplitChatTurn(history []model.ChatMessage) ([]model.ChatMessage, model.ChatMessage, bool) {
	if len(history) == 0 {
		return nil, model.ChatMessage{}, false
	}
	last := len(history) - 1
	return NormalizeChatHistory(history[:last]), history[last], true
}

func toGenaiContents(history []model.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, genai.NewContentFromText(msg.Text, genai.Role(msg.Role)))
	}
	return contents
}

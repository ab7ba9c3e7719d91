package domain

import "time"

// ChatSender identifies who produced a chat message.
type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderAssistant ChatSender = "assistant"
)

// GroundingSource is a single web citation attached to an assistant
// response that used the search capability.
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GroundingMetadata carries the citations for a grounded response.
type GroundingMetadata struct {
	Sources []GroundingSource `json:"sources,omitempty"`
}

// ChatMessage is one entry in a user's conversation with the assistant.
// An assistant message stays in the loading state until its stream
// finishes or fails.
type ChatMessage struct {
	ID        string             `json:"id"`
	Text      string             `json:"text"`
	Sender    ChatSender         `json:"sender"`
	Timestamp time.Time          `json:"timestamp"`
	IsLoading bool               `json:"isLoading,omitempty"`
	Grounding *GroundingMetadata `json:"grounding,omitempty"`
}

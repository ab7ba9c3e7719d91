package chat

import (
	"sync"
	"time"

	"b2b-catalog/internal/domain"

	"github.com/google/uuid"
)

// MessageLog keeps each user's conversation history in memory. The log
// holds message records addressed by id; streaming buffers live in their
// own Accumulator and only their snapshots land here. History is not
// persisted: logout discards it, matching the original storefront.
type MessageLog struct {
	mu       sync.RWMutex
	messages map[string][]*domain.ChatMessage
}

// NewMessageLog creates an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{messages: make(map[string][]*domain.ChatMessage)}
}

// Append records a message and returns its id.
func (l *MessageLog) Append(userID string, sender domain.ChatSender, text string, loading bool) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
		IsLoading: loading,
	}
	l.messages[userID] = append(l.messages[userID], msg)
	return msg.ID
}

// SetText replaces a message's text while a stream is in flight.
func (l *MessageLog) SetText(userID, messageID, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if msg := l.find(userID, messageID); msg != nil {
		msg.Text = text
		msg.Timestamp = time.Now()
	}
}

// Finalize clears the loading flag and attaches grounding metadata.
func (l *MessageLog) Finalize(userID, messageID, text string, grounding *domain.GroundingMetadata) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if msg := l.find(userID, messageID); msg != nil {
		msg.Text = text
		msg.IsLoading = false
		msg.Grounding = grounding
		msg.Timestamp = time.Now()
	}
}

// Fail replaces the message with an error notice.
func (l *MessageLog) Fail(userID, messageID, notice string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if msg := l.find(userID, messageID); msg != nil {
		msg.Text = notice
		msg.IsLoading = false
		msg.Timestamp = time.Now()
	}
}

// Messages returns a copy of the user's conversation, oldest first.
func (l *MessageLog) Messages(userID string) []*domain.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.messages[userID]
	out := make([]*domain.ChatMessage, len(history))
	copy(out, history)
	return out
}

// Reset discards the user's conversation, for logout.
func (l *MessageLog) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.messages, userID)
}

// find must be called with the mutex held.
func (l *MessageLog) find(userID, messageID string) *domain.ChatMessage {
	for _, msg := range l.messages[userID] {
		if msg.ID == messageID {
			return msg
		}
	}
	return nil
}

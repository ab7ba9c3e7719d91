package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"b2b-catalog/internal/chat"
	"b2b-catalog/internal/domain"

	"go.uber.org/zap"
)

// StreamUpdate is one visible state of an in-flight assistant message:
// the accumulated text so far, and on the terminal update either the
// final flag with optional grounding or the failure.
type StreamUpdate struct {
	MessageID string                    `json:"messageId"`
	Text      string                    `json:"text"`
	Final     bool                      `json:"final"`
	Grounding *domain.GroundingMetadata `json:"grounding,omitempty"`
	Err       error                     `json:"-"`
}

// ChatService binds users to assistant sessions. One session per user;
// a stalled stream leaves its message loading and a new send simply
// starts a fresh accumulation buffer, matching the original storefront.
type ChatService interface {
	Open(ctx context.Context, user *domain.User) ([]*domain.ChatMessage, error)
	Send(ctx context.Context, user *domain.User, text string, onUpdate func(StreamUpdate)) error
	History(user *domain.User) []*domain.ChatMessage
	Close(userID string)
}

type chatService struct {
	bridge chat.Bridge
	log    *chat.MessageLog
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]chat.Session
}

// NewChatService creates a new instance of ChatService.
func NewChatService(bridge chat.Bridge, logger *zap.Logger) ChatService {
	return &chatService{
		bridge:   bridge,
		log:      chat.NewMessageLog(),
		logger:   logger,
		sessions: make(map[string]chat.Session),
	}
}

// Open ensures the user has a session and returns the conversation so
// far. A fresh session starts with the assistant greeting.
func (s *chatService) Open(ctx context.Context, user *domain.User) ([]*domain.ChatMessage, error) {
	if _, err := s.session(ctx, user); err != nil {
		return nil, err
	}
	return s.log.Messages(user.ID), nil
}

// Send pushes a message and applies the response stream to a single
// assistant message entry. A transport failure surfaces as that entry's
// terminal error text; the session stays usable for the next send.
func (s *chatService) Send(ctx context.Context, user *domain.User, text string, onUpdate func(StreamUpdate)) error {
	session, err := s.session(ctx, user)
	if err != nil {
		return err
	}

	s.log.Append(user.ID, domain.SenderUser, text, false)
	messageID := s.log.Append(user.ID, domain.SenderAssistant, "", true)

	chunks, err := session.Stream(ctx, text)
	if err != nil {
		notice := "Sorry, something went wrong: " + err.Error()
		s.log.Fail(user.ID, messageID, notice)
		onUpdate(StreamUpdate{MessageID: messageID, Text: notice, Final: true, Err: err})
		return nil
	}

	acc := chat.NewAccumulator()
	for chunk := range chunks {
		if chunk.Err != nil {
			acc.Fail(chunk.Err)
			notice := "Sorry, something went wrong: " + chunk.Err.Error()
			s.log.Fail(user.ID, messageID, notice)
			onUpdate(StreamUpdate{MessageID: messageID, Text: notice, Final: true, Err: chunk.Err})
			return nil
		}

		accumulated := acc.Append(chunk.Delta)
		if chunk.Final {
			acc.Finalize(chunk.Grounding)
			s.log.Finalize(user.ID, messageID, accumulated, chunk.Grounding)
			onUpdate(StreamUpdate{
				MessageID: messageID,
				Text:      accumulated,
				Final:     true,
				Grounding: chunk.Grounding,
			})
			return nil
		}

		s.log.SetText(user.ID, messageID, accumulated)
		onUpdate(StreamUpdate{MessageID: messageID, Text: accumulated})
	}

	// Channel closed without a terminal chunk; treat it as a failure so
	// the message does not hang loading forever on a well-behaved
	// bridge. (A bridge that never closes the channel still stalls; that
	// limitation is accepted.)
	err = fmt.Errorf("chat stream closed without a final chunk")
	acc.Fail(err)
	notice := "Sorry, something went wrong: " + err.Error()
	s.log.Fail(user.ID, messageID, notice)
	onUpdate(StreamUpdate{MessageID: messageID, Text: notice, Final: true, Err: err})
	return nil
}

// History returns the user's conversation so far.
func (s *chatService) History(user *domain.User) []*domain.ChatMessage {
	return s.log.Messages(user.ID)
}

// Close discards the user's session and conversation, for logout.
func (s *chatService) Close(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	s.log.Reset(userID)
}

func (s *chatService) session(ctx context.Context, user *domain.User) (chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[user.ID]; ok {
		return session, nil
	}

	session, err := s.bridge.NewSession(ctx, chat.SystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to start chat session: %w", err)
	}
	s.sessions[user.ID] = session

	greeting := fmt.Sprintf("Hello %s! Welcome to our B2B product catalog. How can I help you?", firstName(user.Name))
	s.log.Append(user.ID, domain.SenderAssistant, greeting, false)

	s.logger.Info("Chat session started", zap.String("user_id", user.ID))
	return session, nil
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

package service

import (
	"context"
	"errors"
	"testing"

	"b2b-catalog/internal/chat"
	"b2b-catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedBridge replays a fixed chunk sequence per Stream call.
type scriptedBridge struct {
	scripts  [][]chat.Chunk
	sessions int
}

func (b *scriptedBridge) NewSession(ctx context.Context, systemPrompt string) (chat.Session, error) {
	b.sessions++
	return &scriptedSession{bridge: b}, nil
}

type scriptedSession struct {
	bridge *scriptedBridge
	calls  int
}

func (s *scriptedSession) Stream(ctx context.Context, message string) (<-chan chat.Chunk, error) {
	if s.calls >= len(s.bridge.scripts) {
		return nil, errors.New("no script for this call")
	}
	script := s.bridge.scripts[s.calls]
	s.calls++

	out := make(chan chat.Chunk, len(script))
	for _, c := range script {
		out <- c
	}
	close(out)
	return out, nil
}

func newChatFixture(scripts ...[]chat.Chunk) (*scriptedBridge, ChatService) {
	bridge := &scriptedBridge{scripts: scripts}
	return bridge, NewChatService(bridge, zap.NewNop())
}

func chatUser() *domain.User {
	u := activeBuyer("buyer-chat", 0)
	u.Name = "Ayşe Yılmaz"
	return u
}

func TestChatOpenGreetsByFirstName(t *testing.T) {
	bridge, service := newChatFixture()
	user := chatUser()

	history, err := service.Open(context.Background(), user)
	require.NoError(t, err)

	require.Len(t, history, 1)
	assert.Equal(t, domain.SenderAssistant, history[0].Sender)
	assert.Contains(t, history[0].Text, "Hello Ayşe!")
	assert.Equal(t, 1, bridge.sessions)

	// A second open reuses the session and does not re-greet.
	history, err = service.Open(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, 1, bridge.sessions)
}

func TestChatSendAccumulatesDeltasUntilFinal(t *testing.T) {
	grounding := &domain.GroundingMetadata{Sources: []domain.GroundingSource{{Title: "Catalog", URI: "https://example.com"}}}
	_, service := newChatFixture([]chat.Chunk{
		{Delta: "We carry "},
		{Delta: "three server models."},
		{Final: true, Grounding: grounding},
	})
	user := chatUser()
	ctx := context.Background()

	_, err := service.Open(ctx, user)
	require.NoError(t, err)

	var updates []StreamUpdate
	err = service.Send(ctx, user, "What servers do you have?", func(u StreamUpdate) {
		updates = append(updates, u)
	})
	require.NoError(t, err)

	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.True(t, last.Final)
	assert.Equal(t, "We carry three server models.", last.Text)
	assert.Equal(t, grounding, last.Grounding)

	history := service.History(user)
	require.Len(t, history, 3, "greeting, question, answer")
	answer := history[2]
	assert.Equal(t, "We carry three server models.", answer.Text)
	assert.False(t, answer.IsLoading)
	assert.Equal(t, grounding, answer.Grounding)
}

func TestChatSendFailureBecomesTerminalMessage(t *testing.T) {
	_, service := newChatFixture(
		[]chat.Chunk{{Err: errors.New("upstream reset")}},
		[]chat.Chunk{{Delta: "Recovered."}, {Final: true}},
	)
	user := chatUser()
	ctx := context.Background()

	_, err := service.Open(ctx, user)
	require.NoError(t, err)

	var last StreamUpdate
	err = service.Send(ctx, user, "first try", func(u StreamUpdate) { last = u })
	require.NoError(t, err, "a stream failure is a chat message, not a call error")
	assert.True(t, last.Final)
	assert.Error(t, last.Err)
	assert.Contains(t, last.Text, "Sorry, something went wrong")

	// The session survives the failure.
	err = service.Send(ctx, user, "second try", func(u StreamUpdate) { last = u })
	require.NoError(t, err)
	assert.True(t, last.Final)
	assert.NoError(t, last.Err)
	assert.Equal(t, "Recovered.", last.Text)
}

func TestChatSendTreatsTruncatedStreamAsFailure(t *testing.T) {
	_, service := newChatFixture([]chat.Chunk{{Delta: "half an ans"}})
	user := chatUser()
	ctx := context.Background()

	_, err := service.Open(ctx, user)
	require.NoError(t, err)

	var last StreamUpdate
	err = service.Send(ctx, user, "hello", func(u StreamUpdate) { last = u })
	require.NoError(t, err)

	assert.True(t, last.Final)
	assert.Error(t, last.Err)

	history := service.History(user)
	answer := history[len(history)-1]
	assert.False(t, answer.IsLoading, "a truncated stream must not leave the message loading")
}

func TestChatCloseDropsSessionAndHistory(t *testing.T) {
	bridge, service := newChatFixture()
	user := chatUser()
	ctx := context.Background()

	_, err := service.Open(ctx, user)
	require.NoError(t, err)

	service.Close(user.ID)
	assert.Empty(t, service.History(user))

	// Reopening starts a fresh session with a fresh greeting.
	history, err := service.Open(ctx, user)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, 2, bridge.sessions)
}

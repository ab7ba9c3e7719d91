package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"b2b-catalog/internal/config"
	"b2b-catalog/internal/domain"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no chat endpoint is configured.
var ErrNotConfigured = errors.New("chat bridge is not configured")

// HTTPBridge talks to a hosted model over a line-delimited JSON
// streaming API. Each response line carries a delta, an optional
// grounding payload, and a final marker; the last line of a healthy
// stream has final=true.
type HTTPBridge struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPBridge creates a bridge from the chat configuration.
func NewHTTPBridge(cfg config.ChatConfig, logger *zap.Logger) *HTTPBridge {
	return &HTTPBridge{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		// No read timeout: streams stay open for the whole response.
		client: &http.Client{Timeout: 0},
		logger: logger,
	}
}

type createSessionRequest struct {
	Model        string   `json:"model"`
	SystemPrompt string   `json:"systemPrompt"`
	Tools        []string `json:"tools"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// NewSession registers a conversation with the provider, enabling the
// web-search tool.
func (b *HTTPBridge) NewSession(ctx context.Context, systemPrompt string) (Session, error) {
	if b.endpoint == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(createSessionRequest{
		Model:        b.model,
		SystemPrompt: systemPrompt,
		Tools:        []string{"web_search"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("chat session creation returned status %d", resp.StatusCode)
	}

	var created createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}

	return &httpSession{bridge: b, sessionID: created.SessionID}, nil
}

type httpSession struct {
	bridge    *HTTPBridge
	sessionID string
}

type streamRequest struct {
	Message string `json:"message"`
}

type streamLine struct {
	Delta     string `json:"delta"`
	Final     bool   `json:"final"`
	Grounding *struct {
		Sources []domain.GroundingSource `json:"sources"`
	} `json:"grounding"`
}

// Stream pushes a message and converts the provider's line stream into
// chunks. The returned channel is closed after the terminal chunk.
func (s *httpSession) Stream(ctx context.Context, message string) (<-chan Chunk, error) {
	body, err := json.Marshal(streamRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/v1/sessions/%s/messages", s.bridge.endpoint, s.sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")
	req.Header.Set("Authorization", "Bearer "+s.bridge.apiKey)

	resp, err := s.bridge.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send chat message: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("chat stream returned status %d", resp.StatusCode)
	}

	chunks := make(chan Chunk)
	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		start := time.Now()
		var grounding *domain.GroundingMetadata
		sawFinal := false

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var parsed streamLine
			if err := json.Unmarshal(line, &parsed); err != nil {
				chunks <- Chunk{Err: fmt.Errorf("malformed stream line: %w", err)}
				return
			}

			if parsed.Grounding != nil {
				grounding = &domain.GroundingMetadata{Sources: parsed.Grounding.Sources}
			}

			if parsed.Final {
				sawFinal = true
				chunks <- Chunk{Delta: parsed.Delta, Final: true, Grounding: grounding}
				break
			}
			chunks <- Chunk{Delta: parsed.Delta, Grounding: grounding}
		}

		if err := scanner.Err(); err != nil {
			chunks <- Chunk{Err: fmt.Errorf("chat stream failed: %w", err)}
			return
		}
		if !sawFinal {
			chunks <- Chunk{Err: errors.New("chat stream ended without a final chunk")}
			return
		}

		s.bridge.logger.Debug("Chat stream completed",
			zap.String("session_id", s.sessionID),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	return chunks, nil
}

// Package chat binds the storefront to a hosted conversational model
// with web-search grounding. The provider's wire protocol is treated as
// an opaque streaming capability behind the Bridge interface; the core
// only relies on a session handle, a way to push a message, and a chunk
// sequence ending in exactly one final marker or one error.
package chat

import (
	"context"

	"b2b-catalog/internal/domain"
)

// Chunk is one increment of a streamed assistant response. Exactly one
// chunk per stream is terminal: either Final is set or Err is non-nil.
type Chunk struct {
	Delta     string
	Final     bool
	Grounding *domain.GroundingMetadata
	Err       error
}

// Session is one conversation with the assistant. Streams from the same
// session share conversational context on the provider side.
type Session interface {
	// Stream sends a message and returns the response chunk sequence.
	// The channel is closed after the terminal chunk.
	Stream(ctx context.Context, message string) (<-chan Chunk, error)
}

// Bridge creates conversation sessions against the hosted model.
type Bridge interface {
	NewSession(ctx context.Context, systemPrompt string) (Session, error)
}

// SystemPrompt is the assistant persona used for every session.
const SystemPrompt = `You are a friendly and knowledgeable B2B product catalog assistant.
Your primary goal is to help users find products, answer questions about product specifications, pricing and stock, and navigate the catalog.
You may also make recommendations based on their needs.
Use your search capability when asked about current events or topics that need up-to-date information.
Always be professional, concise and helpful. Cite your sources when you search.`

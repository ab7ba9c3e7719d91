package chat

import (
	"strings"
	"sync"

	"b2b-catalog/internal/domain"
)

// Accumulator builds one streamed assistant response. Text grows
// strictly by appending deltas; the buffer reaches exactly one terminal
// state, either finalized with optional grounding metadata or failed
// with an error. Calls after the terminal state are ignored.
type Accumulator struct {
	mu        sync.Mutex
	text      strings.Builder
	grounding *domain.GroundingMetadata
	done      bool
	err       error
}

// NewAccumulator creates an empty accumulation buffer.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append adds a delta and returns the accumulated text so far.
func (a *Accumulator) Append(delta string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.done {
		a.text.WriteString(delta)
	}
	return a.text.String()
}

// Finalize marks the response complete and attaches the grounding
// metadata gathered during the stream.
func (a *Accumulator) Finalize(grounding *domain.GroundingMetadata) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return
	}
	a.done = true
	a.grounding = grounding
}

// Fail marks the response as failed.
func (a *Accumulator) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return
	}
	a.done = true
	a.err = err
}

// Text returns the accumulated text.
func (a *Accumulator) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text.String()
}

// Done reports whether the buffer reached a terminal state.
func (a *Accumulator) Done() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// Err returns the failure, if any.
func (a *Accumulator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Grounding returns the metadata attached at finalization.
func (a *Accumulator) Grounding() *domain.GroundingMetadata {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.grounding
}

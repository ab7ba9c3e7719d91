package chat

import (
	"errors"
	"testing"

	"b2b-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestProperty_AccumulatedTextIsConcatenationOfDeltas(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("accumulated text equals the joined deltas in order", prop.ForAll(
		func(deltas []string) bool {
			acc := NewAccumulator()

			expected := ""
			for _, delta := range deltas {
				expected += delta
				if acc.Append(delta) != expected {
					return false
				}
			}
			acc.Finalize(nil)
			return acc.Text() == expected
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAccumulatorFinalizeIsTerminal(t *testing.T) {
	acc := NewAccumulator()
	acc.Append("hello")

	grounding := &domain.GroundingMetadata{
		Sources: []domain.GroundingSource{{URI: "https://example.com", Title: "Example"}},
	}
	acc.Finalize(grounding)

	assert.True(t, acc.Done())
	assert.Equal(t, grounding, acc.Grounding())

	// Appends and a late failure after the terminal state are ignored.
	acc.Append(" world")
	acc.Fail(errors.New("too late"))

	assert.Equal(t, "hello", acc.Text())
	assert.NoError(t, acc.Err())
	assert.Equal(t, grounding, acc.Grounding())
}

func TestAccumulatorFailIsTerminal(t *testing.T) {
	acc := NewAccumulator()
	acc.Append("partial")

	failure := errors.New("transport failure")
	acc.Fail(failure)

	assert.True(t, acc.Done())
	assert.ErrorIs(t, acc.Err(), failure)

	// A late finalize must not clear the failure.
	acc.Finalize(nil)
	assert.ErrorIs(t, acc.Err(), failure)
	assert.Equal(t, "partial", acc.Text())
}

func TestMessageLogLifecycle(t *testing.T) {
	log := NewMessageLog()

	userMsg := log.Append("user-1", domain.SenderUser, "hello", false)
	aiMsg := log.Append("user-1", domain.SenderAssistant, "", true)

	log.SetText("user-1", aiMsg, "Hi")
	log.SetText("user-1", aiMsg, "Hi there")
	log.Finalize("user-1", aiMsg, "Hi there!", nil)

	history := log.Messages("user-1")
	assert.Len(t, history, 2)
	assert.Equal(t, userMsg, history[0].ID)
	assert.Equal(t, "Hi there!", history[1].Text)
	assert.False(t, history[1].IsLoading)

	// Histories are per user.
	assert.Empty(t, log.Messages("user-2"))

	log.Reset("user-1")
	assert.Empty(t, log.Messages("user-1"))
}

func TestMessageLogFailReplacesTextAndStopsLoading(t *testing.T) {
	log := NewMessageLog()
	id := log.Append("user-1", domain.SenderAssistant, "", true)

	log.Fail("user-1", id, "Sorry, something went wrong: transport failure")

	history := log.Messages("user-1")
	assert.Len(t, history, 1)
	assert.False(t, history[0].IsLoading)
	assert.Contains(t, history[0].Text, "transport failure")
}

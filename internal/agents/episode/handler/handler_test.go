package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatbot/internal/llm"
	"flatbot/internal/tools"
	"flatbot/pkg/models"
)

// scriptedInferencer replays a fixed sequence of thoughts, recording the
// prompt inputs it was handed.
type scriptedInferencer struct {
	thoughts []models.Thought
	err      error
	calls    []llm.PromptInput
}

func (s *scriptedInferencer) Infer(_ context.Context, in llm.PromptInput) (models.Thought, error) {
	s.calls = append(s.calls, in)
	if s.err != nil {
		return models.Thought{}, s.err
	}
	i := len(s.calls) - 1
	if i >= len(s.thoughts) {
		i = len(s.thoughts) - 1
	}
	return s.thoughts[i], nil
}

func utterance(text string) models.Utterance {
	return models.Utterance{Sender: "user1", Text: text}
}

func TestHandleFinalAnswerDirectly(t *testing.T) {
	inf := &scriptedInferencer{thoughts: []models.Thought{
		{Action: models.FinalAnswer, Input: "4. bitte schön."},
	}}
	h := New(inf, tools.NewRegistry(), 6)

	answer, err := h.Handle(context.Background(), utterance("what is 2+2?"))
	require.NoError(t, err)
	assert.Equal(t, "4. bitte schön.", answer)
	assert.Len(t, inf.calls, 1)
	assert.Equal(t, "[]", inf.calls[0].History)
}

func TestHandleToolCallFeedsObservationBack(t *testing.T) {
	inf := &scriptedInferencer{thoughts: []models.Thought{
		{Action: models.ToolCall, Tool: "calc", Input: "2 + 2 * 3", Reasoning: "math question"},
		{Action: models.FinalAnswer, Input: "8, natürlich"},
	}}
	h := New(inf, tools.NewRegistry(tools.NewCalculator()), 6)

	answer, err := h.Handle(context.Background(), utterance("what is 2 + 2 * 3?"))
	require.NoError(t, err)
	assert.Equal(t, "8, natürlich", answer)

	require.Len(t, inf.calls, 2)
	assert.Contains(t, inf.calls[1].History, `"tool":"calc"`)
	assert.Contains(t, inf.calls[1].History, `"observation":"8"`)
}

func TestHandleUnknownToolSelfCorrection(t *testing.T) {
	inf := &scriptedInferencer{thoughts: []models.Thought{
		{Action: models.ToolCall, Tool: "rocket_ship", Input: "moon"},
		{Action: models.FinalAnswer, Input: "no rocket, sorry"},
	}}
	h := New(inf, tools.NewRegistry(tools.NewCalculator()), 6)

	answer, err := h.Handle(context.Background(), utterance("fly me to the moon"))
	require.NoError(t, err)
	assert.Equal(t, "no rocket, sorry", answer)

	require.Len(t, inf.calls, 2)
	assert.Contains(t, inf.calls[1].History, string(models.UnknownTool))
}

func TestHandleStepBoundTerminates(t *testing.T) {
	// a model that tool-calls forever must not hang the episode
	inf := &scriptedInferencer{thoughts: []models.Thought{
		{Action: models.ToolCall, Tool: "calc", Input: "1 + 1"},
	}}
	h := New(inf, tools.NewRegistry(tools.NewCalculator()), 4)

	_, err := h.Handle(context.Background(), utterance("loop forever"))
	assert.ErrorIs(t, err, models.ErrReasoningTimeout)
	assert.Len(t, inf.calls, 4)
}

func TestHandleInferenceUnavailable(t *testing.T) {
	inf := &scriptedInferencer{err: models.ErrInferenceUnavailable}
	h := New(inf, tools.NewRegistry(), 6)

	_, err := h.Handle(context.Background(), utterance("anyone home?"))
	assert.ErrorIs(t, err, models.ErrInferenceUnavailable)
}

func TestHandleFailedToolDoesNotAbort(t *testing.T) {
	inf := &scriptedInferencer{thoughts: []models.Thought{
		{Action: models.ToolCall, Tool: "calc", Input: "2 +"},
		{Action: models.FinalAnswer, Input: "that was not a sum, genau"},
	}}
	h := New(inf, tools.NewRegistry(tools.NewCalculator()), 6)

	answer, err := h.Handle(context.Background(), utterance("calculate 2 +"))
	require.NoError(t, err)
	assert.Equal(t, "that was not a sum, genau", answer)
	assert.Contains(t, inf.calls[1].History, string(models.InvalidExpression))
}

package handler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"flatbot/internal/llm"
	"flatbot/internal/tools"
	"flatbot/pkg/logger"
	"flatbot/pkg/memory/buffer"
	"flatbot/pkg/models"
)

// Handler runs one ReAct episode: think with the inferencer, act through
// the tool registry, until a final answer or the step bound. Safe for
// concurrent use; all per-episode state lives on the stack.
type Handler struct {
	inferencer llm.Inferencer
	registry   *tools.Registry
	maxSteps   int
}

func New(inferencer llm.Inferencer, registry *tools.Registry, maxSteps int) *Handler {
	return &Handler{
		inferencer: inferencer,
		registry:   registry,
		maxSteps:   maxSteps,
	}
}

// Handle drives the utterance to a final answer. It returns
// ErrInferenceUnavailable when the LLM collaborator is gone, and
// ErrReasoningTimeout when the model never lands on a final answer; the
// caller owes the user a fallback reply in both cases. Tool failures are
// never surfaced here: they go back into the transcript so the model can
// self-correct.
func (h *Handler) Handle(ctx context.Context, utt models.Utterance) (string, error) {
	l := log.With().Str(logger.SenderField, utt.Sender).Logger()
	transcript := &buffer.Transcript{}
	ctx = tools.WithSender(ctx, utt.Sender)

	for step := 0; step < h.maxSteps; step++ {
		thought, err := h.inferencer.Infer(ctx, llm.PromptInput{
			Sender:  utt.Sender,
			Message: utt.Text,
			Tools:   h.registry.Describe(),
			History: transcript.Marshal(),
		})
		if err != nil {
			return "", fmt.Errorf("step %d: %w", step, err)
		}

		if thought.Action == models.FinalAnswer {
			l.Info().Int("steps", transcript.Len()).Msg("episode finished")
			return thought.Input, nil
		}

		res := h.registry.Invoke(ctx, thought.Tool, thought.Input)
		l.Info().
			Str(logger.ToolField, thought.Tool).
			Bool("succeeded", res.Succeeded).
			Msgf("step %d used a tool", step)

		transcript.Add(buffer.Step{
			Reasoning:   thought.Reasoning,
			Tool:        thought.Tool,
			Input:       thought.Input,
			Observation: observation(res),
		})
	}

	l.Warn().Msg("episode hit the step bound")
	return "", fmt.Errorf("gave up after %d steps: %w", h.maxSteps, models.ErrReasoningTimeout)
}

// observation renders a tool result for the transcript. Failures name
// their kind so the model knows what went wrong.
func observation(res models.ToolResult) string {
	if res.Succeeded {
		return res.Output
	}
	return fmt.Sprintf("%s error: %s", res.ErrorKind, res.Output)
}

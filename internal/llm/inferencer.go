package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	langChainPrompts "github.com/tmc/langchaingo/prompts"

	"flatbot/internal/config"
	"flatbot/pkg/data"
	"flatbot/pkg/models"
	"flatbot/pkg/prompts"
)

// PromptInput holds the variables of one reasoning-step prompt.
type PromptInput struct {
	Sender  string
	Message string
	Tools   string
	History string
}

// Inferencer is the LLM collaborator: one prompt in, one Thought out.
type Inferencer interface {
	Infer(ctx context.Context, in PromptInput) (models.Thought, error)
}

var reactPrompt = langChainPrompts.NewPromptTemplate(prompts.ReactTemplate, []string{"Sender", "Message", "Tools", "History"})

// ChainInferencer runs the ReAct prompt through a langchaingo LLM chain.
// Every call is bounded by a timeout and retried a fixed number of times;
// exhaustion surfaces ErrInferenceUnavailable to the episode.
type ChainInferencer struct {
	chain   chains.Chain
	timeout time.Duration
	retries int
}

func NewChainInferencer(cfg config.LLM) (*ChainInferencer, error) {
	llm, err := openai.New(openai.WithModel(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return &ChainInferencer{
		chain:   chains.NewLLMChain(llm, reactPrompt),
		timeout: cfg.Timeout,
		retries: cfg.Retries,
	}, nil
}

func (c *ChainInferencer) Infer(ctx context.Context, in PromptInput) (models.Thought, error) {
	inputs := map[string]any{
		"Sender":  in.Sender,
		"Message": in.Message,
		"Tools":   in.Tools,
		"History": in.History,
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		completion, err := chains.Call(callCtx, c.chain, inputs)
		cancel()
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("inference call failed")
			continue
		}

		text, ok := completion["text"].(string)
		if !ok {
			lastErr = errors.New("completion carries no text")
			continue
		}
		return DecodeThought(text), nil
	}

	return models.Thought{}, fmt.Errorf("%w: %v", models.ErrInferenceUnavailable, lastErr)
}

// DecodeThought turns a raw completion into a Thought. A completion
// without a decodable action object is the model answering in prose, so
// it becomes the final answer rather than a decoding failure.
func DecodeThought(completion string) models.Thought {
	if match, err := data.SanitizeAnswer(completion); err == nil {
		var thought models.Thought
		if err := json.Unmarshal([]byte(match), &thought); err == nil &&
			(thought.Action == models.FinalAnswer || thought.Action == models.ToolCall) {
			return thought
		}
	}
	return models.Thought{Action: models.FinalAnswer, Input: strings.TrimSpace(completion)}
}

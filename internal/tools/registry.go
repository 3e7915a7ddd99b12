package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"flatbot/pkg/logger"
	"flatbot/pkg/models"
)

// Tool is one capability the model may call during an episode.
// Invoke never returns an error: every failure is captured in the
// ToolResult so the model can adapt or apologize.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, input string) models.ToolResult
}

type Registry struct {
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Invoke routes to the named tool. An unknown name becomes an
// UnknownTool result fed back into the episode, not an abort, so the
// model can self-correct.
func (r *Registry) Invoke(ctx context.Context, name, input string) models.ToolResult {
	tool, ok := r.tools[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		log.Debug().Str(logger.ToolField, name).Msg("unknown tool requested")
		return models.Failure(name, models.UnknownTool,
			fmt.Sprintf("no tool named %q; available tools: %s", name, strings.Join(r.Names(), ", ")))
	}

	res := tool.Invoke(ctx, input)
	log.Debug().
		Str(logger.ToolField, tool.Name()).
		Bool("succeeded", res.Succeeded).
		Msg("tool invoked")
	return res
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe renders the tool list for prompt injection.
func (r *Registry) Describe() string {
	var b strings.Builder
	for _, name := range r.Names() {
		fmt.Fprintf(&b, "- %s: %s\n", name, r.tools[name].Description())
	}
	return strings.TrimRight(b.String(), "\n")
}

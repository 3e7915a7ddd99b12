package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flatbot/pkg/models"
)

// Searcher is the external search collaborator. It may block on the
// network; SearchTool bounds every call with a timeout.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Snippet, error)
}

type Snippet struct {
	Title string
	Body  string
}

type SearchTool struct {
	searcher Searcher
	timeout  time.Duration
}

func NewSearchTool(searcher Searcher, timeout time.Duration) *SearchTool {
	return &SearchTool{searcher: searcher, timeout: timeout}
}

func (s *SearchTool) Name() string { return "search" }

func (s *SearchTool) Description() string {
	return "search the web for current information; input is the query"
}

func (s *SearchTool) Invoke(ctx context.Context, input string) models.ToolResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snippets, err := s.searcher.Search(ctx, strings.TrimSpace(input))
	if err != nil {
		return models.Failure(s.Name(), models.SearchUnavailable, fmt.Sprintf("search failed: %v", err))
	}

	return models.Success(s.Name(), formatSnippets(snippets))
}

// formatSnippets deduplicates near-identical results and keeps the top 3.
func formatSnippets(snippets []Snippet) string {
	seen := make(map[string]bool)
	var lines []string
	for _, sn := range snippets {
		if sn.Body == "" {
			continue
		}
		sig := prefix(sn.Title, 20) + "|" + prefix(sn.Body, 20)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		lines = append(lines, fmt.Sprintf("- %s: %s", sn.Title, sn.Body))
		if len(lines) == 3 {
			break
		}
	}
	if len(lines) == 0 {
		return "no results found"
	}
	return strings.Join(lines, "\n")
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const duckDuckGoEndpoint = "https://api.duckduckgo.com/"

// DuckDuckGoSearcher queries the DuckDuckGo instant-answer API. It is the
// default Searcher; tests and other deployments inject their own.
type DuckDuckGoSearcher struct {
	endpoint string
	client   *http.Client
}

func NewDuckDuckGoSearcher(timeout time.Duration) *DuckDuckGoSearcher {
	return &DuckDuckGoSearcher{
		endpoint: duckDuckGoEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type instantAnswer struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

type relatedTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

func (d *DuckDuckGoSearcher) Search(ctx context.Context, query string) ([]Snippet, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var snippets []Snippet
	if answer.AbstractText != "" {
		snippets = append(snippets, Snippet{Title: answer.Heading, Body: answer.AbstractText})
	}
	for _, topic := range answer.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		title, body := splitTopic(topic.Text)
		snippets = append(snippets, Snippet{Title: title, Body: body})
	}
	return snippets, nil
}

// splitTopic separates DuckDuckGo's "Title - description" topic text.
func splitTopic(text string) (string, string) {
	if title, body, ok := strings.Cut(text, " - "); ok {
		return title, body
	}
	return text, text
}

package buffer

import "encoding/json"

// Transcript collects the think/act steps of a single reasoning episode.
// It lives only for one utterance and is marshalled into every follow-up
// prompt so the model sees what its tool calls produced.
type Transcript struct {
	Steps []Step `json:"steps"`
}

type Step struct {
	Reasoning   string `json:"reasoning,omitempty"`
	Tool        string `json:"tool"`
	Input       string `json:"input"`
	Observation string `json:"observation"`
}

func (t *Transcript) Add(s Step) {
	t.Steps = append(t.Steps, s)
}

func (t *Transcript) Len() int {
	return len(t.Steps)
}

// Marshal renders the steps for prompt injection. An empty transcript
// renders as an empty list so the template stays uniform.
func (t *Transcript) Marshal() string {
	if len(t.Steps) == 0 {
		return "[]"
	}
	res, err := json.Marshal(t.Steps)
	if err != nil {
		return "[]"
	}
	return string(res)
}

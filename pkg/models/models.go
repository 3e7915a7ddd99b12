package models

import (
	"time"
)

// Utterance is one inbound message from a flatmate. Created by the
// transport layer, consumed once by a reasoning episode.
type Utterance struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Action string

const (
	FinalAnswer Action = "final_answer"
	ToolCall    Action = "tool_call"
)

// Thought is one reasoning step produced by the model: either the final
// answer (Input holds the answer text) or a tool call (Tool + Input).
type Thought struct {
	Reasoning string `json:"reasoning"`
	Action    Action `json:"action"`
	Tool      string `json:"tool,omitempty"`
	Input     string `json:"input"`
}

type ErrorKind string

const (
	UnknownTool       ErrorKind = "unknown_tool"
	InvalidExpression ErrorKind = "invalid_expression"
	SearchUnavailable ErrorKind = "search_unavailable"
	UnknownDutyType   ErrorKind = "unknown_duty_type"
	InvalidDelay      ErrorKind = "invalid_delay"
)

// ToolResult is what a tool invocation produced. Tool failures are data
// fed back into the episode, never errors raised at the caller.
type ToolResult struct {
	Tool      string    `json:"tool"`
	Output    string    `json:"output"`
	Succeeded bool      `json:"succeeded"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}

func Success(tool, output string) ToolResult {
	return ToolResult{Tool: tool, Output: output, Succeeded: true}
}

func Failure(tool string, kind ErrorKind, output string) ToolResult {
	return ToolResult{Tool: tool, Output: output, Succeeded: false, ErrorKind: kind}
}

package extract

import (
	"context"
	"encoding/json"
	"time"
)

// AttemptRecord captures one failed attempt in full (spec.md §3
// "AttemptRecord"): the submitted candidate, the ordered validation errors,
// the raw textual output seen from the agent, and the elapsed time at which
// the attempt completed.
type AttemptRecord struct {
	Index            int             `json:"index"`
	Candidate        json.RawMessage `json:"candidate,omitempty"`
	ValidationErrors []string        `json:"validation_errors"`
	RawOutput        string          `json:"raw_output"`
	ElapsedAt        time.Duration   `json:"elapsed_at"`
}

// ExtractionMetrics is populated on both the success and failure paths
// (spec.md §3 "ExtractionMetrics"): total attempts, wall time, and a cheap
// token estimate for input and output.
type ExtractionMetrics struct {
	Attempts     int           `json:"attempts"`
	WallTime     time.Duration `json:"wall_time"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
}

// AgentFunc invokes whatever path the caller wants (direct CLI, CLI+MCP,
// etc.) to drive one attempt with the given prompt, returning the agent's
// raw textual output (spec.md §4.E "Contract": "agent_fn is a caller-supplied
// function of String -> Future<Result<String, String>>"). The orchestrator
// is adapter-agnostic: it never imports pkg/adapter or pkg/supervisor
// directly.
type AgentFunc func(ctx context.Context, prompt string) (string, error)

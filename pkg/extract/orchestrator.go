// Package extract implements the bounded-retry extraction orchestrator
// (spec.md §4.E): it drives a caller-supplied AgentFunc, parses and
// validates whatever the agent claims to have submitted, and on failure
// feeds structured feedback into the next attempt. It is adapter-agnostic —
// it never imports pkg/supervisor or pkg/adapter directly, only
// pkg/toolkit's compiled Schema type.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/extractcli/extractcli/internal/obslog"
	"github.com/extractcli/extractcli/pkg/constants"
	"github.com/extractcli/extractcli/pkg/toolkit"
)

var log = obslog.New("extract")

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxAttempts overrides the default of 3 (spec.md §4.E "Configuration").
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) { o.maxAttempts = n }
}

// WithIncludeSchemaInFeedback toggles whether the schema is re-sent on
// every failed attempt; default true.
func WithIncludeSchemaInFeedback(include bool) Option {
	return func(o *Orchestrator) { o.includeSchemaInFeedback = include }
}

// WithContinuation toggles continuation mode (append feedback to the
// evolving prompt) versus fresh-prompt mode (re-assemble a self-contained
// prompt each attempt); default true (continuation).
func WithContinuation(useContinuation bool) Option {
	return func(o *Orchestrator) { o.useContinuation = useContinuation }
}

// Orchestrator drives one bounded-retry extraction at a time; it holds no
// per-extraction state between calls to Extract (spec.md §5 "There is no
// process-global mutable state... each extraction owns its resources").
type Orchestrator struct {
	maxAttempts             int
	includeSchemaInFeedback bool
	useContinuation         bool
}

// New constructs an Orchestrator with spec.md §4.E's defaults, overridden by
// opts.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		maxAttempts:             constants.DefaultMaxAttempts,
		includeSchemaInFeedback: true,
		useContinuation:         true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Extract runs the bounded retry loop described by spec.md §4.E against
// schema, starting from prompt and driving agent for each attempt. It
// returns the validated JSON value and metrics on success, or an
// ExtractionError (*SchemaError, *AgentError, or *MaxRetriesExceededError)
// on failure.
func (o *Orchestrator) Extract(ctx context.Context, schema *toolkit.Schema, prompt string, agent AgentFunc) (json.RawMessage, ExtractionMetrics, error) {
	start := time.Now()
	var (
		history      []AttemptRecord
		context_     = prompt // the evolving prompt/context fed to agent each attempt
		inputTokens  int
		outputTokens int
		lastRaw      string
	)

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		inputTokens += estimateTokens(context_)

		raw, err := agent(ctx, context_)
		if err != nil {
			var rejection *CallbackRejectionError
			if !errors.As(err, &rejection) {
				// Fatal infrastructure failure: exits immediately without
				// consuming further attempts (spec.md §4.E step 1).
				log.Errorf("attempt %d: agent_fn failed: %v", attempt, err)
				return nil, ExtractionMetrics{
					Attempts:     attempt,
					WallTime:     time.Since(start),
					InputTokens:  inputTokens,
					OutputTokens: outputTokens,
				}, &AgentError{Message: "agent invocation failed", Cause: err}
			}
			// A callback rejection stays inside the loop and consumes
			// retry budget identically to a validation failure (spec.md
			// §7 "Propagation policy").
			raw = ""
			lastRaw = rejection.Message
			history = append(history, AttemptRecord{
				Index:            attempt,
				ValidationErrors: []string{rejection.Message},
				RawOutput:        rejection.Message,
				ElapsedAt:        time.Since(start),
			})
			context_ = o.nextContext(prompt, context_, attempt, []string{rejection.Message}, schema, nil)
			continue
		}

		lastRaw = raw
		outputTokens += estimateTokens(raw)

		var candidate any
		if parseErr := json.Unmarshal([]byte(raw), &candidate); parseErr != nil {
			msg := "agent output was not valid JSON: " + parseErr.Error()
			log.Debugf("attempt %d: %s", attempt, msg)
			history = append(history, AttemptRecord{
				Index:            attempt,
				ValidationErrors: []string{msg},
				RawOutput:        raw,
				ElapsedAt:        time.Since(start),
			})
			context_ = o.nextContext(prompt, context_, attempt, []string{msg}, schema, nil)
			continue
		}

		if valErr := schema.Validate(candidate); valErr != nil {
			fb := schema.BuildFeedback(candidate, valErr)
			log.Debugf("attempt %d: schema validation failed (%d errors)", attempt, len(fb.Errors))
			history = append(history, AttemptRecord{
				Index:            attempt,
				Candidate:        fb.Candidate,
				ValidationErrors: fb.Errors,
				RawOutput:        raw,
				ElapsedAt:        time.Since(start),
			})
			context_ = o.nextContext(prompt, context_, attempt, fb.Errors, schema, fb.Candidate)
			continue
		}

		candidateJSON, err := json.Marshal(candidate)
		if err != nil {
			return nil, ExtractionMetrics{}, &SchemaError{Message: "failed to re-marshal validated candidate: " + err.Error()}
		}

		log.Printf("extraction succeeded on attempt %d", attempt)
		return candidateJSON, ExtractionMetrics{
			Attempts:     attempt,
			WallTime:     time.Since(start),
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
		}, nil
	}

	metrics := ExtractionMetrics{
		Attempts:     o.maxAttempts,
		WallTime:     time.Since(start),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	return nil, metrics, &MaxRetriesExceededError{
		Attempts:  o.maxAttempts,
		Max:       o.maxAttempts,
		History:   history,
		RawOutput: lastRaw,
		Metrics:   metrics,
	}
}

// nextContext builds the prompt for the following attempt, in continuation
// or fresh-prompt mode per o.useContinuation (spec.md §4.E "Feedback format").
func (o *Orchestrator) nextContext(originalPrompt, priorContext string, attempt int, errs []string, schema *toolkit.Schema, candidate json.RawMessage) string {
	var schemaJSON json.RawMessage
	if o.includeSchemaInFeedback && schema != nil {
		schemaJSON = schema.Raw()
	}
	if o.useContinuation {
		fb := buildFeedback(attempt, o.maxAttempts, errs, schemaJSON, candidate, o.includeSchemaInFeedback)
		return appendContinuation(priorContext, fb)
	}
	return fresh(originalPrompt, attempt, o.maxAttempts, errs, schemaJSON, candidate, o.includeSchemaInFeedback)
}

// estimateTokens is the cheap token estimate spec.md §3 "ExtractionMetrics"
// specifies: the ceiling of the Unicode scalar count divided by
// constants.TokenEstimateDivisor, not byte length and not a floor (spec.md
// §8 property 7 requires estimate("A")==1 and estimate("你好")==1, both of
// which floor division under-counts to 0).
func estimateTokens(s string) int {
	chars := utf8.RuneCountInString(s)
	return (chars + constants.TokenEstimateDivisor - 1) / constants.TokenEstimateDivisor
}

// ExtractTyped deserializes a successful Extract call's value into T. It is
// a free function, not a method, because Go methods cannot introduce new
// type parameters (spec.md §4.E "extract_typed<T>").
func ExtractTyped[T any](ctx context.Context, o *Orchestrator, schema *toolkit.Schema, prompt string, agent AgentFunc) (T, ExtractionMetrics, error) {
	var zero T
	raw, metrics, err := o.Extract(ctx, schema, prompt, agent)
	if err != nil {
		return zero, metrics, err
	}
	var typed T
	if err := json.Unmarshal(raw, &typed); err != nil {
		return zero, metrics, &ParseError{Message: err.Error(), RawText: string(raw), Attempt: metrics.Attempts}
	}
	return typed, metrics, nil
}

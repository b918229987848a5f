package extract

import "fmt"

// MaxRetriesExceededError is returned when every attempt up to max_attempts
// failed (spec.md §3 "ExtractionError", §4.E "Termination").
type MaxRetriesExceededError struct {
	Attempts int
	Max      int
	History  []AttemptRecord
	RawOutput string
	Metrics  ExtractionMetrics
}

func (e *MaxRetriesExceededError) Error() string {
	return fmt.Sprintf("extraction failed after %d/%d attempts", e.Attempts, e.Max)
}

// ParseError is returned by ExtractTyped when a value that passed schema
// validation cannot be decoded into the requested type. Extract itself never
// returns it: agent output that is not valid JSON is recorded in the attempt
// history and consumes one attempt, like a validation failure.
type ParseError struct {
	Message string
	RawText string
	Attempt int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on attempt %d: %s", e.Attempt, e.Message)
}

// SchemaError is returned by Extract when a candidate that passed validation
// cannot be re-encoded as JSON. A schema that fails to compile is not
// reported as a SchemaError: toolkit.Compile returns it as an ordinary
// wrapped error, before Extract is called and before any attempt is made.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s", e.Message)
}

// AgentError wraps a fatal infrastructure failure surfaced by agent_fn
// (spec.md §4.E step 1: "AgentError exits the loop immediately without
// consuming further attempts"). Supervisor errors bubble up through here
// unchanged (spec.md §7 "Propagation policy").
type AgentError struct {
	Message string
	Cause   error
}

func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("agent error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("agent error: %s", e.Message)
}

func (e *AgentError) Unwrap() error { return e.Cause }

// CallbackRejectionError is returned when the submission callback
// (on_submit) rejects an otherwise schema-valid candidate; spec.md §4.D
// treats this as "a new failure mode for retry purposes", so it consumes
// retry budget exactly like a validation failure.
type CallbackRejectionError struct {
	Message string
}

func (e *CallbackRejectionError) Error() string {
	return fmt.Sprintf("submission rejected: %s", e.Message)
}

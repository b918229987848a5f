package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// buildFeedback renders the continuation-mode feedback block spec.md §4.E
// "Feedback format" specifies verbatim: attempt counter, the full error
// list, the schema (when includeSchema), the echoed candidate, and a fixed
// closing directive.
func buildFeedback(attempt, max int, errs []string, schema json.RawMessage, candidate json.RawMessage, includeSchema bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Validation failed (attempt %d/%d). Errors:\n", attempt, max)
	for _, e := range errs {
		fmt.Fprintf(&b, "  - %s\n", e)
	}
	if includeSchema && len(schema) > 0 {
		fmt.Fprintf(&b, "Expected schema:\n%s\n\n", prettyOrRaw(schema))
	}
	fmt.Fprintf(&b, "Your submission:\n%s\n\n", prettyOrRaw(candidate))
	b.WriteString("Please fix the errors and try again.")
	return b.String()
}

// appendContinuation joins prior context and new feedback with the
// blank-line separator spec.md §4.E "continuation mode" requires.
func appendContinuation(prior, feedback string) string {
	if prior == "" {
		return feedback
	}
	return prior + "\n\n" + feedback
}

// fresh reassembles a self-contained prompt for fresh-prompt mode: the
// original prompt, the error list, and the schema (spec.md §4.E
// "fresh-prompt mode").
func fresh(originalPrompt string, attempt, max int, errs []string, schema json.RawMessage, candidate json.RawMessage, includeSchema bool) string {
	return originalPrompt + "\n\n" + buildFeedback(attempt, max, errs, schema, candidate, includeSchema)
}

func prettyOrRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "(none)"
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}

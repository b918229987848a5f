package extract

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/extractcli/extractcli/pkg/toolkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const idSchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {"id": {"type": "string"}}
}`

func compileIDSchema(t *testing.T) *toolkit.Schema {
	t.Helper()
	s, err := toolkit.Compile(json.RawMessage(idSchema))
	require.NoError(t, err)
	return s
}

// scriptedAgent returns one of a fixed sequence of (output, error) pairs per
// call, recording how many times it was invoked.
func scriptedAgent(t *testing.T, outputs []string, errs []error) (AgentFunc, *int) {
	t.Helper()
	calls := 0
	return func(ctx context.Context, prompt string) (string, error) {
		idx := calls
		calls++
		var err error
		if idx < len(errs) {
			err = errs[idx]
		}
		var out string
		if idx < len(outputs) {
			out = outputs[idx]
		}
		return out, err
	}, &calls
}

func TestExtract_HappyPath(t *testing.T) {
	schema := compileIDSchema(t)
	agent, calls := scriptedAgent(t, []string{`{"id":"X"}`}, nil)

	value, metrics, err := New().Extract(context.Background(), schema, "find the id", agent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"X"}`, string(value))
	assert.Equal(t, 1, metrics.Attempts)
	assert.GreaterOrEqual(t, metrics.WallTime, time.Duration(0))
	assert.Positive(t, metrics.InputTokens+metrics.OutputTokens)
	assert.Equal(t, 1, *calls)
}

func TestExtract_SchemaViolationThenSuccess(t *testing.T) {
	schema := compileIDSchema(t)
	agent, _ := scriptedAgent(t, []string{`{"value":123}`, `{"id":"Y"}`}, nil)

	value, metrics, err := New().Extract(context.Background(), schema, "find the id", agent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"Y"}`, string(value))
	assert.Equal(t, 2, metrics.Attempts)
}

func TestExtract_ExhaustedRetries(t *testing.T) {
	schema := compileIDSchema(t)
	agent, calls := scriptedAgent(t, []string{`{"value":123}`, `{"value":123}`, `{"value":123}`}, nil)

	_, _, err := New(WithMaxAttempts(3)).Extract(context.Background(), schema, "find the id", agent)
	require.Error(t, err)

	var maxErr *MaxRetriesExceededError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(t, 3, maxErr.Attempts)
	assert.Equal(t, 3, maxErr.Max)
	require.Len(t, maxErr.History, 3)
	for _, rec := range maxErr.History {
		found := false
		for _, e := range rec.ValidationErrors {
			if containsSubstring(e, "/id") {
				found = true
			}
		}
		assert.True(t, found, "expected an error mentioning /id, got %v", rec.ValidationErrors)
	}
	assert.Equal(t, 3, *calls)
}

func TestExtract_ParseFailureConsumesBudget(t *testing.T) {
	schema := compileIDSchema(t)
	agent, _ := scriptedAgent(t, []string{"not json", `{"id":"Z"}`}, nil)

	value, metrics, err := New().Extract(context.Background(), schema, "find the id", agent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"Z"}`, string(value))
	assert.Equal(t, 2, metrics.Attempts)
}

func TestExtract_AgentErrorAbortsImmediately(t *testing.T) {
	schema := compileIDSchema(t)
	sentinel := assert.AnError
	agent, calls := scriptedAgent(t, nil, []error{sentinel})

	_, _, err := New().Extract(context.Background(), schema, "find the id", agent)
	require.Error(t, err)

	var agentErr *AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, 1, *calls)

	var maxErr *MaxRetriesExceededError
	assert.False(t, errors.As(err, &maxErr), "an AgentError must not be reported as MaxRetriesExceeded")
}

func TestExtract_CallbackRejectionConsumesBudgetThenSucceeds(t *testing.T) {
	schema := compileIDSchema(t)
	agent, _ := scriptedAgent(t,
		[]string{"", `{"id":"W"}`},
		[]error{&CallbackRejectionError{Message: "duplicate id"}},
	)

	value, metrics, err := New().Extract(context.Background(), schema, "find the id", agent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"W"}`, string(value))
	assert.Equal(t, 2, metrics.Attempts)
}

func containsSubstring(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}


package toolkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	},
	"required": ["name", "age"],
	"additionalProperties": false
}`

func TestCompile_ValidSchema(t *testing.T) {
	s, err := Compile(json.RawMessage(personSchema))
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestCompile_MalformedSchemaFails(t *testing.T) {
	_, err := Compile(json.RawMessage(`{not json`))
	require.Error(t, err)
}

func TestValidate_Success(t *testing.T) {
	s, err := Compile(json.RawMessage(personSchema))
	require.NoError(t, err)

	var value any
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ada","age":36}`), &value))
	assert.NoError(t, s.Validate(value))
}

func TestValidate_MissingRequiredField(t *testing.T) {
	s, err := Compile(json.RawMessage(personSchema))
	require.NoError(t, err)

	var value any
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ada"}`), &value))
	verr := s.Validate(value)
	require.Error(t, verr)

	fb := s.BuildFeedback(value, verr)
	assert.NotEmpty(t, fb.Errors)
	assert.Equal(t, directiveSentence, fb.Directive)
	assert.JSONEq(t, personSchema, string(fb.Schema))
}

func TestValidate_MultipleSimultaneousErrorsAllReported(t *testing.T) {
	s, err := Compile(json.RawMessage(personSchema))
	require.NoError(t, err)

	var value any
	require.NoError(t, json.Unmarshal([]byte(`{"age":-1,"extra":true}`), &value))
	verr := s.Validate(value)
	require.Error(t, verr)

	fb := s.BuildFeedback(value, verr)
	// Missing "name", negative "age", and disallowed "extra" are all
	// distinct violations; none should be silently dropped.
	assert.GreaterOrEqual(t, len(fb.Errors), 3)
}

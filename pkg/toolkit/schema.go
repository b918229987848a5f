// Package toolkit turns a JSON schema plus a submission callback into the
// three-tool family spec.md §4.D requires: json_example, validate_json, and
// submit. Grounded on the teacher's schema compilation/validation pattern
// (pkg/workflow/schema_validation.go, pkg/parser/schema_compiler.go), which
// wraps github.com/santhosh-tekuri/jsonschema/v6 the same way.
package toolkit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// causePrinter renders each ValidationError leaf's Kind in plain English,
// independent of the multi-line tree-with-header format *ValidationError's
// own Error() produces.
var causePrinter = message.NewPrinter(language.English)

// schemaResourceURL is an arbitrary, stable identifier the compiler uses to
// refer back to the schema it was given; it need not resolve to anything.
const schemaResourceURL = "mem://extractcli/schema.json"

// Schema wraps a compiled JSON schema together with its original document,
// so toolkit tools can both validate against it and echo it verbatim (spec
// §4.D "submit": "the full schema" is part of the rich feedback payload).
type Schema struct {
	doc      any
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

// Compile parses a JSON schema document and compiles it eagerly, returning
// any structural error up front rather than deferring it to first use.
func Compile(rawSchema json.RawMessage) (*Schema, error) {
	var doc any
	if err := json.Unmarshal(rawSchema, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResourceURL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaResourceURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Schema{doc: doc, raw: rawSchema, compiled: compiled}, nil
}

// Validate checks value (already unmarshaled into Go types — maps, slices,
// scalars) against the schema, returning a nil error on success.
func (s *Schema) Validate(value any) error {
	return s.compiled.Validate(value)
}

// Raw returns the original schema document as submitted to Compile.
func (s *Schema) Raw() json.RawMessage {
	return s.raw
}

// ValidationFeedback is the rich, structured failure payload spec.md §4.D
// requires for both validate_json and submit on a failed validation: the
// per-error list with instance paths, an echo of the candidate, the full
// schema, and a directive sentence.
type ValidationFeedback struct {
	Errors    []string        `json:"errors"`
	Candidate json.RawMessage `json:"candidate"`
	Schema    json.RawMessage `json:"schema"`
	Directive string          `json:"directive"`
}

// directiveSentence is the fixed instruction appended to every validation
// failure (spec.md §4.D: "a directive sentence telling the peer to fix and
// retry via validate_json, then call submit").
const directiveSentence = "Fix the value using the errors above, call validate_json again to confirm it passes, then call submit."

// BuildFeedback assembles a ValidationFeedback from a validation error and
// the candidate value that failed, echoing this schema's own document.
func (s *Schema) BuildFeedback(candidate any, err error) ValidationFeedback {
	candidateJSON, marshalErr := json.MarshalIndent(candidate, "", "  ")
	if marshalErr != nil {
		candidateJSON = []byte(fmt.Sprintf("%v", candidate))
	}
	return ValidationFeedback{
		Errors:    flattenCauses(err),
		Candidate: candidateJSON,
		Schema:    s.raw,
		Directive: directiveSentence,
	}
}

// flattenCauses walks a *jsonschema.ValidationError tree depth-first,
// producing one "At path 'P': message" line per leaf cause — generalizing
// the teacher's extractFieldPath, which only ever kept the last path
// segment of a single error. A flat, fully-qualified path list is what
// spec.md §4.D calls "the per-error list with instance paths", and schemas
// with multiple simultaneous violations (e.g. two failing oneOf branches)
// need every leaf reported, not just one. Each leaf's message comes from
// node.Kind.LocalizedString, not node.Error(): the latter renders the whole
// remaining subtree with its own "jsonschema validation failed..." header,
// which would duplicate the path this function already prepends.
func flattenCauses(err error) []string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}

	var lines []string
	var walk func(node *jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			path := strings.Join(node.InstanceLocation, "/")
			if path == "" {
				path = "(root)"
			}
			lines = append(lines, fmt.Sprintf("At path '%s': %s", path, node.Kind.LocalizedString(causePrinter)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return lines
}

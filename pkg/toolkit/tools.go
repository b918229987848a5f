package toolkit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/extractcli/extractcli/internal/obslog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var log = obslog.New("toolkit")

// SubmitFunc is the submission callback spec.md §4.D calls
// `on_submit: Value → Result<String, String>`: it receives the candidate
// value (already schema-valid) and either accepts it, returning a
// confirmation message, or rejects it, returning a reason that is fed back
// to the peer as a new failure mode for retry purposes.
type SubmitFunc func(value any) (string, error)

type emptyArgs struct{}

type valueArgs struct {
	Value any `json:"value"`
}

// Register adds json_example, validate_json, and submit to server, wired
// against schema and onSubmit (spec.md §4.D "Given a schema S, a submission
// callback on_submit, and an optional example value..."). example may be
// nil, in which case json_example reports that no example is configured.
func Register(server *mcp.Server, schema *Schema, example any, onSubmit SubmitFunc) error {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "json_example",
		Description: "Return an example JSON value that conforms to the target schema, if one is configured.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ emptyArgs) (*mcp.CallToolResult, any, error) {
		return exampleResult(example), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_json",
		Description: "Validate a candidate JSON value against the target schema without submitting it. Returns a confirmation on success, or a structured list of errors with instance paths on failure.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args valueArgs) (*mcp.CallToolResult, any, error) {
		if err := schema.Validate(args.Value); err != nil {
			log.Debugf("validate_json: candidate failed schema validation: %v", err)
			return feedbackResult(schema.BuildFeedback(args.Value, err)), nil, nil
		}
		return textResult("The value is valid against the schema."), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit",
		Description: "Validate a candidate JSON value against the target schema and, if valid, submit it as the final answer. Returns a structured list of errors on validation failure, or the submission outcome on success.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args valueArgs) (*mcp.CallToolResult, any, error) {
		if err := schema.Validate(args.Value); err != nil {
			log.Debugf("submit: candidate failed schema validation: %v", err)
			return feedbackResult(schema.BuildFeedback(args.Value, err)), nil, nil
		}
		msg, err := onSubmit(args.Value)
		if err != nil {
			// A callback rejection is a new failure mode, not a transport
			// error (spec.md §4.D): the peer sees it as text and can retry.
			log.Debugf("submit: callback rejected candidate: %v", err)
			return textResult(fmt.Sprintf("Submission rejected: %s", err.Error())), nil, nil
		}
		return textResult(msg), nil, nil
	})

	return nil
}

func exampleResult(example any) *mcp.CallToolResult {
	if example == nil {
		return textResult("No example value is configured for this schema.")
	}
	b, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return textResult(fmt.Sprintf("No example value is configured for this schema (failed to render: %v).", err))
	}
	return textResult(string(b))
}

func feedbackResult(fb ValidationFeedback) *mcp.CallToolResult {
	b, err := json.MarshalIndent(fb, "", "  ")
	if err != nil {
		return textResult(fmt.Sprintf("validation failed and feedback could not be rendered: %v", err))
	}
	return textResult(string(b))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/extractcli/extractcli/pkg/constants"
	"github.com/extractcli/extractcli/pkg/extract"
	"github.com/extractcli/extractcli/pkg/mcpserver"
	"github.com/extractcli/extractcli/pkg/toolkit"
)

// runServe implements the tool-server side of one extraction: it reads the
// schema the orchestrator wrote to scratch space, registers the three
// toolkit tools against it, and serves MCP over stdio until the peer
// (the CLI agent) closes the connection (spec.md §4.C).
func runServe(ctx context.Context) error {
	schemaPath := os.Getenv(constants.SchemaPathEnvVar)
	if schemaPath == "" {
		return fmt.Errorf("serve mode requires %s to be set", constants.SchemaPathEnvVar)
	}
	submitPath := os.Getenv(constants.SubmitPathEnvVar)
	if submitPath == "" {
		return fmt.Errorf("serve mode requires %s to be set", constants.SubmitPathEnvVar)
	}

	rawSchema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	schema, err := toolkit.Compile(json.RawMessage(rawSchema))
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	sink := extract.NewFileSink(submitPath)
	onSubmit := func(value any) (string, error) {
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("encode submission: %w", err)
		}
		if err := sink.Set(encoded); err != nil {
			return "", fmt.Errorf("persist submission: %w", err)
		}
		return "Submission accepted.", nil
	}

	server, err := mcpserver.New(mcpserver.Options{
		ServerName: constants.ServerName,
		Version:    version,
		Schema:     schema,
		OnSubmit:   onSubmit,
	})
	if err != nil {
		return fmt.Errorf("build tool server: %w", err)
	}

	return mcpserver.Serve(ctx, server)
}

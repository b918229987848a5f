package mcpserver

import (
	"encoding/json"
	"testing"

	"github.com/extractcli/extractcli/pkg/toolkit"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersServerWithToolsCapability(t *testing.T) {
	schema, err := toolkit.Compile(json.RawMessage(`{"type":"object"}`))
	require.NoError(t, err)

	server, err := New(Options{
		ServerName: "extractcli-test",
		Version:    "0.0.0-test",
		Schema:     schema,
		OnSubmit:   func(value any) (string, error) { return "accepted", nil },
	})
	require.NoError(t, err)
	require.NotNil(t, server)
}

func TestShouldServe_PresentVsAbsent(t *testing.T) {
	env := map[string]string{"EXTRACTCLI_MCP_SERVE": "1"}
	present := func(key string) (string, bool) { v, ok := env[key]; return v, ok }
	require.True(t, ShouldServe(present))

	absent := func(key string) (string, bool) { return "", false }
	require.False(t, ShouldServe(absent))
}

package mcpconfig

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		ServerName: "extractcli",
		Command:    "/usr/bin/extractcli",
		Args:       []string{"serve"},
		Env:        map[string]string{"EXTRACTCLI_MCP_SERVE": "1"},
	}
}

func TestRender_ClaudeJSON(t *testing.T) {
	b, err := testConfig().Render(KindClaudeJSON)
	require.NoError(t, err)

	var doc claudeDoc
	require.NoError(t, json.Unmarshal(b, &doc))
	entry, ok := doc.McpServers["extractcli"]
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/extractcli", entry.Command)
	assert.Equal(t, []string{"serve"}, entry.Args)
	assert.Equal(t, "1", entry.Env["EXTRACTCLI_MCP_SERVE"])
}

func TestRender_CodexTOML(t *testing.T) {
	b, err := testConfig().Render(KindCodexTOML)
	require.NoError(t, err)

	var doc codexTOMLDoc
	require.NoError(t, toml.Unmarshal(b, &doc))
	entry, ok := doc.McpServers["extractcli"]
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/extractcli", entry.Command)
}

func TestRender_OpenCodeJSON(t *testing.T) {
	b, err := testConfig().Render(KindOpenCodeJSON)
	require.NoError(t, err)

	var doc opencodeDoc
	require.NoError(t, json.Unmarshal(b, &doc))
	entry, ok := doc.McpServers["extractcli"]
	require.True(t, ok)
	assert.Equal(t, []string{"/usr/bin/extractcli", "serve"}, entry.Command)
}

func TestRender_UnknownKindErrors(t *testing.T) {
	_, err := testConfig().Render(Kind(99))
	require.Error(t, err)
}

package opencode

import (
	"testing"

	"github.com/extractcli/extractcli/pkg/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs_PromptOnly(t *testing.T) {
	args := BuildArgs("extract fields", Config{WorkDir: "/tmp/run"})
	assert.Equal(t, []string{"extract fields"}, args)
}

func TestEnvVars_SetsConfigPath(t *testing.T) {
	env := EnvVars(Config{McpConfigPath: "/tmp/run/opencode.json"})
	require.Len(t, env, 1)
	assert.Equal(t, ConfigEnvVar, env[0].Key)
	assert.Equal(t, "/tmp/run/opencode.json", env[0].Value)
}

func TestEnvVars_EmptyWhenNoConfig(t *testing.T) {
	assert.Nil(t, EnvVars(Config{}))
}

func TestDecodeLine_ToolCall(t *testing.T) {
	ev := DecodeLine("stdout", `{"event":"tool.call","tool":"submit","input":{}}`)
	tc, ok := ev.(supervisor.ToolCallEvent)
	require.True(t, ok)
	assert.Equal(t, "submit", tc.ToolName)
}

func TestDecodeLine_PlainTextIsText(t *testing.T) {
	ev := DecodeLine("stdout", "hello from opencode")
	te, ok := ev.(supervisor.TextEvent)
	require.True(t, ok)
	assert.Equal(t, "hello from opencode", te.Text)
}

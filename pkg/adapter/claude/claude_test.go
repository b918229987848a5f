package claude

import (
	"testing"

	"github.com/extractcli/extractcli/pkg/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertFlagPair fails unless args contains flag immediately followed by value.
func assertFlagPair(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return
		}
	}
	t.Fatalf("expected %q %q adjacent in %v", flag, value, args)
}

func assertSingleton(t *testing.T, args []string, flag string) {
	t.Helper()
	assert.Contains(t, args, flag)
}

func TestBuildArgs_Minimal(t *testing.T) {
	args := BuildArgs("describe this repo", Config{})
	assertSingleton(t, args, "--print")
	assertFlagPair(t, args, "--tools", "")
	assertSingleton(t, args, "--disable-slash-commands")
	assertSingleton(t, args, "--strict-mcp-config")
	assertFlagPair(t, args, "--output-format", "stream-json")
	assertFlagPair(t, args, "--permission-mode", "bypassPermissions")
	assert.Equal(t, "describe this repo", args[len(args)-1])
	assert.NotContains(t, args, "--mcp-config")
	assert.NotContains(t, args, "--allowed-tools")
	assert.NotContains(t, args, "--system-prompt")
}

func TestBuildArgs_McpConfigRepeatable(t *testing.T) {
	args := BuildArgs("p", Config{McpConfigPaths: []string{"/tmp/a.json", "/tmp/b.json"}})
	assertFlagPair(t, args, "--mcp-config", "/tmp/a.json")
	assertFlagPair(t, args, "--mcp-config", "/tmp/b.json")
}

func TestBuildArgs_ToolPolicy(t *testing.T) {
	args := BuildArgs("p", Config{
		AllowedTools:    "Bash(git:*),mcp__extractcli__submit",
		DisallowedTools: "WebFetch",
	})
	assertFlagPair(t, args, "--allowed-tools", "Bash(git:*),mcp__extractcli__submit")
	assertFlagPair(t, args, "--disallowed-tools", "WebFetch")
}

func TestBuildArgs_SystemPromptFlag(t *testing.T) {
	args := BuildArgs("p", Config{SystemPrompt: "You are precise."})
	assertFlagPair(t, args, SystemPromptFlagName, "You are precise.")
}

func TestDecodeLine_ToolUse(t *testing.T) {
	line := `{"type":"tool_use","name":"submit","input":{"value":1}}`
	ev := DecodeLine("stdout", line)
	tc, ok := ev.(supervisor.ToolCallEvent)
	require.True(t, ok)
	assert.Equal(t, "stdout", tc.Stream())
	assert.Equal(t, "submit", tc.ToolName)
}

func TestDecodeLine_PlainTextFallsBackToText(t *testing.T) {
	ev := DecodeLine("stdout", "not json at all")
	te, ok := ev.(supervisor.TextEvent)
	require.True(t, ok)
	assert.Equal(t, "not json at all", te.Text)
}

func TestDecodeLine_UnknownDiscriminatorFallsBackToUnknown(t *testing.T) {
	line := `{"type":"some_future_frame","x":1}`
	ev := DecodeLine("stderr", line)
	ue, ok := ev.(supervisor.UnknownEvent)
	require.True(t, ok)
	assert.Equal(t, line, ue.Raw)
}

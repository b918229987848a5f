package codex

import (
	"testing"

	"github.com/extractcli/extractcli/pkg/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertFlagPair(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return
		}
	}
	t.Fatalf("expected %q %q adjacent in %v", flag, value, args)
}

func TestBuildArgs_DefaultsAreSafe(t *testing.T) {
	args := BuildArgs("p", Config{})
	assertFlagPair(t, args, "--sandbox", "read-only")
	assertFlagPair(t, args, "--ask-for-approval", "untrusted")
	assert.Contains(t, args, "--skip-git-repo-check")
}

func TestBuildArgs_WorkDirAndAddDirs(t *testing.T) {
	args := BuildArgs("p", Config{
		WorkDir: "/tmp/run-1",
		AddDirs: []string{"/tmp/extra-a", "/tmp/extra-b"},
	})
	assertFlagPair(t, args, "-C", "/tmp/run-1")
	assertFlagPair(t, args, "--add-dir", "/tmp/extra-a")
	assertFlagPair(t, args, "--add-dir", "/tmp/extra-b")
}

func TestBuildArgs_McpOverrides(t *testing.T) {
	args := BuildArgs("p", Config{
		McpOverrides: []McpOverride{{Key: "mcp_servers.extractcli.command", Value: "/usr/bin/extractcli"}},
	})
	assertFlagPair(t, args, "-c", "mcp_servers.extractcli.command=/usr/bin/extractcli")
}

func TestBuildArgs_PromptIsLastArg(t *testing.T) {
	args := BuildArgs("extract the invoice total", Config{})
	assert.Equal(t, "extract the invoice total", args[len(args)-1])
}

func TestDecodeLine_FunctionCall(t *testing.T) {
	ev := DecodeLine("stdout", `{"msg_type":"function_call","name":"validate_json","arguments":{"value":1}}`)
	tc, ok := ev.(supervisor.ToolCallEvent)
	require.True(t, ok)
	assert.Equal(t, "validate_json", tc.ToolName)
}

func TestDecodeLine_NonJSONIsText(t *testing.T) {
	ev := DecodeLine("stderr", "warning: something")
	te, ok := ev.(supervisor.TextEvent)
	require.True(t, ok)
	assert.Equal(t, "warning: something", te.Text)
}

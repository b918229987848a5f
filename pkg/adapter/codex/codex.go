// Package codex builds argv and decodes stream output for the "CX" CLI
// (spec §4.B, §6 delivery table row "CX"). Grounded on the teacher's
// pkg/workflow/codex_engine.go sandbox/approval vocabulary, generalized from
// a fixed GitHub MCP server override to an arbitrary MCP server name/config.
package codex

import (
	"fmt"

	"github.com/extractcli/extractcli/internal/obslog"
	"github.com/extractcli/extractcli/pkg/adapter/jsonline"
	"github.com/extractcli/extractcli/pkg/supervisor"
)

var log = obslog.New("adapter:codex")

// SandboxMode is CX's --sandbox argument (spec.md §4.B "CX" modes).
type SandboxMode string

const (
	SandboxReadOnly        SandboxMode = "read-only"
	SandboxWorkspaceWrite  SandboxMode = "workspace-write"
	SandboxDangerFullAccess SandboxMode = "danger-full-access"
)

// ApprovalPolicy is CX's --ask-for-approval argument.
type ApprovalPolicy string

const (
	ApprovalUntrusted ApprovalPolicy = "untrusted"
	ApprovalOnFailure ApprovalPolicy = "on-failure"
	ApprovalOnRequest ApprovalPolicy = "on-request"
	ApprovalNever     ApprovalPolicy = "never"
)

// DefaultSandbox and DefaultApproval are the safe defaults spec.md §4.B
// names explicitly: read-only sandboxing and untrusted-only auto-run.
const (
	DefaultSandbox  SandboxMode    = SandboxReadOnly
	DefaultApproval ApprovalPolicy = ApprovalUntrusted
)

// McpOverride is one "-c key=value" pair CX uses to deliver MCP server
// configuration (spec.md §6 delivery table row "CX": "Repeated -c key=value
// overrides referencing the server").
type McpOverride struct {
	Key   string
	Value string
}

// Config holds CX's adapter-specific knobs.
type Config struct {
	Sandbox      SandboxMode
	Approval     ApprovalPolicy
	WorkDir      string        // -C <dir>
	AddDirs      []string      // --add-dir <dir>, repeatable
	McpOverrides []McpOverride // -c key=value, repeatable
}

// resolved fills in spec-mandated defaults for zero-value fields.
func (c Config) resolved() Config {
	if c.Sandbox == "" {
		c.Sandbox = DefaultSandbox
	}
	if c.Approval == "" {
		c.Approval = DefaultApproval
	}
	return c
}

// BuildArgs deterministically produces CX's argv for one prompt. CX has no
// --system-prompt flag (spec.md §4.B): callers needing a system prompt use
// supervisor.SystemPromptMode = SystemPromptPrepend instead.
func BuildArgs(prompt string, cfg Config) []string {
	cfg = cfg.resolved()
	var args []string

	args = append(args, "--sandbox", string(cfg.Sandbox))
	args = append(args, "--ask-for-approval", string(cfg.Approval))
	args = append(args, "--skip-git-repo-check")

	if cfg.WorkDir != "" {
		args = append(args, "-C", cfg.WorkDir)
	}
	for _, d := range cfg.AddDirs {
		args = append(args, "--add-dir", d)
	}
	for _, ov := range cfg.McpOverrides {
		args = append(args, "-c", fmt.Sprintf("%s=%s", ov.Key, ov.Value))
	}

	args = append(args, prompt)

	log.Debugf("built %d codex args", len(args))
	return args
}

// DecodeLine implements supervisor.LineDecoder for CX's event stream.
func DecodeLine(stream, line string) supervisor.StreamEvent {
	return jsonline.Decode(discriminate, stream, line)
}

func discriminate(raw map[string]any, stream, line string) (supervisor.StreamEvent, bool) {
	switch jsonline.StringField(raw, "msg_type") {
	case "function_call":
		return supervisor.NewToolCallEvent(stream, jsonline.StringField(raw, "name"), jsonline.MapField(raw, "arguments")), true
	case "function_call_output":
		return supervisor.NewToolResultEvent(
			stream,
			jsonline.StringField(raw, "name"),
			jsonline.StringField(raw, "output"),
			jsonline.BoolField(raw, "error"),
		), true
	case "error":
		return supervisor.NewErrorEvent(stream, jsonline.StringField(raw, "message")), true
	case "agent_message", "task_started", "task_complete":
		return supervisor.NewTextEvent(stream, line), true
	default:
		return nil, false
	}
}

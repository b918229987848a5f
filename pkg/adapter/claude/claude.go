// Package claude builds argv and decodes stream output for the "CC" CLI
// (spec §4.B, §6's delivery table row "CC"). Grounded on the teacher's
// pkg/workflow/claude_engine.go flag vocabulary, adapted from "emit a shell
// step string" to "build an exec.Cmd argument vector" — no shell
// interpolation is involved, so the teacher's shellJoinArgs helper has no
// equivalent here.
package claude

import (
	"strings"

	"github.com/extractcli/extractcli/internal/obslog"
	"github.com/extractcli/extractcli/pkg/adapter/jsonline"
	"github.com/extractcli/extractcli/pkg/supervisor"
)

var log = obslog.New("adapter:claude")

// Config holds CC's adapter-specific knobs (spec.md §4.B "CC" flag list).
// A Config is passed to BuildArgs.
type Config struct {
	// AllowedTools is the --allowed-tools CSV, e.g. "Bash(git:*),mcp__extractcli__submit".
	AllowedTools string
	// DisallowedTools is the --disallowed-tools CSV.
	DisallowedTools string
	// McpConfigPaths are one or more --mcp-config files (repeatable flag).
	McpConfigPaths []string
	// SystemPrompt, when non-empty, is delivered via --system-prompt (CC is
	// the one CLI of the three that accepts this flag directly).
	SystemPrompt string
}

// SystemPromptFlagName is the flag CC uses to receive a system prompt
// directly, used to build a supervisor.SystemPromptSpec for this adapter.
const SystemPromptFlagName = "--system-prompt"

// BuildArgs deterministically produces CC's argv for one prompt (spec.md
// §4.B "build_args(prompt, config)"). The prompt is appended as the final
// positional argument, matching how CC accepts the final free-form argument.
func BuildArgs(prompt string, cfg Config) []string {
	var args []string

	args = append(args, "--print")
	args = append(args, "--tools", "")
	args = append(args, "--disable-slash-commands")
	args = append(args, "--strict-mcp-config")

	for _, p := range cfg.McpConfigPaths {
		args = append(args, "--mcp-config", p)
	}

	if cfg.AllowedTools != "" {
		args = append(args, "--allowed-tools", cfg.AllowedTools)
	}
	if cfg.DisallowedTools != "" {
		args = append(args, "--disallowed-tools", cfg.DisallowedTools)
	}
	if cfg.SystemPrompt != "" {
		args = append(args, SystemPromptFlagName, cfg.SystemPrompt)
	}

	args = append(args, "--output-format", "stream-json")
	args = append(args, "--permission-mode", "bypassPermissions")

	args = append(args, prompt)

	log.Debugf("built %d claude args", len(args))
	return args
}

// DecodeLine implements supervisor.LineDecoder for CC's stream-json output
// (spec §6 "Stream protocols"): each line is a JSON object discriminated by
// its "type" field.
func DecodeLine(stream, line string) supervisor.StreamEvent {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return supervisor.NewTextEvent(stream, line)
	}
	return jsonline.Decode(discriminate, stream, line)
}

func discriminate(raw map[string]any, stream, line string) (supervisor.StreamEvent, bool) {
	switch jsonline.StringField(raw, "type") {
	case "tool_use":
		return supervisor.NewToolCallEvent(stream, jsonline.StringField(raw, "name"), jsonline.MapField(raw, "input")), true
	case "tool_result":
		return supervisor.NewToolResultEvent(
			stream,
			jsonline.StringField(raw, "tool_name"),
			jsonline.StringField(raw, "content"),
			jsonline.BoolField(raw, "is_error"),
		), true
	case "error":
		return supervisor.NewErrorEvent(stream, jsonline.StringField(raw, "message")), true
	case "assistant", "result", "system":
		return supervisor.NewTextEvent(stream, line), true
	default:
		return nil, false
	}
}

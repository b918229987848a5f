// Package opencode builds argv/env and decodes stream output for the "OC"
// CLI (spec §4.B, §6 delivery table row "OC"). Grounded on the teacher's
// pkg/workflow/copilot_engine.go shape (containment via working directory
// plus an env var pointing at a generated config file), re-targeted at OC's
// actual OPENCODE_CONFIG delivery named in spec.md §6 rather than the
// teacher's Copilot-specific env var.
package opencode

import (
	"github.com/extractcli/extractcli/internal/obslog"
	"github.com/extractcli/extractcli/pkg/adapter/jsonline"
	"github.com/extractcli/extractcli/pkg/supervisor"
)

var log = obslog.New("adapter:opencode")

// ConfigEnvVar is the environment variable OC reads its MCP configuration
// path from (spec.md §6: "OPENCODE_CONFIG env pointing at a file whose
// schema differs from CC's").
const ConfigEnvVar = "OPENCODE_CONFIG"

// Config holds OC's adapter-specific knobs. OC has no tool-restriction
// flags (spec.md §4.B): containment is entirely working-directory and
// env-var driven.
type Config struct {
	// McpConfigPath is the file OPENCODE_CONFIG will point at.
	McpConfigPath string
	// WorkDir is the child's working directory, used as the containment
	// boundary in place of flag-based tool policy.
	WorkDir string
}

// BuildArgs deterministically produces OC's argv for one prompt. OC carries
// no tool-policy or system-prompt flags, so the vector is just the prompt
// itself; containment and MCP delivery ride on RunConfig.Dir and
// RunConfig.Env instead (see EnvVars).
func BuildArgs(prompt string, _ Config) []string {
	log.Debugf("built opencode args for prompt of length %d", len(prompt))
	return []string{prompt}
}

// EnvVars returns the environment overrides BuildArgs' caller should set on
// the RunConfig (spec.md §6: "an environment variable pointing at a file").
func EnvVars(cfg Config) []supervisor.EnvVar {
	if cfg.McpConfigPath == "" {
		return nil
	}
	return []supervisor.EnvVar{{Key: ConfigEnvVar, Value: cfg.McpConfigPath}}
}

// DecodeLine implements supervisor.LineDecoder for OC's event stream.
func DecodeLine(stream, line string) supervisor.StreamEvent {
	return jsonline.Decode(discriminate, stream, line)
}

func discriminate(raw map[string]any, stream, line string) (supervisor.StreamEvent, bool) {
	switch jsonline.StringField(raw, "event") {
	case "tool.call":
		return supervisor.NewToolCallEvent(stream, jsonline.StringField(raw, "tool"), jsonline.MapField(raw, "input")), true
	case "tool.result":
		return supervisor.NewToolResultEvent(
			stream,
			jsonline.StringField(raw, "tool"),
			jsonline.StringField(raw, "output"),
			jsonline.BoolField(raw, "error"),
		), true
	case "error":
		return supervisor.NewErrorEvent(stream, jsonline.StringField(raw, "message")), true
	case "message", "step.start", "step.finish":
		return supervisor.NewTextEvent(stream, line), true
	default:
		return nil, false
	}
}

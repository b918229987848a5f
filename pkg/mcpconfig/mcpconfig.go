// Package mcpconfig renders the on-disk MCP configuration artifact each CLI
// adapter expects (spec.md §6 "MCP configuration delivery"). The three
// shapes are a fixed, named set — CC's JSON mcpServers map, CX's TOML
// overrides, and OC's own JSON schema — not an open-ended plugin surface.
package mcpconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Kind selects which of the three on-disk shapes Render produces.
type Kind int

const (
	// KindClaudeJSON renders {"mcpServers":{"<name>":{...}}} for CC's
	// --mcp-config flag.
	KindClaudeJSON Kind = iota
	// KindCodexTOML renders the key/value pairs CX expects via repeated
	// -c overrides, as a standalone TOML document (for on-disk delivery
	// alongside the override flags codex.BuildArgs already emits).
	KindCodexTOML
	// KindOpenCodeJSON renders the file OC's OPENCODE_CONFIG env var
	// points at.
	KindOpenCodeJSON
)

// Config describes one MCP server entry: how to launch the tool-server
// process that implements pkg/mcpserver's contract.
type Config struct {
	// ServerName is the key under which the server is registered; it is
	// also the namespace component of every peer-visible tool name
	// (mcp__<ServerName>__<tool>).
	ServerName string
	Command    string
	Args       []string
	Env        map[string]string
}

// claudeDoc is CC's on-disk shape (spec.md §6: `{"mcpServers":{"<name>":{...}}}`).
type claudeDoc struct {
	McpServers map[string]claudeServerEntry `json:"mcpServers"`
}

type claudeServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// opencodeDoc is OC's on-disk shape: structurally similar to CC's but with
// its own top-level key, since OC's schema is not the same as CC's (spec.md
// §6: "a file whose schema differs from CC's").
type opencodeDoc struct {
	McpServers map[string]opencodeServerEntry `json:"mcp"`
}

type opencodeServerEntry struct {
	Type    string            `json:"type"`
	Command []string          `json:"command"`
	Environment map[string]string `json:"environment,omitempty"`
}

// Render produces the on-disk bytes for kind.
func (c Config) Render(kind Kind) ([]byte, error) {
	switch kind {
	case KindClaudeJSON:
		doc := claudeDoc{McpServers: map[string]claudeServerEntry{
			c.ServerName: {Command: c.Command, Args: c.Args, Env: c.Env},
		}}
		return json.MarshalIndent(doc, "", "  ")

	case KindCodexTOML:
		return renderCodexTOML(c)

	case KindOpenCodeJSON:
		doc := opencodeDoc{McpServers: map[string]opencodeServerEntry{
			c.ServerName: {
				Type:        "local",
				Command:     append([]string{c.Command}, c.Args...),
				Environment: c.Env,
			},
		}}
		return json.MarshalIndent(doc, "", "  ")

	default:
		return nil, fmt.Errorf("mcpconfig: unknown kind %d", kind)
	}
}

// codexTOMLDoc mirrors the table CX reads its MCP server definitions from
// (mcp_servers.<name>.*), the counterpart to the -c overrides codex.BuildArgs
// emits on the command line.
type codexTOMLDoc struct {
	McpServers map[string]codexServerEntry `toml:"mcp_servers"`
}

type codexServerEntry struct {
	Command string            `toml:"command"`
	Args    []string          `toml:"args,omitempty"`
	Env     map[string]string `toml:"env,omitempty"`
}

func renderCodexTOML(c Config) ([]byte, error) {
	doc := codexTOMLDoc{McpServers: map[string]codexServerEntry{
		c.ServerName: {Command: c.Command, Args: c.Args, Env: c.Env},
	}}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("render codex TOML: %w", err)
	}
	return buf.Bytes(), nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/extractcli/extractcli/pkg/adapter/claude"
	"github.com/extractcli/extractcli/pkg/adapter/codex"
	"github.com/extractcli/extractcli/pkg/adapter/opencode"
	"github.com/extractcli/extractcli/pkg/console"
	"github.com/extractcli/extractcli/pkg/constants"
	"github.com/extractcli/extractcli/pkg/extract"
	"github.com/extractcli/extractcli/pkg/mcpconfig"
	"github.com/extractcli/extractcli/pkg/supervisor"
	"github.com/extractcli/extractcli/pkg/toolkit"
	"github.com/spf13/cobra"
)

type extractFlags struct {
	cliName     string
	schemaPath  string
	prompt      string
	maxAttempts int
	timeout     time.Duration
}

func newExtractCommand() *cobra.Command {
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run one extraction against a configured CLI agent, for manual testing",
		Long: `extract wires the orchestrator end to end against a real, local CLI agent:
it renders an MCP config pointing back at this same binary (serve mode),
spawns the agent under the supervisor, and drives the bounded-retry
extraction loop until the agent's submission validates or the attempt
budget is exhausted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.cliName, "cli", "claude", `which CLI agent to drive: "claude", "codex", or "opencode"`)
	cmd.Flags().StringVar(&flags.schemaPath, "schema", "", "path to a JSON schema file (required)")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "natural-language extraction task (required)")
	cmd.Flags().IntVar(&flags.maxAttempts, "max-attempts", constants.DefaultMaxAttempts, "maximum extraction attempts")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", constants.DefaultRunTimeout, "wall-clock timeout per agent invocation")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func runExtract(ctx context.Context, flags *extractFlags) error {
	rawSchema, err := os.ReadFile(flags.schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	schema, err := toolkit.Compile(rawSchema)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	scratchDir, err := os.MkdirTemp("", "extractcli-run-*")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	schemaPath := filepath.Join(scratchDir, "schema.json")
	if err := os.WriteFile(schemaPath, rawSchema, 0o600); err != nil {
		return fmt.Errorf("write scratch schema: %w", err)
	}
	submitPath := filepath.Join(scratchDir, "submission.json")

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve own binary path: %w", err)
	}

	serverEnv := map[string]string{
		constants.ServeModeEnvVar:  "1",
		constants.SchemaPathEnvVar: schemaPath,
		constants.SubmitPathEnvVar: submitPath,
	}

	binary, runCfg, mcpKind, err := buildRunConfig(flags, scratchDir, self, serverEnv)
	if err != nil {
		return err
	}

	mcpPayload, err := mcpconfig.Config{
		ServerName: constants.ServerName,
		Command:    self,
		Env:        serverEnv,
	}.Render(mcpKind)
	if err != nil {
		return fmt.Errorf("render MCP config: %w", err)
	}

	if err := wireMcpDelivery(flags.cliName, scratchDir, mcpPayload, &runCfg); err != nil {
		return err
	}

	sv := &supervisor.Supervisor{
		StdoutDecoder: decoderFor(flags.cliName),
		StderrDecoder: decoderFor(flags.cliName),
	}
	sink := extract.NewFileSink(submitPath)

	agent := func(ctx context.Context, prompt string) (string, error) {
		perAttempt := runCfg
		perAttempt.Args = buildAgentArgs(flags.cliName, prompt, scratchDir)

		if _, runErr := sv.Run(ctx, binary, perAttempt); runErr != nil {
			return "", &extract.AgentError{Message: "agent run failed", Cause: runErr}
		}

		value, ok, readErr := sink.TakeAndClear()
		if readErr != nil {
			return "", &extract.AgentError{Message: "read submission sink failed", Cause: readErr}
		}
		if !ok {
			return "", nil // "raw output carries no candidate" (spec §4.E)
		}
		return string(value), nil
	}

	orchestrator := extract.New(extract.WithMaxAttempts(flags.maxAttempts))
	result, metrics, err := orchestrator.Extract(ctx, schema, flags.prompt, agent)
	if err != nil {
		printFailure(err)
		return err
	}

	fmt.Println(console.FormatSuccessMessage(fmt.Sprintf(
		"extraction succeeded in %d attempt(s), %s", metrics.Attempts, metrics.WallTime)))
	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
	return nil
}

// buildRunConfig selects the adapter for flags.cliName and produces its
// base RunConfig (working directory and timeout; Args are rebuilt per attempt
// since they embed the evolving prompt).
func buildRunConfig(flags *extractFlags, scratchDir, self string, serverEnv map[string]string) (string, supervisor.RunConfig, mcpconfig.Kind, error) {
	switch flags.cliName {
	case "claude":
		binary, err := exec.LookPath("claude")
		if err != nil {
			return "", supervisor.RunConfig{}, 0, fmt.Errorf("locate claude CLI on PATH: %w", err)
		}
		return binary, supervisor.RunConfig{Dir: scratchDir, Timeout: flags.timeout}, mcpconfig.KindClaudeJSON, nil

	case "codex":
		binary, err := exec.LookPath("codex")
		if err != nil {
			return "", supervisor.RunConfig{}, 0, fmt.Errorf("locate codex CLI on PATH: %w", err)
		}
		return binary, supervisor.RunConfig{Dir: scratchDir, Timeout: flags.timeout}, mcpconfig.KindCodexTOML, nil

	case "opencode":
		binary, err := exec.LookPath("opencode")
		if err != nil {
			return "", supervisor.RunConfig{}, 0, fmt.Errorf("locate opencode CLI on PATH: %w", err)
		}
		return binary, supervisor.RunConfig{Dir: scratchDir, Timeout: flags.timeout}, mcpconfig.KindOpenCodeJSON, nil

	default:
		return "", supervisor.RunConfig{}, 0, fmt.Errorf("unknown --cli %q: want claude, codex, or opencode", flags.cliName)
	}
}

// buildAgentArgs delegates to the chosen adapter's BuildArgs for one
// attempt's prompt.
func buildAgentArgs(cliName, prompt, scratchDir string) []string {
	toolNamespace := fmt.Sprintf("mcp__%s__", constants.ServerName)
	switch cliName {
	case "claude":
		return claude.BuildArgs(prompt, claude.Config{
			McpConfigPaths: []string{filepath.Join(scratchDir, "mcp-config.json")},
			AllowedTools:   toolNamespace + "json_example," + toolNamespace + "validate_json," + toolNamespace + "submit",
		})
	case "codex":
		return codex.BuildArgs(prompt, codex.Config{WorkDir: scratchDir})
	case "opencode":
		return opencode.BuildArgs(prompt, opencode.Config{WorkDir: scratchDir, McpConfigPath: filepath.Join(scratchDir, "opencode.json")})
	default:
		return []string{prompt}
	}
}

// decoderFor returns the adapter LineDecoder for cliName, or nil for an
// unrecognized name (the supervisor then falls back to plain-text lines).
func decoderFor(cliName string) supervisor.LineDecoder {
	switch cliName {
	case "claude":
		return claude.DecodeLine
	case "codex":
		return codex.DecodeLine
	case "opencode":
		return opencode.DecodeLine
	default:
		return nil
	}
}

// wireMcpDelivery writes the rendered MCP config into the scratch directory.
// For claude the file is the one buildAgentArgs passes via --mcp-config; for
// opencode it also sets OPENCODE_CONFIG on runCfg. For codex the TOML file is
// only written: no -c override or other argument passed to codex refers to it.
func wireMcpDelivery(cliName, scratchDir string, payload []byte, runCfg *supervisor.RunConfig) error {
	switch cliName {
	case "claude":
		return os.WriteFile(filepath.Join(scratchDir, "mcp-config.json"), payload, 0o600)
	case "codex":
		return os.WriteFile(filepath.Join(scratchDir, "mcp-config.toml"), payload, 0o600)
	case "opencode":
		path := filepath.Join(scratchDir, "opencode.json")
		if err := os.WriteFile(path, payload, 0o600); err != nil {
			return err
		}
		runCfg.Env = append(runCfg.Env, opencode.EnvVars(opencode.Config{McpConfigPath: path})...)
		return nil
	default:
		return fmt.Errorf("unknown --cli %q", cliName)
	}
}

func printFailure(err error) {
	for _, line := range console.RenderErrorBox(err.Error()) {
		fmt.Println(line)
	}
}
